package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	grablog "github.com/msto63/grab/foundation/core/log"
	"github.com/msto63/grab/foundation/utils/timex"
)

// ScriptExtension is the conventional file extension of GrabLang scripts
const ScriptExtension = ".grab"

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run a GrabLang script",
	Long: `Parses and runs a script. Execution stops at the first failing
statement; the error names its line and the exit status is 1.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	path := args[0]
	checkExtension(path)

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return runScript(ctx, a, path)
}

// runScript executes one script with a fresh interpreter and reports its
// warnings on stderr
func runScript(ctx context.Context, a *app, path string) error {
	interp, err := a.interpreter(os.Stdout)
	if err != nil {
		return err
	}

	result, err := interp.RunFile(ctx, path)
	if result != nil {
		for _, w := range result.Warnings {
			printWarning(w.String())
		}
		a.logger.Debug("script finished", grablog.Fields{
			"script":   path,
			"run_id":   result.RunID,
			"duration": timex.FormatDurationCompact(result.Duration),
			"success":  err == nil,
		})
	}
	return err
}

func checkExtension(path string) {
	if !strings.EqualFold(filepath.Ext(path), ScriptExtension) {
		printWarning("file '" + path + "' does not have the " + ScriptExtension + " extension")
	}
}
