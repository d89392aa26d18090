package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/grab/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <script>",
	Short: "Run a script again whenever it changes",
	Long: `Runs the script, then runs it again each time the file is saved.
Every run starts with empty variables. Errors are printed and the
watcher keeps going; stop it with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	checkExtension(path)

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := watch.New(watch.Options{Path: path, Logger: a.logger})
	return w.Run(ctx, func(ctx context.Context) error {
		err := runScript(ctx, a, path)
		if err != nil {
			printError(err)
		}
		return err
	})
}
