package cmd

import (
	"os"

	"github.com/spf13/cobra"

	graberror "github.com/msto63/grab/foundation/core/error"
	"github.com/msto63/grab/internal/style"
	"github.com/msto63/grab/pkg/core/version"
)

var (
	cfgFile string
	debug   bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "grab",
	Short: "GrabLang - line oriented web scraping scripts",
	Long: `grab runs GrabLang scripts: small line oriented programs that load
pages, select elements, filter and extract their content, and write
the results as JSON.

Example:
  LOAD URL "https://example.com"
  SELECT ALL "a"
  GET ATTR href
  JSON "links"`,
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command line. Errors are printed once with an [ERROR]
// prefix.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $GRAB_CONFIG, ./grab.toml, ./grab.yaml, ~/.config/grab/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log every statement at debug level")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func printError(err error) {
	palette := style.New(os.Stderr, noColor)
	rootCmd.PrintErrln(palette.Line("ERROR", errorMessage(err)))
}

// errorMessage appends code and operation to failures of high severity,
// which come from the environment rather than the script
func errorMessage(err error) string {
	msg := err.Error()
	e, ok := graberror.As(err)
	if !ok || !e.Severity().ShouldAlert() {
		return msg
	}
	if op := e.Operation(); op != "" {
		return msg + " (" + e.Code().String() + " in " + op + ")"
	}
	return msg + " (" + e.Code().String() + ")"
}

func printWarning(msg string) {
	palette := style.New(os.Stderr, noColor)
	rootCmd.PrintErrln(palette.Line("WARNING", msg))
}
