package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	graberror "github.com/msto63/grab/foundation/core/error"
	grabast "github.com/msto63/grab/foundation/grab/ast"
	grabparser "github.com/msto63/grab/foundation/grab/parser"
	"github.com/msto63/grab/internal/style"
)

var checkFormat string

var checkCmd = &cobra.Command{
	Use:   "check <script>",
	Short: "Parse a script and print its syntax tree",
	Long: `Parses a script without running it. Syntax errors are reported with
line and column; a valid script is printed as a tree (text) or as
JSON or YAML.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "output format: text, json or yaml")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	checkExtension(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return graberror.Wrap(err, "cannot read script").
			WithCode(graberror.CodeIO).
			WithOperation("check").
			WithDetail("path", path)
	}

	p, err := grabparser.New(grabparser.Options{})
	if err != nil {
		return err
	}
	program, err := p.Parse(string(data))
	if err != nil {
		return err
	}

	out, err := renderTree(program, checkFormat)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)

	if checkFormat == "text" {
		stats := grabast.Collect(program)
		palette := style.New(cmd.OutOrStdout(), noColor)
		fmt.Fprintln(cmd.OutOrStdout(), palette.Line("SUCCESS", fmt.Sprintf(
			"%s: %d statement(s), %d command(s), %d control block(s), depth %d",
			path, stats.Statements, stats.Commands, stats.Controls, stats.MaxDepth)))
	}
	return nil
}

func renderTree(program *grabast.Node, format string) (string, error) {
	switch format {
	case "text":
		return program.Dump(), nil
	case "json":
		data, err := json.MarshalIndent(program, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	case "yaml":
		data, err := yaml.Marshal(program)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", graberror.Newf("unknown format %q, expected text, json or yaml", format).
			WithCode(graberror.CodeInvalidInput).
			WithOperation("check")
	}
}
