// Package commands registers the built-in GrabLang commands.
package commands

import (
	"io"

	graberror "github.com/msto63/grab/foundation/core/error"
	grablog "github.com/msto63/grab/foundation/core/log"
	grabregistry "github.com/msto63/grab/foundation/grab/registry"
	"github.com/msto63/grab/internal/commands/extraction"
	"github.com/msto63/grab/internal/commands/filtering"
	"github.com/msto63/grab/internal/commands/getter"
	"github.com/msto63/grab/internal/commands/load"
	"github.com/msto63/grab/internal/commands/output"
	"github.com/msto63/grab/internal/commands/selection"
	"github.com/msto63/grab/internal/commands/utilities"
	"github.com/msto63/grab/internal/style"
)

// Deps are the collaborators the commands need
type Deps struct {
	Fetcher   load.Fetcher
	Palette   *style.Palette
	Out       io.Writer // PRINT output, stdout when nil
	OutputDir string    // JSON files, working directory when empty
	Logger    *grablog.Logger
}

// aliases maps each family key to the script commands it serves and
// whether the alias name is passed on as the first argument
var aliases = []struct {
	family     string
	names      []string
	prependKey bool
}{
	{"SELECTION", []string{"SELECT"}, false},
	{"GETTER", []string{"GET"}, false},
	{"FILTERING", []string{"FILTER"}, false},
	{"EXTRACTION", []string{"EXTRACT"}, false},
	{"UTILITIES", []string{"SAVE", "USE", "COUNT", "JSON"}, true},
}

// Register binds every built-in command into reg
func Register(reg *grabregistry.Registry, deps Deps) error {
	logger := deps.Logger
	if logger == nil {
		logger = grablog.GetDefault()
	}

	bindings := []struct {
		key string
		cmd grabregistry.Command
	}{
		{"SELECTION", selection.New(logger)},
		{"GETTER", getter.New(logger)},
		{"FILTERING", filtering.New(logger)},
		{"EXTRACTION", extraction.New(logger)},
		{"UTILITIES", utilities.New(deps.OutputDir, logger)},
		{"LOAD", load.Handler{}},
		{"LOAD_URL", load.NewURL(deps.Fetcher, logger)},
		{"PRINT", output.NewPrint(deps.Out, deps.Palette, logger)},
	}
	for _, b := range bindings {
		if err := reg.Register(b.key, b.cmd); err != nil {
			return graberror.Wrap(err, "failed to register built-in commands").WithOperation("commands.Register")
		}
	}

	for _, a := range aliases {
		for _, name := range a.names {
			if err := reg.RegisterAlias(name, a.family, a.prependKey); err != nil {
				return graberror.Wrap(err, "failed to register built-in commands").WithOperation("commands.Register")
			}
		}
	}

	reg.RegisterGetterSubcommand(getter.Subcommands...)

	logger.Debug("built-in commands registered", grablog.Fields{"keys": len(reg.Keys())})
	return nil
}
