// Package output implements PRINT, which writes literals and variable
// summaries to the script output.
package output

import (
	"context"
	"fmt"
	"io"
	"os"

	graberror "github.com/msto63/grab/foundation/core/error"
	grablog "github.com/msto63/grab/foundation/core/log"
	grabregistry "github.com/msto63/grab/foundation/grab/registry"
	grabvalue "github.com/msto63/grab/foundation/grab/value"
	"github.com/msto63/grab/internal/commands/cmdutil"
	"github.com/msto63/grab/internal/style"
)

const (
	command = "PRINT"
	usage   = `PRINT var, PRINT "text" or PRINT DEV var`
)

// Print is bound to PRINT
type Print struct {
	out     io.Writer
	palette *style.Palette
	logger  *grablog.Logger
}

// NewPrint creates the PRINT command writing to out, stdout when nil
func NewPrint(out io.Writer, palette *style.Palette, logger *grablog.Logger) *Print {
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = grablog.GetDefault()
	}
	return &Print{out: out, palette: palette, logger: logger.WithField("component", "print")}
}

// Execute prints a literal, a variable summary or its DEV dump. It always
// returns Null so _last_result is left untouched.
func (p *Print) Execute(ctx context.Context, args []grabregistry.Argument, env *grabvalue.Environment) (grabvalue.Value, error) {
	if err := cmdutil.Arity(command, args, 1, 2, usage); err != nil {
		return grabvalue.Null(), err
	}

	dev := false
	target := args[0]
	if len(args) == 2 {
		if !args[0].Is("DEV") {
			return grabvalue.Null(), cmdutil.ArgError(command, "invalid format. Usage: %s", usage)
		}
		dev = true
		target = args[1]
	}

	var message string
	if target.IsLiteral() {
		message = target.Text
	} else {
		v, err := cmdutil.Variable(command, target.Text, env)
		if err != nil {
			return grabvalue.Null(), err
		}
		if dev {
			message = Dump(target.Text, v)
		} else {
			message = Describe(target.Text, v)
		}
		p.logger.Debug("printing variable", grablog.Fields{
			"variable": target.Text,
			"kind":     v.Kind().String(),
			"dev":      dev,
		})
	}

	if _, err := fmt.Fprintln(p.out, p.palette.Line(command, message)); err != nil {
		return grabvalue.Null(), graberror.Wrap(err, command+": cannot write output").
			WithCode(graberror.CodeIO).
			WithOperation(command)
	}
	return grabvalue.Null(), nil
}
