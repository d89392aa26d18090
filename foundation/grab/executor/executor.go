// File: executor.go
// Title: Script Execution Engine
// Description: Walks the syntax tree depth first, one statement at a time.
//              Commands are resolved through the registry and invoked with
//              the shared environment; IF, FOR and WHILE are evaluated
//              here. The first failing statement aborts the run and is
//              reported with its source line.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial executor implementation
// - 2026-10-14 v0.1.1: Lazy RANGE iteration, cancellation checks per loop iteration

package executor

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	graberror "github.com/msto63/grab/foundation/core/error"
	grablog "github.com/msto63/grab/foundation/core/log"
	grabast "github.com/msto63/grab/foundation/grab/ast"
	"github.com/msto63/grab/foundation/grab/condition"
	grabregistry "github.com/msto63/grab/foundation/grab/registry"
	grabvalue "github.com/msto63/grab/foundation/grab/value"
)

// MaxWhileIterations caps every WHILE loop
const MaxWhileIterations = 1000

// Engine executes parsed scripts. An Engine and its Environment belong to
// one run at a time.
type Engine struct {
	registry  *grabregistry.Registry
	env       *grabvalue.Environment
	evaluator *condition.Evaluator
	logger    *grablog.Logger
	options   Options
	warnings  []Warning
}

// Options configures executor behavior
type Options struct {
	Logger      *grablog.Logger
	Registry    *grabregistry.Registry
	Environment *grabvalue.Environment // created when nil
}

// RunContext identifies one execution of a script
type RunContext struct {
	RunID     string
	Script    string // path or name, for logs
	StartedAt time.Time
}

// NewRunContext creates a run context with a fresh run id
func NewRunContext(script string) *RunContext {
	return &RunContext{
		RunID:     uuid.NewString(),
		Script:    script,
		StartedAt: time.Now(),
	}
}

// Warning is a non-fatal condition reported during a run
type Warning struct {
	Line    int
	Message string
}

// String formats the warning with its line
func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Message)
}

// New creates a new execution engine
func New(opts Options) (*Engine, error) {
	if opts.Logger == nil {
		opts.Logger = grablog.GetDefault()
	}
	if opts.Registry == nil {
		return nil, graberror.New("registry is required").
			WithCode(graberror.CodeInvalidInput).
			WithOperation("executor.New")
	}
	if opts.Environment == nil {
		opts.Environment = grabvalue.NewEnvironment()
	}

	logger := opts.Logger.WithField("component", "grab-executor")
	return &Engine{
		registry:  opts.Registry,
		env:       opts.Environment,
		evaluator: condition.New(opts.Logger),
		logger:    logger,
		options:   opts,
	}, nil
}

// Environment returns the environment shared by all statements
func (e *Engine) Environment() *grabvalue.Environment {
	return e.env
}

// Warnings returns the warnings recorded by the last Execute
func (e *Engine) Warnings() []Warning {
	out := make([]Warning, len(e.warnings))
	copy(out, e.warnings)
	return out
}

// Execute runs a Program node. It stops at the first failing statement
// and returns a *RuntimeError naming its line.
func (e *Engine) Execute(ctx context.Context, program *grabast.Node, runCtx *RunContext) error {
	if program == nil {
		return graberror.New("program cannot be nil").
			WithCode(graberror.CodeInvalidInput).
			WithOperation("execute")
	}
	if runCtx == nil {
		runCtx = NewRunContext("")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	e.warnings = nil
	logger := e.logger.WithRunID(runCtx.RunID)
	timer := logger.StartTimer("script execution")

	logger.Debug("executing script", grablog.Fields{
		"script":     runCtx.Script,
		"statements": len(program.Children),
	})

	r := &run{engine: e, logger: logger, runCtx: runCtx}

	statements := program.Children
	if program.Kind != grabast.KindProgram {
		statements = []*grabast.Node{program}
	}

	for _, stmt := range statements {
		if err := r.statement(ctx, stmt); err != nil {
			timer.WithField("success", false).Stop()
			return err
		}
	}

	timer.Stop()
	return nil
}

// run carries the per-execution state through the tree walk
type run struct {
	engine *Engine
	logger *grablog.Logger
	runCtx *RunContext
}

func (r *run) statement(ctx context.Context, node *grabast.Node) error {
	if err := ctx.Err(); err != nil {
		return r.fail(node, graberror.Wrap(err, "execution cancelled").
			WithCode(graberror.CodeTimeout))
	}

	r.logger.Trace("statement", grablog.Fields{
		"kind": node.Kind.String(),
		"line": node.Line,
	})

	switch node.Kind {
	case grabast.KindCommand:
		return r.command(ctx, node)
	case grabast.KindIf:
		return r.ifStatement(ctx, node)
	case grabast.KindFor:
		return r.forStatement(ctx, node)
	case grabast.KindWhile:
		return r.whileStatement(ctx, node)
	case grabast.KindBlock:
		return r.block(ctx, node)
	default:
		return r.fail(node, graberror.Newf("unsupported statement %s", node.Kind).
			WithCode(graberror.CodeInternal))
	}
}

func (r *run) block(ctx context.Context, node *grabast.Node) error {
	for _, stmt := range node.Children {
		if err := r.statement(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) command(ctx context.Context, node *grabast.Node) error {
	args := arguments(node)

	res, err := r.engine.registry.Resolve(node.Value, args)
	if err != nil {
		return r.fail(node, err)
	}

	r.logger.Debug("executing command", grablog.Fields{
		"line": node.Line,
		"key":  res.Key,
		"rule": res.Rule.String(),
		"args": grabregistry.Texts(res.Args),
	})

	result, err := res.Command.Execute(ctx, res.Args, r.engine.env)
	if err != nil {
		return r.fail(node, err)
	}

	if !result.IsNull() {
		r.engine.env.Set(grabvalue.LastResult, result)
		r.logger.Trace("stored last result", grablog.Fields{"kind": result.Kind().String()})
	}
	return nil
}

// arguments converts argument nodes, keeping how each was written
func arguments(node *grabast.Node) []grabregistry.Argument {
	children := node.Arguments()
	args := make([]grabregistry.Argument, 0, len(children))
	for _, c := range children {
		arg := grabregistry.Argument{Text: c.Value, Line: c.Line}
		switch c.Kind {
		case grabast.KindStringLiteral:
			arg.Kind = grabregistry.ArgString
		case grabast.KindOperator:
			arg.Kind = grabregistry.ArgOperator
		default:
			arg.Kind = grabregistry.ArgIdentifier
		}
		args = append(args, arg)
	}
	return args
}

func (r *run) ifStatement(ctx context.Context, node *grabast.Node) error {
	cond := node.Condition()
	body := node.Body()
	if cond == nil || body == nil {
		return r.fail(node, graberror.New("incomplete IF statement").WithCode(graberror.CodeInternal))
	}

	result := r.engine.evaluator.Evaluate(cond.Value, r.engine.env)
	r.logger.Debug("IF condition", grablog.Fields{
		"line":      node.Line,
		"condition": cond.Value,
		"result":    result,
	})

	for _, clause := range node.Children {
		if clause.Kind == grabast.KindElif || clause.Kind == grabast.KindElse {
			r.logger.Debug("clause is not executed", grablog.Fields{
				"line":   clause.Line,
				"clause": clause.Kind.String(),
			})
		}
	}

	if !result {
		return nil
	}
	return r.block(ctx, body)
}

func (r *run) forStatement(ctx context.Context, node *grabast.Node) error {
	fc := node.Condition()
	body := node.Body()
	if fc == nil || body == nil || len(fc.Children) < 2 {
		return r.fail(node, graberror.New("incomplete FOR statement").WithCode(graberror.CodeInternal))
	}

	name := fc.Child(0).Value
	src := fc.Child(1)
	env := r.engine.env

	// RANGE counts are generated one at a time
	if src.Kind == grabast.KindRange {
		n, err := r.rangeCount(src.Value)
		if err != nil {
			return r.fail(node, err)
		}
		r.logger.Debug("FOR loop", grablog.Fields{
			"line":     node.Line,
			"variable": name,
			"range":    n,
		})
		for i := 0; i < n; i++ {
			if err := r.iteration(ctx, node, body, name, grabvalue.Int(i), i); err != nil {
				return err
			}
		}
		return nil
	}

	v, ok := env.Get(src.Value)
	if !ok {
		return r.fail(node, unboundVariable(src.Value, env, "FOR"))
	}
	items := v.Items()

	r.logger.Debug("FOR loop", grablog.Fields{
		"line":     node.Line,
		"variable": name,
		"items":    len(items),
	})

	for i, item := range items {
		if err := r.iteration(ctx, node, body, name, item, i); err != nil {
			return err
		}
	}
	return nil
}

// iteration binds the loop variable and its index, then runs the body
func (r *run) iteration(ctx context.Context, node, body *grabast.Node, name string, item grabvalue.Value, i int) error {
	if err := ctx.Err(); err != nil {
		return r.fail(node, graberror.Wrap(err, "execution cancelled").
			WithCode(graberror.CodeTimeout))
	}
	env := r.engine.env
	env.Set(name, item)
	env.Set(name+"_index", grabvalue.Int(i))
	return r.block(ctx, body)
}

func (r *run) rangeCount(text string) (int, error) {
	if n, err := strconv.Atoi(text); err == nil {
		return n, nil
	}

	env := r.engine.env
	v, ok := env.Get(text)
	if !ok {
		return 0, unboundVariable(text, env, "FOR RANGE")
	}
	n, ok := v.AsInt()
	if !ok {
		return 0, graberror.Newf("RANGE variable %s does not hold an integer: %s", text, v.Kind()).
			WithCode(graberror.CodeCommandArgument).
			WithDetail("variable", text)
	}
	return n, nil
}

func (r *run) whileStatement(ctx context.Context, node *grabast.Node) error {
	cond := node.Condition()
	body := node.Body()
	if cond == nil || body == nil {
		return r.fail(node, graberror.New("incomplete WHILE statement").WithCode(graberror.CodeInternal))
	}

	iterations := 0
	for iterations < MaxWhileIterations && r.engine.evaluator.Evaluate(cond.Value, r.engine.env) {
		if err := ctx.Err(); err != nil {
			return r.fail(node, graberror.Wrap(err, "execution cancelled").
				WithCode(graberror.CodeTimeout))
		}
		if err := r.block(ctx, body); err != nil {
			return err
		}
		iterations++
	}

	if iterations >= MaxWhileIterations {
		msg := fmt.Sprintf("WHILE loop stopped after %d iterations", MaxWhileIterations)
		r.engine.warnings = append(r.engine.warnings, Warning{Line: node.Line, Message: msg})
		r.logger.Warn(msg, grablog.Fields{
			"line":      node.Line,
			"condition": cond.Value,
		})
		return nil
	}

	r.logger.Debug("WHILE loop finished", grablog.Fields{
		"line":       node.Line,
		"iterations": iterations,
	})
	return nil
}

// fail wraps err with the line of node unless an inner statement already
// did
func (r *run) fail(node *grabast.Node, err error) error {
	if _, ok := AsRuntimeError(err); ok {
		return err
	}

	rtErr := &RuntimeError{
		Line: node.Line,
		Kind: kindOf(err),
		Err:  err,
	}
	r.logger.Debug("statement failed", grablog.Fields{
		"line":  node.Line,
		"kind":  rtErr.Kind,
		"error": err.Error(),
	})
	return rtErr
}
