// File: engine.go
// Title: Script Interpreter
// Description: High-level interface that combines parser, registry and
//              executor. One Interpreter owns one environment; reusing it
//              keeps variables across scripts.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial interpreter

package grab

import (
	"context"
	"os"
	"time"

	graberror "github.com/msto63/grab/foundation/core/error"
	grablog "github.com/msto63/grab/foundation/core/log"
	grabast "github.com/msto63/grab/foundation/grab/ast"
	grabexecutor "github.com/msto63/grab/foundation/grab/executor"
	grabparser "github.com/msto63/grab/foundation/grab/parser"
	grabregistry "github.com/msto63/grab/foundation/grab/registry"
	grabvalue "github.com/msto63/grab/foundation/grab/value"
)

// Interpreter parses and runs scripts against one environment
type Interpreter struct {
	parser   *grabparser.Parser
	executor *grabexecutor.Engine
	registry *grabregistry.Registry
	env      *grabvalue.Environment
	logger   *grablog.Logger
}

// Options configures the interpreter
type Options struct {
	Logger         *grablog.Logger
	Registry       *grabregistry.Registry // required; holds the commands
	Environment    *grabvalue.Environment
	MaxInputLength int
	MaxNesting     int
}

// Result describes a finished run
type Result struct {
	RunID    string
	Warnings []grabexecutor.Warning
	Duration time.Duration
}

// New creates an interpreter
func New(opts Options) (*Interpreter, error) {
	if opts.Logger == nil {
		opts.Logger = grablog.GetDefault()
	}
	if opts.Environment == nil {
		opts.Environment = grabvalue.NewEnvironment()
	}

	p, err := grabparser.New(grabparser.Options{
		Logger:         opts.Logger,
		MaxInputLength: opts.MaxInputLength,
		MaxNesting:     opts.MaxNesting,
	})
	if err != nil {
		return nil, graberror.Wrap(err, "failed to initialize parser")
	}

	exec, err := grabexecutor.New(grabexecutor.Options{
		Logger:      opts.Logger,
		Registry:    opts.Registry,
		Environment: opts.Environment,
	})
	if err != nil {
		return nil, graberror.Wrap(err, "failed to initialize executor")
	}

	return &Interpreter{
		parser:   p,
		executor: exec,
		registry: opts.Registry,
		env:      opts.Environment,
		logger:   opts.Logger.WithField("component", "grab-interpreter"),
	}, nil
}

// Parse parses a script without running it
func (i *Interpreter) Parse(script string) (*grabast.Node, error) {
	return i.parser.Parse(script)
}

// Run parses script and executes it. name identifies the script in logs.
// A syntax error returns before any statement runs.
func (i *Interpreter) Run(ctx context.Context, script, name string) (*Result, error) {
	program, err := i.parser.Parse(script)
	if err != nil {
		return nil, err
	}

	runCtx := grabexecutor.NewRunContext(name)
	i.logger.Debug("running script", grablog.Fields{
		"script": name,
		"run_id": runCtx.RunID,
		"length": len(script),
	})

	err = i.executor.Execute(ctx, program, runCtx)
	result := &Result{
		RunID:    runCtx.RunID,
		Warnings: i.executor.Warnings(),
		Duration: time.Since(runCtx.StartedAt),
	}
	return result, err
}

// RunFile reads and runs a script file
func (i *Interpreter) RunFile(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		code := graberror.CodeIO
		if os.IsNotExist(err) {
			code = graberror.CodeNotFound
		}
		return nil, graberror.Wrap(err, "cannot read script").
			WithCode(code).
			WithOperation("run").
			WithDetail("path", path)
	}
	return i.Run(ctx, string(data), path)
}

// Registry returns the command registry
func (i *Interpreter) Registry() *grabregistry.Registry {
	return i.registry
}

// Environment returns the interpreter's variables
func (i *Interpreter) Environment() *grabvalue.Environment {
	return i.env
}

// Get returns a variable
func (i *Interpreter) Get(name string) (grabvalue.Value, bool) {
	return i.env.Get(name)
}

// Set binds a variable before or between runs
func (i *Interpreter) Set(name string, v grabvalue.Value) {
	i.env.Set(name, v)
}
