// File: registry.go
// Title: Command Registry and Resolver
// Description: Holds the command bindings of an interpreter: simple keys,
//              composite COMMAND_ARG keys and aliases. Resolve maps a parsed
//              command name and its arguments to one binding using a fixed
//              precedence of rules.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial registry and resolver

package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	graberror "github.com/msto63/grab/foundation/core/error"
	grablog "github.com/msto63/grab/foundation/core/log"
	grabstringx "github.com/msto63/grab/foundation/utils/stringx"
)

// Rule identifies the resolution rule that produced a binding
type Rule int

const (
	RuleFilter    Rule = iota + 1 // filter command with a separator keyword
	RuleGetter                    // getter command with a known two-word subcommand
	RuleComposite                 // COMMAND_ARG0 key
	RuleSimple                    // bare command key
)

// String returns the rule name
func (r Rule) String() string {
	switch r {
	case RuleFilter:
		return "filter"
	case RuleGetter:
		return "getter"
	case RuleComposite:
		return "composite"
	case RuleSimple:
		return "simple"
	default:
		return "none"
	}
}

// Options configures registry behavior
type Options struct {
	Logger        *grablog.Logger
	FilterCommand string // default "FILTER"
	GetterCommand string // default "GET"
	Separator     string // default "WHERE"
}

// Resolution is the outcome of Resolve
type Resolution struct {
	Key     string // key the command was found under
	Command Command
	Args    []Argument // arguments passed to the command
	Rule    Rule
}

type binding struct {
	command    Command
	target     string // canonical key for aliases, else the key itself
	prependKey bool
}

// Registry maps command keys to commands
type Registry struct {
	bindings   map[string]*binding
	getterSubs map[string]bool
	logger     *grablog.Logger
	options    Options
	mutex      sync.RWMutex
}

// New creates an empty registry
func New(opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = grablog.GetDefault()
	}
	if opts.FilterCommand == "" {
		opts.FilterCommand = "FILTER"
	}
	if opts.GetterCommand == "" {
		opts.GetterCommand = "GET"
	}
	if opts.Separator == "" {
		opts.Separator = "WHERE"
	}
	opts.FilterCommand = strings.ToUpper(opts.FilterCommand)
	opts.GetterCommand = strings.ToUpper(opts.GetterCommand)

	return &Registry{
		bindings:   make(map[string]*binding),
		getterSubs: make(map[string]bool),
		logger:     opts.Logger.WithField("component", "grab-registry"),
		options:    opts,
	}
}

// Register binds key to cmd. Keys are case-insensitive.
func (r *Registry) Register(key string, cmd Command) error {
	if grabstringx.IsBlank(key) {
		return graberror.New("command key cannot be empty").
			WithCode(graberror.CodeInvalidInput).
			WithOperation("registry.Register")
	}
	if cmd == nil {
		return graberror.Newf("command %s cannot be nil", key).
			WithCode(graberror.CodeInvalidInput).
			WithOperation("registry.Register")
	}

	key = strings.ToUpper(strings.TrimSpace(key))

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.bindings[key]; exists {
		return graberror.Newf("command %s already registered", key).
			WithCode(graberror.CodeInvalidInput).
			WithOperation("registry.Register")
	}
	r.bindings[key] = &binding{command: cmd, target: key}

	r.logger.Trace("command registered", grablog.Fields{"key": key})
	return nil
}

// RegisterAlias binds alias to the command registered under target. With
// prependKey the alias itself is passed as the first argument, so a shared
// handler can tell which alias invoked it.
func (r *Registry) RegisterAlias(alias, target string, prependKey bool) error {
	alias = strings.ToUpper(strings.TrimSpace(alias))
	target = strings.ToUpper(strings.TrimSpace(target))

	r.mutex.Lock()
	defer r.mutex.Unlock()

	dest, ok := r.bindings[target]
	if !ok {
		return graberror.Newf("alias target %s is not registered", target).
			WithCode(graberror.CodeNotFound).
			WithOperation("registry.RegisterAlias")
	}
	if alias == "" {
		return graberror.New("alias cannot be empty").
			WithCode(graberror.CodeInvalidInput).
			WithOperation("registry.RegisterAlias")
	}
	if _, exists := r.bindings[alias]; exists {
		return graberror.Newf("command %s already registered", alias).
			WithCode(graberror.CodeInvalidInput).
			WithOperation("registry.RegisterAlias")
	}

	r.bindings[alias] = &binding{command: dest.command, target: dest.target, prependKey: prependKey}

	r.logger.Trace("alias registered", grablog.Fields{
		"alias":      alias,
		"target":     dest.target,
		"prependKey": prependKey,
	})
	return nil
}

// RegisterGetterSubcommand declares a two-word getter subcommand such as
// ATTR_FIRST, which keeps GET ATTR FIRST from resolving to a GET_ATTR key
func (r *Registry) RegisterGetterSubcommand(names ...string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for _, name := range names {
		r.getterSubs[strings.ToUpper(name)] = true
	}
}

// Has reports whether key is bound
func (r *Registry) Has(key string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	_, ok := r.bindings[strings.ToUpper(key)]
	return ok
}

// Get returns the command bound to key
func (r *Registry) Get(key string) (Command, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	b, ok := r.bindings[strings.ToUpper(key)]
	if !ok {
		return nil, false
	}
	return b.command, true
}

// Keys returns all bound keys, sorted
func (r *Registry) Keys() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	keys := make([]string, 0, len(r.bindings))
	for k := range r.bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Aliases returns alias keys mapped to their canonical keys
func (r *Registry) Aliases() map[string]string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	out := make(map[string]string)
	for k, b := range r.bindings {
		if b.target != k {
			out[k] = b.target
		}
	}
	return out
}

// Resolve maps a command name and its arguments to a binding. Rules, first
// match wins:
//
//  1. the filter command with a bare separator word anywhere in args
//  2. the getter command whose first two bare args name a getter subcommand
//  3. the composite key NAME_ARG0 when ARG0 is a bare word
//  4. the bare NAME key
//
// Quoted arguments never form composite keys or subcommand names.
func (r *Registry) Resolve(name string, args []Argument) (*Resolution, error) {
	name = strings.ToUpper(name)

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if name == r.options.FilterCommand && r.hasSeparator(args) {
		if b, ok := r.bindings[name]; ok {
			return r.resolved(name, b, args, RuleFilter), nil
		}
	}

	if name == r.options.GetterCommand && len(args) >= 2 && !args[0].IsLiteral() && !args[1].IsLiteral() {
		if r.getterSubs[args[0].Upper()+"_"+args[1].Upper()] {
			if b, ok := r.bindings[name]; ok {
				return r.resolved(name, b, args, RuleGetter), nil
			}
		}
	}

	if len(args) > 0 && !args[0].IsLiteral() {
		key := name + "_" + args[0].Upper()
		if b, ok := r.bindings[key]; ok {
			return r.resolved(key, b, args[1:], RuleComposite), nil
		}
	}

	if b, ok := r.bindings[name]; ok {
		return r.resolved(name, b, args, RuleSimple), nil
	}

	msg := "unknown command: " + name
	if len(args) > 0 {
		msg += " " + Join(args)
	}
	return nil, graberror.New(msg).
		WithCode(graberror.CodeUnknownCommand).
		WithOperation("resolve").
		WithDetail("command", name).
		WithDetail("arguments", Texts(args))
}

func (r *Registry) hasSeparator(args []Argument) bool {
	for _, a := range args {
		if a.Is(r.options.Separator) {
			return true
		}
	}
	return false
}

func (r *Registry) resolved(key string, b *binding, args []Argument, rule Rule) *Resolution {
	passed := args
	if b.prependKey {
		passed = make([]Argument, 0, len(args)+1)
		passed = append(passed, Ident(key))
		passed = append(passed, args...)
	}

	r.logger.Debug("command resolved", grablog.Fields{
		"key":  key,
		"rule": rule.String(),
		"args": len(passed),
	})

	return &Resolution{Key: key, Command: b.command, Args: passed, Rule: rule}
}

// String summarizes the resolution for logs
func (res *Resolution) String() string {
	return fmt.Sprintf("%s(%s) via %s", res.Key, Join(res.Args), res.Rule)
}
