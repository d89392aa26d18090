// File: env.go
// Title: Script Environment
// Description: The single mutable variable store shared by every statement
//              of a script run. There is no scoping: blocks and loops read
//              and write the same map.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial environment

package value

import (
	"sort"
	"strings"
)

// Reserved variable names used by the executor and the document commands
const (
	LastResult   = "_last_result"
	OriginalHTML = "_original_html"
	CurrentSoup  = "_current_soup"
)

// Environment maps variable names to values. It is not safe for concurrent
// use; concurrent runs need their own Environment.
type Environment struct {
	vars map[string]Value
}

// NewEnvironment creates an empty environment
func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string]Value)}
}

// Get returns the value bound to name
func (e *Environment) Get(name string) (Value, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Lookup returns the bound value or Null
func (e *Environment) Lookup(name string) Value {
	return e.vars[name]
}

// Set binds name to v
func (e *Environment) Set(name string, v Value) {
	e.vars[name] = v
}

// Delete removes a binding
func (e *Environment) Delete(name string) {
	delete(e.vars, name)
}

// Has reports whether name is bound
func (e *Environment) Has(name string) bool {
	_, ok := e.vars[name]
	return ok
}

// Len returns the number of bindings
func (e *Environment) Len() int {
	return len(e.vars)
}

// Names returns all bound names, sorted
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UserNames returns the sorted names that are not reserved, i.e. do not
// start with an underscore
func (e *Environment) UserNames() []string {
	var names []string
	for _, name := range e.Names() {
		if !strings.HasPrefix(name, "_") {
			names = append(names, name)
		}
	}
	return names
}
