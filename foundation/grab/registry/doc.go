// Package registry binds command keys to Command implementations and
// resolves script command lines to bindings.
//
// Keys are upper case. A composite key such as LOAD_URL joins a command
// and its first bare argument. Aliases share a command with another key;
// the utility aliases also pass their own key as the first argument.
package registry
