// Package ast defines the syntax tree of grab scripts.
//
// Every node carries the source line it was parsed from so runtime errors
// can be attributed. The tree is built once per script; loops walk the
// same nodes again.
package ast
