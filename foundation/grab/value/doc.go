// Package value holds the runtime data of grab scripts: the Value variant
// and the Environment every statement reads and writes.
package value
