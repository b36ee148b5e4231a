// Package migrations the schema of the demo application. Every file registers
// one migration with migrator.DefaultRegistry under the file name, import the
// package for its side effects.
package migrations
