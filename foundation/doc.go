// Package foundation provides concrete classes built on package object:
// immutable and mutable strings, arrays, index paths, dates, locks,
// conditions, threads and URL session tasks.
//
// Every class here is an ordinary client of the object runtime. Instances are
// created with object.New or object.NewWith (or the constructors in this
// package), used through dispatch, and torn down with object.Destroy. Typed
// views such as String and Array wrap an *object.Object after a checked cast.
//
// Containers hold borrowed references: destroying an Array does not destroy
// its elements.
package foundation
