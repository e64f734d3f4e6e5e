// Package vm implements the managed-memory runtime that compiled scripts
// run on.
//
// This package contains:
//   - 32-bit tagged value representation (int, float, pointer, symbol)
//   - A fixed word arena with class-described heap objects
//   - An incremental tri-color mark-and-sweep collector with a write
//     barrier and an interrupt bracket
//   - Virtual table dispatch and instance-of checks
//   - Generic operators, typed containers, closures and strings
//   - The single recovery boundary, TryAndCatch
package vm
