// The gta3scc command is a thin showcase for the compiler/command/config
// packages: it builds a small fixed command table, hand-assembles a Parser
// IR equivalent to the REPEAT-lowering example from the specification
// (§8, scenario S1), compiles it through a compiler.Session and writes the
// resulting bytecode to disk.
//
// It intentionally has no source-file loading, scanning or parsing: those
// stages sit outside the core's scope (§1) and are left to the external
// driver a real toolchain would supply. This binary exists to exercise the
// library end to end, not to be a complete command-line compiler.
//
// Usage:
//
//	-o filename
//		  output bytecode file (default "a.scm")
//	-pretty
//		  use zerolog's console writer instead of JSON logging
package main
