// Package cli provides the interactive wardminutes command-line client.
//
// It wires configuration, the local SQLite cache, the remote document store
// and an interactive REPL that keeps working while the server is away. A
// background watcher flips the prompt between online and offline, and an
// open form is auto-saved to its draft slot on a timer.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
