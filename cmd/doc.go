// Package cmd implements the command-line interface of uKV. It provides a
// hierarchical command structure with operations for running the server and
// interacting with it as a client.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for object store and undo operations (get, add, update, undo, redo, etc.)
//   - serve: Commands for starting and configuring the uKV server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See ukv -help for a list of all commands.
package cmd
