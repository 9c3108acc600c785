// Package cli provides the interactive TaskKeeper command-line client.
//
// It wires configuration and the API client into a REPL. Typical flow:
// register or log in, then list, add and update tasks.
//
//   - register / login / logout / profile
//   - list / add / show / status / delete tasks
//
// Access tokens are refreshed transparently by the API client. The REPL is
// started via App.Root(ctx), which blocks until the user exits.
package cli
