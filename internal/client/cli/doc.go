// Package cli provides the interactive crmdesk command-line client.
//
// It opens a workspace (local cache, optional remote backend, auth session
// and stores) and runs a REPL over it. Every command works offline; with a
// remote backend configured and a signed-in identity, changes are pushed to
// the remote and fall back to the local cache when it cannot be reached.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See runREPL for the command set.
package cli
