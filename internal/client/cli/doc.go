// Package cli provides the interactive club directory client.
//
// The App restores the persisted session before it accepts any command, then
// runs a read-eval-print loop. Typical flow: sign in, drill down from a
// department to a member's links, sign out.
//
// Key features:
//   - login / register / logout / whoami
//   - ls, cd <n>, back, jump <depth>, path, search <text>, reset, retry
//   - events
//   - pending, validate <n|all>, reject <n> (admins only)
//   - lang [code]
//
// Errors from a command are printed as one-line notifications. Fetch
// failures that may succeed on a second attempt carry a retry hint.
// The loop is started via App.Run(ctx), which blocks until the user exits.
package cli
