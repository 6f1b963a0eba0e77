// Package cli provides the talentscout command-line client.
//
// Commands:
//   - chat: run an interview in the terminal against local storage
//   - remote: run an interview against a talentscout server over gRPC
//   - show <id>: print one stored record, decrypted, as JSON
//   - list: print stored record summaries
//   - genkey: print a fresh ENCRYPTION_KEY value
//
// Interviews share one read-eval-print loop (runREPL) over a conversation,
// which is either a local engine or a remote session.
package cli
