// Package ipc defines the daemon's line protocol and ships the client used by
// the CLI.
//
// Every exchange is one connection carrying one newline-terminated request
// and one newline-terminated response. The client bounds the whole exchange
// with a deadline so commands fail fast when the daemon is offline.
package ipc
