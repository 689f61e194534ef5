// Package daemon runs the nanobar control daemon.
//
// All indicator mutations happen on a single UI-owning thread provided by a
// Host. Other goroutines (the command channel, tray menu clicks, signal and
// settings handlers) only stage commands in a one-slot mailbox through the
// Dispatcher, which posts a drain callback to the UI thread. A newer command
// overwrites one that has not been drained yet; there is no queue.
package daemon
