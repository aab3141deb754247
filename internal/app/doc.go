// Package app is the composition root for blockext.
//
// # Overview
//
// Run wires configuration, logging, the REST client, the shared state store,
// the synchronization engine, the push listener and the TUI, then blocks until
// the user quits. Open builds only the non-interactive half (config, log file,
// REST client) and is what the one-shot CLI subcommands use.
//
// # Startup
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()         Read ~/.config/blockext/config.toml
//	       ├─────> openLogger()          slog text handler on log_file
//	       ├─────> extapi.NewClient()    REST client with session header
//	       ├─────> state.NewStore()      Rendered state for the UI
//	       ├─────> syncengine.Run()      Single event loop (goroutine)
//	       ├─────> resyncer.Request()    Initial snapshot load
//	       ├─────> push.Listener.Run()   STOMP subscription (goroutine)
//	       └─────> ui.Run()              TUI (blocks)
//
// # Snapshots
//
// The resyncer fetches GET /api/extensions and hands the result to the engine
// as a snapshot message, so it is ordered with push messages like any other.
// It runs once at startup and again whenever the listener resubscribes after
// a dropped connection (resync_on_reconnect). Failed fetches are retried every
// reconnect_delay.
//
// # Shutdown
//
// When the TUI returns, Run asks the engine to settle: pending toggles are
// committed immediately and Run waits up to request_timeout for in-flight
// commits before cancelling the engine, resyncer and listener.
//
// # Errors
//
// Configuration, log file and client construction errors are returned from
// Open and Run. Everything after startup (push drops, failed snapshot
// fetches) is logged and retried.
package app
