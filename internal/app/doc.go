// Package app provides the orchestration layer for the storefront client.
//
// # Overview
//
// This package wires together configuration, logging, the API client, the
// controller, background refresh and the UI. It is the composition root
// where all dependencies are initialized and connected.
//
// # Architecture
//
//  1. Load .env, then ~/.config/storefront/config.toml, then environment
//     overrides, then command line overrides
//  2. Open the JSON log file (the TUI owns the terminal, so never stderr)
//  3. Build the HTTP client with timeout, rate limit and logger
//  4. Create the controller over a fresh state.Store
//  5. Launch the background poller when a refresh interval is set
//  6. Start the TUI and block until the user exits or the context cancels
//
// # Components
//
//   - app.go: Run and configuration resolution
//   - poller.go: background goroutine that refetches products and basket
//
// # Polling Behavior
//
// The poller is off by default. With refresh_interval set it calls
// Controller.RefreshAll on each tick. Failures are recorded in the snapshot
// by the controller and logged here; the wait doubles after consecutive
// failures up to 30 seconds and resets on the first success.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - invalid config file or log level
//   - log file cannot be created
//   - malformed API URL
//
// Recoverable errors (shown in the UI, logged, never fatal):
//   - fetch and mutation failures
//   - unreachable server at startup
package app
