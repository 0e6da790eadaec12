// Package ui provides the terminal storefront built on Bubble Tea.
//
// # Architecture Overview
//
// The UI is a presentation layer over controller.Controller. It never calls
// the API directly. It renders the latest state.Snapshot and turns key
// presses into controller intents. Intents that touch the network run as
// tea.Cmds; their results arrive through the snapshot subscription, not
// through the command's return value.
//
// # Package Structure
//
//   - app.go: Model, Update loop, intents and Run
//   - ui.go: main layout composition
//   - header.go: status bar and footer
//   - table.go: product table
//   - basket.go: basket panel and total
//   - modal.go: add, edit, view and delete dialogs
//   - form.go: text inputs mirroring the open draft
//   - logs.go: activity view over the log file
//   - help.go: keyboard shortcut overlay
//   - keys.go, theme.go, layout.go, strings.go: bindings, colors and helpers
//
// # Event Flow
//
//  1. Run subscribes to the controller and starts the program
//  2. Init issues the initial load and the UI tick
//  3. Each snapshotMsg replaces the rendered state and re-arms the
//     subscription; older snapshots (by Version) are ignored
//  4. Dialog opens, cancels and field edits are synchronous controller
//     calls; submits and basket changes run as commands
//  5. Context cancellation cleanly shuts down the program
//
// # Key Bindings
//
//   - j/k, g/G: move selection
//   - tab: switch between products and basket
//   - a, e, enter, d: add, edit, view and delete products
//   - b: add one unit to the basket; x or -: remove one unit
//   - r: refresh; L: activity log; T: cycle theme; h or ?: help
//   - q or Ctrl+C: exit
package ui
