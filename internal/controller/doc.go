// Package controller implements the storefront's intents on top of an
// api.Service and a state.Store.
//
// Every mutating intent follows the same protocol: the operation is marked
// in flight and its previous error cleared, the server is called, and on
// success both products and basket are refetched before the owning dialog
// is closed. On failure the operation error is recorded and the snapshot
// and dialog are left as they were. The in-flight mark is released on every
// path.
//
// The controller never computes server-derived values such as stock. It
// always asks the server again.
package controller
