// Package state provides the observable snapshot shared by the controller
// and the UI.
//
// # Overview
//
// The Store holds the authoritative in-memory copy of products and basket
// lines, the per-operation loading and error flags, and the dialog selection
// state. The controller is the only writer; the UI reads copies.
//
//	Writer (controller):            Readers (UI):
//	┌───────────────────┐          ┌────────────────────┐
//	│ Begin / Finish    │          │                    │
//	│ ApplyProducts     │  notify  │ <-Subscribe()      │
//	│ ApplyBasket       │─────────→│ render Snapshot    │
//	│ UpdateDialogs     │ (mutex)  │                    │
//	└───────────────────┘          └────────────────────┘
//
// # Replacement, not merging
//
// Products and basket are replaced wholesale by ApplyProducts and
// ApplyBasket. There is no incremental merge. Derived values such as the
// visible basket and its total are computed from the snapshot on demand.
//
// # Fetch tickets
//
// Each refetch takes a ticket from Ticket before the request is sent. A
// response is applied only if its ticket is newer than the last applied
// ticket for that resource, so a slow response can never overwrite data
// from a request issued after it.
//
// # Subscriptions
//
// Subscribe returns a channel with a single-slot buffer. Every mutation
// publishes a deep copy; when the reader is behind, the older pending copy
// is replaced so the reader always wakes up to the newest state.
package state
