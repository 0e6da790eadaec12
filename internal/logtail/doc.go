// Package logtail reads the end of the storefront log file for the
// activity view.
//
// Read keeps a ring buffer of the last N lines, so memory stays bounded by
// N regardless of file size. A missing file is not an error; the log may
// simply not have been written yet.
//
// Parse decodes the JSON lines produced by internal/logging into an Entry,
// and Entry.Format renders one as a compact single line:
//
//	21:01:05 WARN  [controller] intent failed  op=delete product_id=3
//
// Coloring is left to the UI.
package logtail
