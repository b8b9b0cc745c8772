// Package fluentmind provides a minimal public façade for working with
// workflow flows without importing internal packages. It re-exports the
// core flow types for convenience and exposes a Runtime with simple
// methods to validate, lay out, sanitize, and instantiate flows from an
// in-memory template catalog.
package fluentmind
