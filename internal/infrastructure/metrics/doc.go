// Package metrics exposes expvar-published counters and gauges used by the
// FluentMind services (validation, layout, sanitization, and the template
// catalog). It has no external dependencies and is consumed by the optional
// fluentmind-server for /debug/vars and /metrics endpoints.
package metrics
