// Package app is the composition root of the web server binary. It
// owns no business logic: it loads configuration, initializes the
// logger and telemetry, wires services and handlers, and manages the
// HTTP server lifecycle including graceful shutdown.
package app
