// Package server wires configuration, logging, metrics and tracing into
// the desktop REST API and the paint relay, and runs them behind one
// http.Server with graceful shutdown.
package server
