// Package main is the entry point for the retrodesk backend.
//
// The server hosts desktop sessions over REST and the community paint
// relay over WebSocket at /paint/ws.
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server --port 3001 --catalog ./apps
//
//	# Development mode (colored logs, debug level)
//	./server --dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
