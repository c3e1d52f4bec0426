// Package ws serves the paint relay over WebSocket.
//
// Each connection gets a reader goroutine that decodes envelopes and feeds
// the hub, and a writer goroutine that drains a bounded outbound queue. The
// hub never blocks on a socket: a full queue closes that one connection and
// the client resyncs from load_history when it reconnects.
package ws
