// Package relay connects a canvas replica to the paint relay.
//
// The client is a plain participant: every connection starts with a
// load_history that rebuilds the replica from scratch, then draw_remote
// frames are applied on top. Reconnects carry no session state; the fresh
// history is the only resynchronization.
package relay
