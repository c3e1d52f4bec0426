// Package paint implements the collaborative paint relay.
//
// Clients submit draw segments over a persistent connection. The Hub appends
// each segment to a bounded FIFO History and forwards it to every other
// connected client; the sender has already rendered it locally. A newly
// connected client first receives the whole History as one load_history
// message, oldest segment first.
//
// Wire format (JSON, one envelope per WebSocket text frame):
//
//	{"type":"draw","data":{"x":10,"y":10,"prevX":0,"prevY":0,"color":"#ff0000","size":2}}
//	{"type":"load_history","data":[...]}
//	{"type":"draw_remote","data":{...}}
//
// History lives in process memory only and is lost on restart.
package paint
