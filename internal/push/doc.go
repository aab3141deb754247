// Package push keeps the client subscribed to server-initiated extension
// updates.
//
// # Transport
//
// The server exposes a STOMP 1.2 broker over a WebSocket endpoint at
// /ws/websocket (the raw WebSocket transport of a SockJS endpoint mounted at
// /ws). The listener speaks the small subset of STOMP it needs:
//
//	client                      server
//	  │ CONNECT ──────────────────→ │
//	  │ ←──────────────── CONNECTED │
//	  │ SUBSCRIBE /topic/extensions→│
//	  │ ←────────────────── MESSAGE │  (repeated)
//	  │ DISCONNECT ───────────────→ │  (on shutdown)
//
// Heart-beating is negotiated off. ERROR frames end the session. Each
// WebSocket message carries one frame, encoded and decoded with the
// go-stomp frame package.
//
// # Reconnection
//
// Any dial failure, read failure or ERROR frame ends the session. The
// listener reports the transition through OnState, waits a fixed backoff
// (three seconds by default) and tries again, forever. Every successful
// subscription after the first triggers OnResubscribe so the caller can
// refetch a snapshot and cover messages published while it was away.
//
// # Delivery
//
// Message bodies are decoded with extension.DecodeMessage and handed to the
// Handler in arrival order, on the listener's goroutine. Undecodable bodies
// are logged and skipped.
package push
