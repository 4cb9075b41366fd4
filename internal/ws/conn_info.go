package ws

import "time"

// ConnInfo carries the identity and correlation data captured at
// handshake time for one websocket connection. It labels every lifecycle
// event the connection emits.
type ConnInfo struct {
	ConnID      string
	UserID      int
	DeviceID    string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}
