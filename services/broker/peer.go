package broker

// Peer is the transport side of one broker connection.
// Implementations must never block the caller.
type Peer interface {
	// Send queues msg for delivery; false means the message was dropped
	Send(msg []byte) bool
	// Ping queues a liveness ping
	Ping() bool
	// Terminate closes the underlying socket without a close handshake
	Terminate()
}
