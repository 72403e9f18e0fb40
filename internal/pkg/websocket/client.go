package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/piresc/nebengjek/internal/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 * 1024
)

type frame struct {
	kind int
	data []byte
}

// Client is one upgraded socket. Writes go through a buffered queue drained by a
// single writer goroutine, so Send and Ping never block the caller.
type Client struct {
	conn *websocket.Conn
	send chan frame
	done chan struct{}
	once sync.Once
}

func newClient(conn *websocket.Conn, sendBuffer int) *Client {
	return &Client{
		conn: conn,
		send: make(chan frame, sendBuffer),
		done: make(chan struct{}),
	}
}

// Send queues a text frame. It returns false when the client is closed or its queue is full.
func (c *Client) Send(msg []byte) bool {
	return c.enqueue(frame{kind: websocket.TextMessage, data: msg})
}

// Ping queues a ping control frame
func (c *Client) Ping() bool {
	return c.enqueue(frame{kind: websocket.PingMessage})
}

// Terminate drops the connection without a close handshake
func (c *Client) Terminate() {
	c.once.Do(func() {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

func (c *Client) enqueue(f frame) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- f:
		return true
	default:
		return false
	}
}

// Run pumps frames until the connection ends. Text frames go to onMessage and pongs to onPong,
// both called from the reading goroutine in arrival order. Binary frames are discarded.
func (c *Client) Run(onMessage func(data []byte), onPong func()) {
	go c.writePump()
	defer c.Terminate()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		onPong()
		return nil
	})

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("Websocket closed unexpectedly", logger.Err(err))
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		onMessage(data)
	}
}

func (c *Client) writePump() {
	for {
		select {
		case <-c.done:
			return
		case f := <-c.send:
			deadline := time.Now().Add(writeWait)
			var err error
			if f.kind == websocket.PingMessage {
				err = c.conn.WriteControl(websocket.PingMessage, nil, deadline)
			} else {
				if err = c.conn.SetWriteDeadline(deadline); err == nil {
					err = c.conn.WriteMessage(f.kind, f.data)
				}
			}
			if err != nil {
				logger.Debug("Websocket write failed", logger.Err(err))
				c.Terminate()
				return
			}
		}
	}
}
