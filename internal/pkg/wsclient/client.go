package wsclient

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/piresc/nebengjek/internal/pkg/constants"
	"github.com/piresc/nebengjek/internal/pkg/logger"
	"github.com/piresc/nebengjek/internal/pkg/models"
)

const (
	DefaultReconnectDelay       = 3 * time.Second
	DefaultMaxReconnectAttempts = 10
	defaultHandshakeTimeout     = 10 * time.Second
	closeWriteWait              = time.Second
)

// State is the lifecycle state of the client
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateOpen
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// Handlers are invoked from the client's goroutines, never while its lock is held
type Handlers struct {
	OnOpen    func()
	OnMessage func(models.Envelope)
	OnError   func(error)
	OnClose   func(code int, reason string)
}

// Config for a Client. Zero values pick the defaults.
type Config struct {
	URL                  string
	ReconnectDelay       time.Duration
	MaxReconnectAttempts int
	Dialer               Dialer
	Scheduler            Scheduler
}

// Client keeps one websocket session to the broker alive.
// It reconnects after abnormal closes with a fixed delay until MaxReconnectAttempts consecutive failures.
type Client struct {
	url       string
	delay     time.Duration
	maxTries  int
	dialer    Dialer
	scheduler Scheduler
	handlers  Handlers

	mu      sync.Mutex
	state   State
	conn    Conn
	gen     uint64
	manual  bool
	retries int
	timer   Timer
	timerID uint64

	writeMu sync.Mutex
}

// New creates a disconnected client; call Connect to open it
func New(cfg Config, handlers Handlers) *Client {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = DefaultReconnectDelay
	}
	if cfg.MaxReconnectAttempts <= 0 {
		cfg.MaxReconnectAttempts = DefaultMaxReconnectAttempts
	}
	if cfg.Dialer == nil {
		cfg.Dialer = NewGorillaDialer(defaultHandshakeTimeout)
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = timeScheduler{}
	}

	return &Client{
		url:       cfg.URL,
		delay:     cfg.ReconnectDelay,
		maxTries:  cfg.MaxReconnectAttempts,
		dialer:    cfg.Dialer,
		scheduler: cfg.Scheduler,
		handlers:  handlers,
	}
}

// State returns the current lifecycle state
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Retries returns the number of reconnect attempts since the last successful open
func (c *Client) Retries() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.retries
}

// Connect dials the broker. A failed dial is handled like an abnormal close and may schedule a reconnect.
// It is a no-op while a connection is open or being opened.
func (c *Client) Connect() error {
	c.mu.Lock()
	if c.state == StateOpen || c.state == StateConnecting {
		c.mu.Unlock()
		return nil
	}
	c.state = StateConnecting
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), defaultHandshakeTimeout)
	conn, err := c.dialer.Dial(ctx, c.url)
	cancel()

	c.mu.Lock()
	if gen != c.gen {
		// Disconnect or Reconnect ran while dialing
		c.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
		return nil
	}
	if err != nil {
		c.mu.Unlock()
		logger.Warn("Broker dial failed", logger.String("url", c.url), logger.Err(err))
		c.connectionLost(gen, constants.CloseAbnormal, err.Error(), err)
		return err
	}
	c.conn = conn
	c.state = StateOpen
	c.retries = 0
	c.mu.Unlock()

	logger.Info("Broker connection open", logger.String("url", c.url))
	if c.handlers.OnOpen != nil {
		c.handlers.OnOpen()
	}

	go c.readLoop(gen, conn)
	return nil
}

func (c *Client) readLoop(gen uint64, conn Conn) {
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			code := constants.CloseAbnormal
			reason := err.Error()
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				code = closeErr.Code
				reason = closeErr.Text
				err = nil
			}
			conn.Close()
			c.connectionLost(gen, code, reason, err)
			return
		}

		if messageType != websocket.TextMessage {
			continue
		}

		var env models.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			logger.Debug("Ignoring non-JSON frame from broker", logger.Err(err))
			continue
		}
		if c.handlers.OnMessage != nil {
			c.handlers.OnMessage(env)
		}
	}
}

// connectionLost applies the close policy for the connection generation gen.
// transportErr is non-nil when the close was not a close frame from the peer.
func (c *Client) connectionLost(gen uint64, code int, reason string, transportErr error) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.state = StateDisconnected
	c.conn = nil

	clean := transportErr == nil && isCleanCode(code)
	reconnect := !c.manual && !clean && !isCleanCode(code) && c.retries < c.maxTries
	exhausted := !c.manual && !clean && !isCleanCode(code) && !reconnect
	if reconnect {
		c.retries++
		c.scheduleLocked()
	}
	attempt := c.retries
	c.mu.Unlock()

	if transportErr != nil && c.handlers.OnError != nil {
		c.handlers.OnError(transportErr)
	}
	if c.handlers.OnClose != nil {
		c.handlers.OnClose(code, reason)
	}

	switch {
	case reconnect:
		logger.Info("Broker connection closed, reconnect scheduled",
			logger.Int("code", code),
			logger.Int("attempt", attempt),
			logger.Duration("delay", c.delay))
	case exhausted:
		logger.Error("Broker reconnect attempts exhausted",
			logger.Int("code", code),
			logger.Int("attempts", attempt))
	default:
		logger.Info("Broker connection closed", logger.Int("code", code))
	}
}

func isCleanCode(code int) bool {
	return code == constants.CloseNormal || code == constants.CloseGoingAway
}

// scheduleLocked replaces any pending reconnect with a new one. c.mu must be held.
func (c *Client) scheduleLocked() {
	c.cancelTimerLocked()
	c.timerID++
	id := c.timerID
	c.timer = c.scheduler.AfterFunc(c.delay, func() {
		c.mu.Lock()
		if id != c.timerID || c.timer == nil || c.manual {
			c.mu.Unlock()
			return
		}
		c.timer = nil
		c.mu.Unlock()
		c.Connect()
	})
}

func (c *Client) cancelTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.timerID++
}

// SendMessage writes env as a text frame. It returns false when the client is not open or the write fails.
func (c *Client) SendMessage(env models.Envelope) bool {
	c.mu.Lock()
	conn := c.conn
	open := c.state == StateOpen
	c.mu.Unlock()
	if !open || conn == nil {
		return false
	}

	data, err := json.Marshal(env)
	if err != nil {
		logger.Warn("Failed to marshal envelope", logger.String("type", env.Type), logger.Err(err))
		return false
	}

	c.writeMu.Lock()
	err = conn.WriteMessage(websocket.TextMessage, data)
	c.writeMu.Unlock()
	if err != nil {
		logger.Warn("Failed to send envelope", logger.String("type", env.Type), logger.Err(err))
		return false
	}
	return true
}

// Disconnect closes the session with code 1000 and suppresses reconnects until Reconnect is called
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.manual = true
	c.cancelTimerLocked()
	conn := c.conn
	c.conn = nil
	c.gen++
	if conn != nil {
		c.state = StateClosing
	} else {
		c.state = StateDisconnected
	}
	c.mu.Unlock()

	if conn == nil {
		return
	}

	c.closeConn(conn)

	c.mu.Lock()
	if c.state == StateClosing {
		c.state = StateDisconnected
	}
	c.mu.Unlock()

	logger.Info("Broker connection closed by client")
	if c.handlers.OnClose != nil {
		c.handlers.OnClose(constants.CloseNormal, "client disconnect")
	}
}

// Reconnect clears a previous Disconnect, resets the retry counter and connects immediately
func (c *Client) Reconnect() error {
	c.mu.Lock()
	c.manual = false
	c.retries = 0
	c.cancelTimerLocked()
	conn := c.conn
	c.conn = nil
	c.gen++
	c.state = StateDisconnected
	c.mu.Unlock()

	if conn != nil {
		c.closeConn(conn)
	}
	return c.Connect()
}

func (c *Client) closeConn(conn Conn) {
	c.writeMu.Lock()
	err := conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(constants.CloseNormal, ""),
		time.Now().Add(closeWriteWait))
	c.writeMu.Unlock()
	if err != nil {
		logger.Debug("Failed to send close frame", logger.Err(err))
	}
	conn.Close()
}
