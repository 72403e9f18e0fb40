package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/piresc/nebengjek/internal/pkg/constants"
	"github.com/piresc/nebengjek/internal/pkg/logger"
	"github.com/piresc/nebengjek/internal/pkg/models"
	"github.com/piresc/nebengjek/services/broker"
	"github.com/piresc/nebengjek/services/broker/registry"
)

// ErrHubStopped is returned for calls made after the dispatch loop exited
var ErrHubStopped = errors.New("broker hub stopped")

const (
	defaultPingInterval = 30 * time.Second
	inboundBuffer       = 256
)

type eventKind int

const (
	eventConnect eventKind = iota
	eventMessage
	eventPong
	eventClose
)

// event is everything a connection's read pump reports, in the order it happened
type event struct {
	kind   eventKind
	connID string
	peer   broker.Peer
	role   string
	userID string
	data   []byte
}

// Hub is the broker dispatch loop. It owns the registry; every read and write
// of broker state happens on the loop goroutine.
type Hub struct {
	cfg  models.BrokerConfig
	reg  *registry.Registry
	sink broker.EventSink

	inbound chan event
	calls   chan func()
	stopped chan struct{}
	done    chan struct{}
	cancel  context.CancelFunc
	newID   func() string
}

// NewHub creates a hub. A nil sink disables event export.
func NewHub(cfg models.BrokerConfig, sink broker.EventSink) *Hub {
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = defaultPingInterval
	}
	if cfg.SearchRadiusMeters <= 0 {
		cfg.SearchRadiusMeters = registry.DefaultSearchRadius
	}
	return &Hub{
		cfg:     cfg,
		reg:     registry.New(),
		sink:    sink,
		inbound: make(chan event, inboundBuffer),
		calls:   make(chan func()),
		stopped: make(chan struct{}),
		done:    make(chan struct{}),
		newID:   uuid.NewString,
	}
}

// Start launches the dispatch loop
func (h *Hub) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go h.run(ctx)
}

// Shutdown stops the loop and terminates every open connection
func (h *Hub) Shutdown(ctx context.Context) error {
	if h.cancel != nil {
		h.cancel()
	}
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) run(ctx context.Context) {
	defer close(h.done)
	defer close(h.stopped)

	ticker := time.NewTicker(h.cfg.PingInterval)
	defer ticker.Stop()

	logger.Info("Broker hub started", logger.Duration("ping_interval", h.cfg.PingInterval))

	for {
		select {
		case <-ctx.Done():
			h.terminateAll()
			logger.Info("Broker hub stopped")
			return
		case ev := <-h.inbound:
			h.handleEvent(ev)
		case fn := <-h.calls:
			fn()
		case <-ticker.C:
			h.sweep()
		}
	}
}

// Connect registers a new socket and returns its connection id
func (h *Hub) Connect(peer broker.Peer, role, userID string) (string, error) {
	id := h.newID()
	return id, h.post(event{kind: eventConnect, connID: id, peer: peer, role: role, userID: userID})
}

// Inbound queues a raw frame received on connID
func (h *Hub) Inbound(connID string, data []byte) error {
	return h.post(event{kind: eventMessage, connID: connID, data: data})
}

// Pong marks connID alive
func (h *Hub) Pong(connID string) error {
	return h.post(event{kind: eventPong, connID: connID})
}

// Disconnect runs cleanup for connID
func (h *Hub) Disconnect(connID string) error {
	return h.post(event{kind: eventClose, connID: connID})
}

func (h *Hub) post(ev event) error {
	select {
	case <-h.stopped:
		return ErrHubStopped
	default:
	}
	select {
	case h.inbound <- ev:
		return nil
	case <-h.stopped:
		return ErrHubStopped
	}
}

// submit runs fn on the loop goroutine and waits for it.
// ctx only bounds the wait for the loop to accept the call; once accepted, fn writes
// the caller's results, so submit waits for it to finish. fn never blocks.
func (h *Hub) submit(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	call := func() {
		fn()
		close(done)
	}

	select {
	case h.calls <- call:
	case <-h.stopped:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	<-done
	return nil
}

// Drivers returns the live driver map in insertion order
func (h *Hub) Drivers(ctx context.Context) ([]models.DriverRecord, error) {
	var drivers []models.DriverRecord
	err := h.submit(ctx, func() { drivers = h.reg.Drivers() })
	return drivers, err
}

// ActiveRides returns the active rides in insertion order
func (h *Hub) ActiveRides(ctx context.Context) ([]models.RideRecord, error) {
	var rides []models.RideRecord
	err := h.submit(ctx, func() { rides = h.reg.ActiveRides() })
	return rides, err
}

// Stats returns registry sizes
func (h *Hub) Stats(ctx context.Context) (models.BrokerStats, error) {
	var stats models.BrokerStats
	err := h.submit(ctx, func() { stats = h.reg.Stats() })
	return stats, err
}

// SendToUser delivers env to the rider registered under userID.
// Delivery is best effort: false means the rider is offline or its buffer is full.
func (h *Hub) SendToUser(ctx context.Context, userID string, env models.Envelope) (bool, error) {
	var delivered bool
	err := h.submit(ctx, func() {
		conn, ok := h.reg.UserConnection(userID)
		if !ok {
			logger.Debug("User not connected", logger.String("user_id", userID), logger.String("type", env.Type))
			return
		}
		delivered = h.send(conn, env)
	})
	return delivered, err
}

// ApplyRideStatus stores or drops a ride and tells admins when the active set changed
func (h *Hub) ApplyRideStatus(ctx context.Context, ride models.RideRecord) error {
	return h.submit(ctx, func() { h.applyRide(ride) })
}

func (h *Hub) handleEvent(ev event) {
	switch ev.kind {
	case eventConnect:
		h.open(ev)
	case eventMessage:
		conn, ok := h.reg.Connection(ev.connID)
		if !ok {
			return
		}
		h.dispatch(conn, ev.data)
	case eventPong:
		if conn, ok := h.reg.Connection(ev.connID); ok {
			conn.Alive = true
		}
	case eventClose:
		h.cleanup(ev.connID, "closed")
	}
}

func (h *Hub) open(ev event) {
	conn := &registry.Connection{ID: ev.connID, Peer: ev.peer, Alive: true}

	switch {
	case ev.role == models.RoleAdmin:
		conn.Role = models.RoleAdmin
	case ev.userID != "":
		conn.Role = models.RoleRider
		conn.UserID = ev.userID
		h.reg.RegisterUser(ev.userID, conn)
	case ev.role == models.RoleDriver || ev.role == models.RoleRider:
		conn.Role = ev.role
	}
	h.reg.AddConnection(conn)

	logger.Info("Connection opened",
		logger.String("conn_id", conn.ID),
		logger.String("role", conn.Role),
		logger.String("user_id", conn.UserID))

	if conn.Role == models.RoleAdmin {
		h.sendData(conn, constants.MsgDriverLocations, h.reg.Drivers())
		h.sendData(conn, constants.MsgActiveRides, h.reg.ActiveRides())
	}
}

// sweep terminates connections that missed the previous ping and pings the rest
func (h *Hub) sweep() {
	for _, conn := range h.reg.Connections() {
		if !conn.Alive {
			logger.Warn("Terminating unresponsive connection",
				logger.String("conn_id", conn.ID),
				logger.String("role", conn.Role))
			conn.Peer.Terminate()
			h.cleanup(conn.ID, "liveness timeout")
			continue
		}
		conn.Alive = false
		if !conn.Peer.Ping() {
			logger.Debug("Ping not queued", logger.String("conn_id", conn.ID))
		}
	}
}

// cleanup forgets a connection. It runs at most once per connection id.
func (h *Hub) cleanup(connID, reason string) {
	conn, ok := h.reg.Connection(connID)
	if !ok {
		return
	}
	h.reg.RemoveConnection(connID)

	switch {
	case conn.DriverID != "":
		if h.driverOwnedElsewhere(conn.DriverID) {
			logger.Info("Driver connection closed, newer connection keeps record",
				logger.String("conn_id", connID),
				logger.String("driver_id", conn.DriverID))
			return
		}
		if h.reg.RemoveDriver(conn.DriverID) {
			h.driverRemoved(conn.DriverID)
		}
		logger.Info("Driver disconnected",
			logger.String("conn_id", connID),
			logger.String("driver_id", conn.DriverID),
			logger.String("reason", reason))
	case conn.UserID != "":
		h.reg.UnregisterUser(conn.UserID, conn)
		logger.Info("Rider disconnected",
			logger.String("conn_id", connID),
			logger.String("user_id", conn.UserID),
			logger.String("reason", reason))
	case conn.Role == models.RoleAdmin:
		logger.Info("Admin disconnected", logger.String("conn_id", connID), logger.String("reason", reason))
	default:
		logger.Info("Connection closed", logger.String("conn_id", connID), logger.String("reason", reason))
	}
}

func (h *Hub) driverOwnedElsewhere(driverID string) bool {
	for _, other := range h.reg.Connections() {
		if other.DriverID == driverID {
			return true
		}
	}
	return false
}

func (h *Hub) terminateAll() {
	for _, conn := range h.reg.Connections() {
		conn.Peer.Terminate()
		h.reg.RemoveConnection(conn.ID)
	}
}

func (h *Hub) driverRemoved(driverID string) {
	env, err := models.NewEnvelope(constants.MsgDriverRemoved, models.DriverRemoval{DriverID: driverID})
	if err != nil {
		logger.Error("Failed to encode driver removal", logger.Err(err))
		return
	}
	env.Driver = driverID
	h.broadcastAdmins(env)
	h.export(func(ctx context.Context) error { return h.sink.DriverRemoved(ctx, driverID) })
}

func (h *Hub) applyRide(ride models.RideRecord) {
	if !h.reg.ApplyRideStatus(ride) {
		return
	}
	rides := h.reg.ActiveRides()
	env, err := models.NewEnvelope(constants.MsgActiveRidesUpdate, rides)
	if err != nil {
		logger.Error("Failed to encode active rides", logger.Err(err))
		return
	}
	h.broadcastAdmins(env)
	h.export(func(ctx context.Context) error { return h.sink.ActiveRidesChanged(ctx, rides) })
}

func (h *Hub) export(fn func(ctx context.Context) error) {
	if h.sink == nil {
		return
	}
	if err := fn(context.Background()); err != nil {
		logger.Warn("Event sink rejected update", logger.Err(err))
	}
}

func (h *Hub) broadcastAdmins(env models.Envelope) {
	admins := h.reg.Admins()
	if len(admins) == 0 {
		return
	}
	raw, err := json.Marshal(env)
	if err != nil {
		logger.Error("Failed to encode broadcast", logger.String("type", env.Type), logger.Err(err))
		return
	}
	for _, conn := range admins {
		h.write(conn, env.Type, raw)
	}
}

func (h *Hub) sendData(conn *registry.Connection, msgType string, v interface{}) bool {
	env, err := models.NewEnvelope(msgType, v)
	if err != nil {
		logger.Error("Failed to encode message", logger.String("type", msgType), logger.Err(err))
		return false
	}
	return h.send(conn, env)
}

func (h *Hub) send(conn *registry.Connection, env models.Envelope) bool {
	raw, err := json.Marshal(env)
	if err != nil {
		logger.Error("Failed to encode message", logger.String("type", env.Type), logger.Err(err))
		return false
	}
	return h.write(conn, env.Type, raw)
}

func (h *Hub) write(conn *registry.Connection, msgType string, raw []byte) bool {
	if conn.Peer.Send(raw) {
		return true
	}
	logger.Warn("Dropped outbound message",
		logger.String("conn_id", conn.ID),
		logger.String("type", msgType))
	return false
}
