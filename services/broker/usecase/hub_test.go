package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/piresc/nebengjek/internal/pkg/constants"
	"github.com/piresc/nebengjek/internal/pkg/models"
	"github.com/piresc/nebengjek/services/broker"
	"github.com/piresc/nebengjek/services/broker/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePeer struct {
	mu         sync.Mutex
	sent       [][]byte
	pings      int
	terminated bool
	full       bool
}

func (p *fakePeer) Send(msg []byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.full {
		return false
	}
	p.sent = append(p.sent, append([]byte(nil), msg...))
	return true
}

func (p *fakePeer) Ping() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pings++
	return true
}

func (p *fakePeer) Terminate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.terminated = true
}

func (p *fakePeer) envelopes(t *testing.T) []models.Envelope {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Envelope, 0, len(p.sent))
	for _, raw := range p.sent {
		var env models.Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		out = append(out, env)
	}
	return out
}

func (p *fakePeer) types(t *testing.T) []string {
	t.Helper()
	envs := p.envelopes(t)
	out := make([]string, 0, len(envs))
	for _, env := range envs {
		out = append(out, env.Type)
	}
	return out
}

func (p *fakePeer) last(t *testing.T) models.Envelope {
	t.Helper()
	envs := p.envelopes(t)
	require.NotEmpty(t, envs)
	return envs[len(envs)-1]
}

func (p *fakePeer) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = nil
}

func (p *fakePeer) isTerminated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.terminated
}

// slowPeer accepts every frame after a delay
type slowPeer struct {
	fakePeer
	delay time.Duration
}

func (p *slowPeer) Send(msg []byte) bool {
	time.Sleep(p.delay)
	return p.fakePeer.Send(msg)
}

func newTestHub(sink broker.EventSink) *Hub {
	h := NewHub(models.BrokerConfig{}, sink)
	var mu sync.Mutex
	n := 0
	h.newID = func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("conn-%d", n)
	}
	return h
}

// connect opens a connection synchronously, without the loop
func connect(h *Hub, role, userID string) (*fakePeer, string) {
	p := &fakePeer{}
	id := h.newID()
	h.handleEvent(event{kind: eventConnect, connID: id, peer: p, role: role, userID: userID})
	return p, id
}

func deliver(t *testing.T, h *Hub, connID string, env models.Envelope) {
	t.Helper()
	raw, err := json.Marshal(env)
	require.NoError(t, err)
	h.handleEvent(event{kind: eventMessage, connID: connID, data: raw})
}

func rawData(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func locationUpdate(t *testing.T, driverID string, lat, lon float64) models.Envelope {
	return models.Envelope{
		Type: constants.MsgLocationUpdate,
		Data: rawData(t, models.LocationUpdate{DriverID: driverID, Latitude: lat, Longitude: lon, Status: "active"}),
	}
}

func errorCode(t *testing.T, env models.Envelope) string {
	t.Helper()
	require.Equal(t, constants.MsgError, env.Type)
	var body models.WSErrorMessage
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, body.Message, env.Message)
	return body.Code
}

func TestConnect_Roles(t *testing.T) {
	h := newTestHub(nil)

	_, adminID := connect(h, models.RoleAdmin, "")
	_, riderID := connect(h, "", "user-1")
	_, unknownID := connect(h, "", "")
	_, driverID := connect(h, models.RoleDriver, "")

	admin, _ := h.reg.Connection(adminID)
	rider, _ := h.reg.Connection(riderID)
	unknown, _ := h.reg.Connection(unknownID)
	driver, _ := h.reg.Connection(driverID)

	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, models.RoleRider, rider.Role)
	assert.Equal(t, "user-1", rider.UserID)
	assert.Empty(t, unknown.Role)
	assert.Equal(t, models.RoleDriver, driver.Role)

	registered, ok := h.reg.UserConnection("user-1")
	require.True(t, ok)
	assert.Same(t, rider, registered)
}

func TestConnect_AdminReceivesSnapshots(t *testing.T) {
	h := newTestHub(nil)

	_, driverConn := connect(h, "", "")
	deliver(t, h, driverConn, locationUpdate(t, "d1", -6.2, 106.8))
	h.applyRide(models.RideRecord{ID: "r1", Status: models.RideStatusAccepted})

	admin, _ := connect(h, models.RoleAdmin, "")

	envs := admin.envelopes(t)
	require.Len(t, envs, 2)
	assert.Equal(t, constants.MsgDriverLocations, envs[0].Type)
	assert.Equal(t, constants.MsgActiveRides, envs[1].Type)

	var drivers []models.DriverRecord
	require.NoError(t, json.Unmarshal(envs[0].Data, &drivers))
	require.Len(t, drivers, 1)
	assert.Equal(t, "d1", drivers[0].ID)

	var rides []models.RideRecord
	require.NoError(t, json.Unmarshal(envs[1].Data, &rides))
	require.Len(t, rides, 1)
	assert.Equal(t, "r1", rides[0].ID)
}

func TestLocationUpdate_UpsertsAndFansOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := mocks.NewMockEventSink(ctrl)
	var exported []models.DriverRecord
	sink.EXPECT().DriverUpdated(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec models.DriverRecord) error {
			exported = append(exported, rec)
			return nil
		}).Times(2)

	h := newTestHub(sink)
	admin, _ := connect(h, models.RoleAdmin, "")
	admin.reset()
	driver, driverConn := connect(h, "", "")

	deliver(t, h, driverConn, locationUpdate(t, "d1", -6.2, 106.8))
	deliver(t, h, driverConn, locationUpdate(t, "d1", -6.25, 106.85))

	drivers := h.reg.Drivers()
	require.Len(t, drivers, 1)
	assert.Equal(t, -6.25, drivers[0].Coordinate.Latitude)
	assert.Equal(t, 106.85, drivers[0].Coordinate.Longitude)
	assert.NotEmpty(t, drivers[0].Geohash)

	conn, _ := h.reg.Connection(driverConn)
	assert.Equal(t, models.RoleDriver, conn.Role)
	assert.Equal(t, "d1", conn.DriverID)

	envs := admin.envelopes(t)
	require.Len(t, envs, 2)
	for _, env := range envs {
		assert.Equal(t, constants.MsgDriverLocationUpdate, env.Type)
		assert.Equal(t, "d1", env.Driver)
	}
	var rec models.DriverRecord
	require.NoError(t, json.Unmarshal(envs[1].Data, &rec))
	assert.Equal(t, -6.25, rec.Coordinate.Latitude)

	assert.Empty(t, driver.envelopes(t), "drivers get no echo")
	require.Len(t, exported, 2)
	assert.Equal(t, 106.85, exported[1].Coordinate.Longitude)
}

func TestLocationUpdate_DriverIDFromEnvelopeAndDefaultStatus(t *testing.T) {
	h := newTestHub(nil)
	_, conn := connect(h, "", "")

	deliver(t, h, conn, models.Envelope{
		Type:   constants.MsgLocationUpdate,
		Driver: "d9",
		Data:   rawData(t, map[string]float64{"latitude": 1, "longitude": 2}),
	})

	state := h.reg.DriverState("d9")
	require.Equal(t, models.DriverActive, state.Kind)
	assert.Equal(t, models.DriverStatusActive, state.Record.Status)
}

func TestLocationUpdate_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(h *Hub) string
		env      func(t *testing.T) models.Envelope
		wantCode string
	}{
		{
			name:  "latitude out of range",
			setup: func(h *Hub) string { _, id := connect(h, "", ""); return id },
			env: func(t *testing.T) models.Envelope {
				return locationUpdate(t, "d1", 91, 0)
			},
			wantCode: constants.ErrorInvalidLocation,
		},
		{
			name:  "longitude out of range",
			setup: func(h *Hub) string { _, id := connect(h, "", ""); return id },
			env: func(t *testing.T) models.Envelope {
				return locationUpdate(t, "d1", 0, -180.5)
			},
			wantCode: constants.ErrorInvalidLocation,
		},
		{
			name:  "missing driver id",
			setup: func(h *Hub) string { _, id := connect(h, "", ""); return id },
			env: func(t *testing.T) models.Envelope {
				return locationUpdate(t, "", 1, 1)
			},
			wantCode: constants.ErrorInvalidFormat,
		},
		{
			name:  "missing data",
			setup: func(h *Hub) string { _, id := connect(h, "", ""); return id },
			env: func(t *testing.T) models.Envelope {
				return models.Envelope{Type: constants.MsgLocationUpdate, Driver: "d1"}
			},
			wantCode: constants.ErrorInvalidFormat,
		},
		{
			name:  "rider connection",
			setup: func(h *Hub) string { _, id := connect(h, "", "user-1"); return id },
			env: func(t *testing.T) models.Envelope {
				return locationUpdate(t, "d1", 1, 1)
			},
			wantCode: constants.ErrorRoleMismatch,
		},
		{
			name:  "admin connection",
			setup: func(h *Hub) string { _, id := connect(h, models.RoleAdmin, ""); return id },
			env: func(t *testing.T) models.Envelope {
				return locationUpdate(t, "d1", 1, 1)
			},
			wantCode: constants.ErrorRoleMismatch,
		},
		{
			name:  "conflicting envelope role",
			setup: func(h *Hub) string { _, id := connect(h, "", ""); return id },
			env: func(t *testing.T) models.Envelope {
				env := locationUpdate(t, "d1", 1, 1)
				env.Role = models.RoleRider
				return env
			},
			wantCode: constants.ErrorRoleMismatch,
		},
		{
			name: "connection bound to another driver",
			setup: func(h *Hub) string {
				_, id := connect(h, "", "")
				conn, _ := h.reg.Connection(id)
				conn.Role = models.RoleDriver
				conn.DriverID = "d2"
				return id
			},
			env: func(t *testing.T) models.Envelope {
				return locationUpdate(t, "d1", 1, 1)
			},
			wantCode: constants.ErrorRoleMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHub(nil)
			id := tt.setup(h)
			conn, _ := h.reg.Connection(id)
			peer := conn.Peer.(*fakePeer)
			peer.reset()

			deliver(t, h, id, tt.env(t))

			assert.Equal(t, tt.wantCode, errorCode(t, peer.last(t)))
			assert.Equal(t, models.DriverAbsent, h.reg.DriverState("d1").Kind)
		})
	}
}

func TestDriverStatusChange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := mocks.NewMockEventSink(ctrl)
	sink.EXPECT().DriverUpdated(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	sink.EXPECT().DriverRemoved(gomock.Any(), "d1").Return(nil).Times(1)

	h := newTestHub(sink)
	admin, _ := connect(h, models.RoleAdmin, "")
	driver, conn := connect(h, "", "")
	deliver(t, h, conn, locationUpdate(t, "d1", 1, 1))
	admin.reset()

	deliver(t, h, conn, models.Envelope{
		Type: constants.MsgDriverStatusChange,
		Data: rawData(t, models.StatusChange{Status: "active"}),
	})
	assert.Equal(t, models.DriverActive, h.reg.DriverState("d1").Kind, "active is a no-op")
	assert.Empty(t, admin.envelopes(t))

	deliver(t, h, conn, models.Envelope{
		Type: constants.MsgDriverStatusChange,
		Data: rawData(t, models.StatusChange{Status: "inactive"}),
	})
	assert.Equal(t, models.DriverAbsent, h.reg.DriverState("d1").Kind)

	removed := admin.last(t)
	assert.Equal(t, constants.MsgDriverRemoved, removed.Type)
	assert.Equal(t, "d1", removed.Driver)
	var body models.DriverRemoval
	require.NoError(t, json.Unmarshal(removed.Data, &body))
	assert.Equal(t, "d1", body.DriverID)

	// a second inactive for an absent driver broadcasts nothing
	deliver(t, h, conn, models.Envelope{
		Type: constants.MsgDriverStatusChange,
		Data: rawData(t, models.StatusChange{Status: "inactive"}),
	})
	assert.Len(t, admin.envelopes(t), 1)

	deliver(t, h, conn, models.Envelope{
		Type: constants.MsgDriverStatusChange,
		Data: rawData(t, models.StatusChange{Status: "sleeping"}),
	})
	assert.Equal(t, constants.ErrorInvalidFormat, errorCode(t, driver.last(t)))
}

func TestRequestRide(t *testing.T) {
	h := newTestHub(nil)

	for _, d := range []struct {
		id     string
		lon    float64
		status string
	}{
		{"near", 0.01, "active"},
		{"sleepy", 0.001, "inactive"},
		{"far", 0.045, "active"},
		{"edge", 0.0449, "Active"},
	} {
		_, conn := connect(h, "", "")
		env := locationUpdate(t, d.id, 0, d.lon)
		env.Data = rawData(t, models.LocationUpdate{DriverID: d.id, Longitude: d.lon, Status: d.status})
		deliver(t, h, conn, env)
	}

	rider, riderConn := connect(h, "", "")
	deliver(t, h, riderConn, models.Envelope{
		Type:   constants.MsgRequestRide,
		UserID: "user-7",
		Data:   rawData(t, models.NearbyRequest{Latitude: 0, Longitude: 0}),
	})

	reply := rider.last(t)
	assert.Equal(t, constants.MsgNearbyDrivers, reply.Type)
	assert.Equal(t, "user-7", reply.UserID)
	var drivers []models.DriverRecord
	require.NoError(t, json.Unmarshal(reply.Data, &drivers))
	ids := make([]string, 0, len(drivers))
	for _, d := range drivers {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"near", "edge"}, ids)

	conn, _ := h.reg.Connection(riderConn)
	assert.Equal(t, models.RoleRider, conn.Role)
	registered, ok := h.reg.UserConnection("user-7")
	require.True(t, ok)
	assert.Same(t, conn, registered)
}

func TestRequestRide_EmptyAndInvalid(t *testing.T) {
	h := newTestHub(nil)
	rider, conn := connect(h, "", "user-1")

	deliver(t, h, conn, models.Envelope{
		Type: constants.MsgRequestRide,
		Data: rawData(t, models.NearbyRequest{Latitude: 10, Longitude: 10, Radius: 100}),
	})
	reply := rider.last(t)
	assert.Equal(t, constants.MsgNearbyDrivers, reply.Type)
	assert.JSONEq(t, `[]`, string(reply.Data))

	deliver(t, h, conn, models.Envelope{
		Type: constants.MsgRequestRide,
		Data: rawData(t, models.NearbyRequest{Latitude: -100, Longitude: 10}),
	})
	assert.Equal(t, constants.ErrorInvalidLocation, errorCode(t, rider.last(t)))
}

func TestRegisterUser(t *testing.T) {
	h := newTestHub(nil)
	rider, conn := connect(h, "", "")

	deliver(t, h, conn, models.Envelope{Type: constants.MsgRegisterUser})
	assert.Equal(t, constants.ErrorInvalidFormat, errorCode(t, rider.last(t)))

	deliver(t, h, conn, models.Envelope{Type: constants.MsgRegisterUser, UserID: "user-1"})
	reply := rider.last(t)
	assert.Equal(t, constants.MsgRegistered, reply.Type)
	assert.Equal(t, "user-1", reply.UserID)

	// re-registering under a new id frees the old one
	deliver(t, h, conn, models.Envelope{Type: constants.MsgRegisterUser, UserID: "user-2"})
	_, ok := h.reg.UserConnection("user-1")
	assert.False(t, ok)
	_, ok = h.reg.UserConnection("user-2")
	assert.True(t, ok)

	driver, driverConn := connect(h, "", "")
	deliver(t, h, driverConn, locationUpdate(t, "d1", 1, 1))
	deliver(t, h, driverConn, models.Envelope{Type: constants.MsgRegisterUser, UserID: "user-3"})
	assert.Equal(t, constants.ErrorRoleMismatch, errorCode(t, driver.last(t)))
}

func TestRideStatusUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := mocks.NewMockEventSink(ctrl)
	var snapshots [][]models.RideRecord
	sink.EXPECT().ActiveRidesChanged(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rides []models.RideRecord) error {
			snapshots = append(snapshots, rides)
			return nil
		}).Times(3)

	h := newTestHub(sink)
	admin, _ := connect(h, models.RoleAdmin, "")
	admin.reset()
	rider, conn := connect(h, "", "user-1")

	update := func(id, status string) {
		deliver(t, h, conn, models.Envelope{
			Type: constants.MsgRideStatusUpdate,
			Data: rawData(t, models.RideRecord{ID: id, Status: status}),
		})
	}

	update("r1", models.RideStatusAccepted)
	update("r2", models.RideStatusInProgress)
	update("r1", models.RideStatusCompleted)
	update("r9", models.RideStatusCancelled)

	envs := admin.envelopes(t)
	require.Len(t, envs, 3, "removing an unknown ride changes nothing")
	for _, env := range envs {
		assert.Equal(t, constants.MsgActiveRidesUpdate, env.Type)
	}
	var rides []models.RideRecord
	require.NoError(t, json.Unmarshal(envs[2].Data, &rides))
	require.Len(t, rides, 1)
	assert.Equal(t, "r2", rides[0].ID)
	require.Len(t, snapshots, 3)
	assert.Len(t, snapshots[1], 2)

	deliver(t, h, conn, models.Envelope{
		Type: constants.MsgRideStatusUpdate,
		Data: rawData(t, models.RideRecord{Status: models.RideStatusAccepted}),
	})
	assert.Equal(t, constants.ErrorInvalidFormat, errorCode(t, rider.last(t)))
}

func TestDispatch_MalformedAndUnknown(t *testing.T) {
	h := newTestHub(nil)
	peer, conn := connect(h, "", "")

	h.handleEvent(event{kind: eventMessage, connID: conn, data: []byte("not json")})
	assert.Empty(t, peer.envelopes(t))

	deliver(t, h, conn, models.Envelope{Type: "teleport"})
	assert.Equal(t, constants.ErrorUnknownType, errorCode(t, peer.last(t)))

	c, _ := h.reg.Connection(conn)
	assert.Empty(t, c.Role, "unknown types do not derive a role")
}

func TestCleanup_DriverRemovedExactlyOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := mocks.NewMockEventSink(ctrl)
	sink.EXPECT().DriverUpdated(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	sink.EXPECT().DriverRemoved(gomock.Any(), "d1").Return(nil).Times(1)

	h := newTestHub(sink)
	admin, _ := connect(h, models.RoleAdmin, "")
	_, conn := connect(h, "", "")
	deliver(t, h, conn, locationUpdate(t, "d1", 1, 1))
	admin.reset()

	h.handleEvent(event{kind: eventClose, connID: conn})
	h.handleEvent(event{kind: eventClose, connID: conn})

	assert.Equal(t, models.DriverAbsent, h.reg.DriverState("d1").Kind)
	assert.Equal(t, []string{constants.MsgDriverRemoved}, admin.types(t))
	assert.Equal(t, 1, h.reg.Stats().Connections)
}

func TestCleanup_DriverReconnectKeepsRecord(t *testing.T) {
	h := newTestHub(nil)
	admin, _ := connect(h, models.RoleAdmin, "")
	_, oldConn := connect(h, "", "")
	_, newConn := connect(h, "", "")
	deliver(t, h, oldConn, locationUpdate(t, "d1", 1, 1))
	deliver(t, h, newConn, locationUpdate(t, "d1", 1.001, 1))
	admin.reset()

	h.handleEvent(event{kind: eventClose, connID: oldConn})

	assert.Equal(t, models.DriverActive, h.reg.DriverState("d1").Kind)
	assert.Empty(t, admin.envelopes(t))

	h.handleEvent(event{kind: eventClose, connID: newConn})
	assert.Equal(t, models.DriverAbsent, h.reg.DriverState("d1").Kind)
	assert.Equal(t, []string{constants.MsgDriverRemoved}, admin.types(t))
}

func TestCleanup_RiderUnregistered(t *testing.T) {
	h := newTestHub(nil)
	_, first := connect(h, "", "user-1")
	_, second := connect(h, "", "user-1")

	h.handleEvent(event{kind: eventClose, connID: first})
	_, ok := h.reg.UserConnection("user-1")
	assert.True(t, ok, "closing a replaced connection keeps the newer registration")

	h.handleEvent(event{kind: eventClose, connID: second})
	_, ok = h.reg.UserConnection("user-1")
	assert.False(t, ok)
}

func TestSweep_TerminatesUnresponsiveConnections(t *testing.T) {
	h := newTestHub(nil)
	admin, _ := connect(h, models.RoleAdmin, "")
	driver, driverConn := connect(h, "", "")
	rider, riderConn := connect(h, "", "user-1")
	deliver(t, h, driverConn, locationUpdate(t, "d1", 1, 1))
	admin.reset()

	h.sweep()
	assert.Equal(t, 1, driver.pings)
	assert.Equal(t, 1, rider.pings)
	assert.False(t, driver.isTerminated())

	h.handleEvent(event{kind: eventPong, connID: riderConn})
	h.handleEvent(event{kind: eventPong, connID: h.reg.Admins()[0].ID})

	h.sweep()
	assert.True(t, driver.isTerminated())
	assert.False(t, rider.isTerminated())
	assert.False(t, admin.isTerminated())
	assert.Equal(t, models.DriverAbsent, h.reg.DriverState("d1").Kind)
	_, ok := h.reg.Connection(driverConn)
	assert.False(t, ok)

	// the read pump reports the close after terminate; cleanup already ran
	h.handleEvent(event{kind: eventClose, connID: driverConn})
	assert.Equal(t, []string{constants.MsgDriverRemoved}, admin.types(t))
	assert.Equal(t, 2, rider.pings)
}

func TestHub_LoopServesControlPlane(t *testing.T) {
	h := newTestHub(nil)
	h.Start()
	defer func() {
		require.NoError(t, h.Shutdown(context.Background()))
	}()

	ctx := context.Background()
	rider := &fakePeer{}
	riderConn, err := h.Connect(rider, "", "user-1")
	require.NoError(t, err)

	driver := &fakePeer{}
	driverConn, err := h.Connect(driver, "", "")
	require.NoError(t, err)
	raw, err := json.Marshal(locationUpdate(t, "d1", 1, 1))
	require.NoError(t, err)
	require.NoError(t, h.Inbound(driverConn, raw))

	require.Eventually(t, func() bool {
		drivers, err := h.Drivers(ctx)
		return err == nil && len(drivers) == 1
	}, time.Second, 10*time.Millisecond)

	delivered, err := h.SendToUser(ctx, "user-1", models.Envelope{Type: constants.MsgRideAccepted, UserID: "user-1"})
	require.NoError(t, err)
	assert.True(t, delivered)
	assert.Equal(t, constants.MsgRideAccepted, rider.last(t).Type)

	delivered, err = h.SendToUser(ctx, "nobody", models.Envelope{Type: constants.MsgRideAccepted})
	require.NoError(t, err)
	assert.False(t, delivered)

	require.NoError(t, h.ApplyRideStatus(ctx, models.RideRecord{ID: "r1", Status: models.RideStatusAccepted}))
	rides, err := h.ActiveRides(ctx)
	require.NoError(t, err)
	require.Len(t, rides, 1)

	require.NoError(t, h.Pong(riderConn))
	stats, err := h.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.BrokerStats{Connections: 2, Drivers: 1, ActiveRides: 1, Riders: 1}, stats)
}

func TestHub_SendToUserFullBuffer(t *testing.T) {
	h := newTestHub(nil)
	h.Start()
	defer func() {
		require.NoError(t, h.Shutdown(context.Background()))
	}()

	rider := &fakePeer{full: true}
	_, err := h.Connect(rider, "", "user-1")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		stats, err := h.Stats(context.Background())
		return err == nil && stats.Riders == 1
	}, time.Second, 10*time.Millisecond)

	delivered, err := h.SendToUser(context.Background(), "user-1", models.Envelope{Type: constants.MsgRideCompleted})
	require.NoError(t, err)
	assert.False(t, delivered)
}

func TestHub_ShutdownTerminatesConnections(t *testing.T) {
	h := newTestHub(nil)
	h.Start()

	peer := &fakePeer{}
	conn, err := h.Connect(peer, models.RoleAdmin, "")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(peer.envelopes(t)) == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, h.Shutdown(context.Background()))
	assert.True(t, peer.isTerminated())

	assert.ErrorIs(t, h.Inbound(conn, []byte(`{}`)), ErrHubStopped)
	assert.ErrorIs(t, h.Disconnect(conn), ErrHubStopped)
	_, err = h.Drivers(context.Background())
	assert.ErrorIs(t, err, ErrHubStopped)
}

func TestHub_SubmitHonoursContext(t *testing.T) {
	h := newTestHub(nil)
	// loop not started, so the call can never be accepted
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := h.Stats(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHub_SubmitWaitsForAcceptedCall(t *testing.T) {
	h := newTestHub(nil)
	h.Start()
	defer func() {
		require.NoError(t, h.Shutdown(context.Background()))
	}()

	rider := &slowPeer{delay: 60 * time.Millisecond}
	_, err := h.Connect(rider, "", "user-1")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		stats, err := h.Stats(context.Background())
		return err == nil && stats.Riders == 1
	}, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	delivered, err := h.SendToUser(ctx, "user-1", models.Envelope{Type: constants.MsgRideAccepted})
	require.NoError(t, err)
	assert.True(t, delivered, "result is reported once the loop ran the call")
	assert.Len(t, rider.envelopes(t), 1)
}
