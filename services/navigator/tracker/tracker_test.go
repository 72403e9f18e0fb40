package tracker

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/piresc/nebengjek/internal/pkg/constants"
	"github.com/piresc/nebengjek/internal/pkg/models"
	"github.com/piresc/nebengjek/services/navigator/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixAt(c models.Coordinate, v *float64) models.LocationFix {
	return models.LocationFix{Coordinate: c, Speed: v, Timestamp: time.Now()}
}

func newTestTracker(t *testing.T) (*Tracker, *mocks.MockTransmitter) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	transmitter := mocks.NewMockTransmitter(ctrl)
	return NewTracker(transmitter, Config{DriverID: "d1", DisplayName: "Budi", VehicleType: "motorcycle"}), transmitter
}

func TestTracker_InactiveOnlyObserves(t *testing.T) {
	tr, _ := newTestTracker(t)

	assert.False(t, tr.HandleFix(fixAt(north(0), nil)))
	assert.False(t, tr.HandleFix(fixAt(north(500), nil)))

	current, ok := tr.Current()
	require.True(t, ok)
	assert.Equal(t, north(500), current)

	_, sent := tr.LastSent()
	assert.False(t, sent)
}

func TestTracker_GatesTransmission(t *testing.T) {
	tr, transmitter := newTestTracker(t)

	var sent []models.Envelope
	transmitter.EXPECT().SendMessage(gomock.Any()).DoAndReturn(func(env models.Envelope) bool {
		sent = append(sent, env)
		return true
	}).Times(2)

	tr.SetActive(true)
	assert.True(t, tr.HandleFix(fixAt(north(0), nil)), "first fix after activation")
	assert.False(t, tr.HandleFix(fixAt(north(100), nil)), "below threshold")
	assert.True(t, tr.HandleFix(fixAt(north(250), nil)), "moved past threshold from last sent")

	last, ok := tr.LastSent()
	require.True(t, ok)
	assert.Equal(t, north(250), last)
	current, _ := tr.Current()
	assert.Equal(t, north(250), current)

	require.Len(t, sent, 2)
	assert.Equal(t, constants.MsgLocationUpdate, sent[0].Type)
	assert.Equal(t, models.RoleDriver, sent[0].Role)
	assert.Equal(t, "d1", sent[0].Driver)

	var upd models.LocationUpdate
	require.NoError(t, json.Unmarshal(sent[1].Data, &upd))
	assert.Equal(t, "d1", upd.DriverID)
	assert.Equal(t, "Budi", upd.DisplayName)
	assert.Equal(t, "motorcycle", upd.VehicleType)
	assert.Equal(t, models.DriverStatusActive, upd.Status)
	assert.InDelta(t, north(250).Latitude, upd.Latitude, 1e-12)
}

func TestTracker_ReactivationForcesNextFix(t *testing.T) {
	tr, transmitter := newTestTracker(t)

	var types []string
	transmitter.EXPECT().SendMessage(gomock.Any()).DoAndReturn(func(env models.Envelope) bool {
		types = append(types, env.Type)
		return true
	}).AnyTimes()

	tr.SetActive(true)
	tr.HandleFix(fixAt(north(0), nil))
	tr.SetActive(false)
	assert.False(t, tr.HandleFix(fixAt(north(10), nil)))
	tr.SetActive(true)
	assert.True(t, tr.HandleFix(fixAt(north(20), nil)), "forced despite being within threshold")
	assert.False(t, tr.HandleFix(fixAt(north(30), nil)))

	assert.Equal(t, []string{
		constants.MsgLocationUpdate,
		constants.MsgDriverStatusChange,
		constants.MsgLocationUpdate,
	}, types)
}

func TestTracker_SetInactiveSendsStatusChange(t *testing.T) {
	tr, transmitter := newTestTracker(t)

	tr.SetActive(false)

	transmitter.EXPECT().SendMessage(gomock.Any()).DoAndReturn(func(env models.Envelope) bool {
		assert.Equal(t, constants.MsgDriverStatusChange, env.Type)
		var change models.StatusChange
		require.NoError(t, json.Unmarshal(env.Data, &change))
		assert.Equal(t, models.StatusChange{DriverID: "d1", Status: models.DriverStatusInactive}, change)
		return false
	})

	tr.SetActive(true)
	assert.True(t, tr.Active())
	tr.SetActive(false)
	assert.False(t, tr.Active())
}

func TestTracker_Resync(t *testing.T) {
	tr, transmitter := newTestTracker(t)
	transmitter.EXPECT().SendMessage(gomock.Any()).Return(true).Times(2)

	tr.SetActive(true)
	require.True(t, tr.HandleFix(fixAt(north(0), nil)))
	tr.Resync()
	assert.True(t, tr.HandleFix(fixAt(north(5), nil)))
}

func TestTracker_FailedSendStillAdvancesLastSent(t *testing.T) {
	tr, transmitter := newTestTracker(t)
	transmitter.EXPECT().SendMessage(gomock.Any()).Return(false)

	tr.SetActive(true)
	assert.False(t, tr.HandleFix(fixAt(north(0), nil)))

	last, ok := tr.LastSent()
	require.True(t, ok)
	assert.Equal(t, north(0), last)
}

func TestTracker_SamplingFollowsSpeed(t *testing.T) {
	tr, _ := newTestTracker(t)

	assert.Equal(t, AccuracyBalanced, tr.Config().Accuracy)
	tr.HandleFix(fixAt(north(0), speed(12)))
	assert.Equal(t, AccuracyHigh, tr.Config().Accuracy)
	tr.HandleFix(fixAt(north(0), speed(0.5)))
	assert.Equal(t, 10*time.Second, tr.Config().TimeInterval)
}

type countingTransmitter struct {
	mu    sync.Mutex
	count int
}

func (c *countingTransmitter) SendMessage(models.Envelope) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	return true
}

func (c *countingTransmitter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func TestTracker_RunConsumesUntilClosed(t *testing.T) {
	transmitter := &countingTransmitter{}
	tr := NewTracker(transmitter, Config{DriverID: "d1"})
	tr.SetActive(true)

	fixes := make(chan models.LocationFix)
	done := make(chan struct{})
	go func() {
		tr.Run(context.Background(), fixes)
		close(done)
	}()

	for i := 0; i < 5; i++ {
		fixes <- fixAt(north(float64(i)*300), nil)
	}
	close(fixes)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the channel closed")
	}
	assert.Equal(t, 5, transmitter.Count())
}

func TestTracker_RunStopsOnCancel(t *testing.T) {
	tr := NewTracker(&countingTransmitter{}, Config{DriverID: "d1"})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		tr.Run(ctx, make(chan models.LocationFix))
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
