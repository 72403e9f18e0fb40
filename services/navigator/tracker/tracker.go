package tracker

import (
	"context"
	"sync"

	"github.com/piresc/nebengjek/internal/pkg/constants"
	"github.com/piresc/nebengjek/internal/pkg/logger"
	"github.com/piresc/nebengjek/internal/pkg/models"
	"github.com/piresc/nebengjek/services/navigator"
)

// Config identifies the driver this device reports for
type Config struct {
	DriverID      string
	DisplayName   string
	VehicleType   string
	SendThreshold float64
}

// Tracker owns the device position. Every fix updates the current position;
// only fixes that pass the gate while the driver is active reach the broker.
type Tracker struct {
	transmitter navigator.Transmitter
	cfg         Config

	mu        sync.Mutex
	active    bool
	forceNext bool
	current   *models.Coordinate
	lastSent  *models.Coordinate
	sampling  LocationConfig
}

// NewTracker creates an inactive tracker
func NewTracker(transmitter navigator.Transmitter, cfg Config) *Tracker {
	if cfg.SendThreshold <= 0 {
		cfg.SendThreshold = DefaultSendThreshold
	}
	return &Tracker{
		transmitter: transmitter,
		cfg:         cfg,
		sampling:    configDefault,
	}
}

// HandleFix records fix and transmits it when the gate allows. It returns whether a send succeeded.
func (t *Tracker) HandleFix(fix models.LocationFix) bool {
	t.mu.Lock()
	position := fix.Coordinate
	t.current = &position

	if sampling := LocationConfigFor(fix.Speed); sampling != t.sampling {
		logger.Info("Location sampling changed",
			logger.String("accuracy", sampling.Accuracy),
			logger.Duration("interval", sampling.TimeInterval),
			logger.Float64("distance_interval", sampling.DistanceInterval))
		t.sampling = sampling
	}

	if !t.active {
		t.mu.Unlock()
		return false
	}
	if !t.forceNext && !ShouldSendLocationUpdate(t.lastSent, position, t.cfg.SendThreshold) {
		t.mu.Unlock()
		return false
	}
	t.lastSent = &position
	t.forceNext = false
	t.mu.Unlock()

	env, err := models.NewEnvelope(constants.MsgLocationUpdate, models.LocationUpdate{
		DriverID:    t.cfg.DriverID,
		Latitude:    position.Latitude,
		Longitude:   position.Longitude,
		DisplayName: t.cfg.DisplayName,
		Status:      models.DriverStatusActive,
		VehicleType: t.cfg.VehicleType,
	})
	if err != nil {
		logger.Error("Failed to encode location update", logger.Err(err))
		return false
	}
	env.Role = models.RoleDriver
	env.Driver = t.cfg.DriverID

	if !t.transmitter.SendMessage(env) {
		logger.Debug("Location update not sent, socket unavailable", logger.String("driver_id", t.cfg.DriverID))
		return false
	}
	return true
}

// SetActive toggles transmission. Going active sends the next fix regardless of distance;
// going inactive tells the broker to drop the driver.
func (t *Tracker) SetActive(active bool) {
	t.mu.Lock()
	was := t.active
	t.active = active
	if active && !was {
		t.forceNext = true
	}
	t.mu.Unlock()

	if was && !active {
		t.sendStatus(models.DriverStatusInactive)
	}
	logger.Info("Driver availability changed",
		logger.String("driver_id", t.cfg.DriverID),
		logger.Bool("active", active))
}

// Resync makes the next fix bypass the distance gate, e.g. after the broker connection was re-established
func (t *Tracker) Resync() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.forceNext = true
}

// Run feeds fixes into HandleFix until ctx is done or fixes is closed
func (t *Tracker) Run(ctx context.Context, fixes <-chan models.LocationFix) {
	for {
		select {
		case <-ctx.Done():
			return
		case fix, ok := <-fixes:
			if !ok {
				return
			}
			t.HandleFix(fix)
		}
	}
}

// Active reports whether fixes are transmitted
func (t *Tracker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Current returns the latest observed position
func (t *Tracker) Current() (models.Coordinate, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return models.Coordinate{}, false
	}
	return *t.current, true
}

// LastSent returns the last position handed to the transmitter
func (t *Tracker) LastSent() (models.Coordinate, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastSent == nil {
		return models.Coordinate{}, false
	}
	return *t.lastSent, true
}

// Config returns the sampling band chosen for the latest fix
func (t *Tracker) Config() LocationConfig {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sampling
}

func (t *Tracker) sendStatus(status string) {
	env, err := models.NewEnvelope(constants.MsgDriverStatusChange, models.StatusChange{
		DriverID: t.cfg.DriverID,
		Status:   status,
	})
	if err != nil {
		logger.Error("Failed to encode status change", logger.Err(err))
		return
	}
	env.Role = models.RoleDriver
	env.Driver = t.cfg.DriverID

	if !t.transmitter.SendMessage(env) {
		logger.Warn("Status change not sent, socket unavailable",
			logger.String("driver_id", t.cfg.DriverID),
			logger.String("status", status))
	}
}
