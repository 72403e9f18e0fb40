package gateway

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/piresc/nebengjek/internal/pkg/logger"
	"github.com/piresc/nebengjek/internal/pkg/models"
	"github.com/piresc/nebengjek/services/broker"
)

var (
	// ErrQueueFull is returned when an event is dropped because the worker is behind
	ErrQueueFull = errors.New("event sink queue full")
	// ErrSinkClosed is returned for events submitted after Shutdown
	ErrSinkClosed = errors.New("event sink closed")
)

const (
	defaultQueueSize = 1024
	exportTimeout    = 5 * time.Second
)

type sinkJob struct {
	name string
	fn   func(ctx context.Context, sink broker.EventSink) error
}

// AsyncSink fans broker events out to slower sinks on one worker goroutine.
// Submitting never blocks; a full queue drops the event. Events reach each sink in submission order.
type AsyncSink struct {
	sinks []broker.EventSink
	queue chan sinkJob

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewAsyncSink creates a fan-out over sinks. Call Start before submitting.
func NewAsyncSink(queueSize int, sinks ...broker.EventSink) *AsyncSink {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &AsyncSink{
		sinks: sinks,
		queue: make(chan sinkJob, queueSize),
	}
}

var _ broker.EventSink = (*AsyncSink)(nil)

// Start launches the worker
func (a *AsyncSink) Start() {
	a.wg.Add(1)
	go a.work()
}

// Shutdown stops accepting events and waits for the queue to drain
func (a *AsyncSink) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DriverUpdated queues a driver update
func (a *AsyncSink) DriverUpdated(_ context.Context, rec models.DriverRecord) error {
	return a.enqueue(sinkJob{name: "driver_updated", fn: func(ctx context.Context, s broker.EventSink) error {
		return s.DriverUpdated(ctx, rec)
	}})
}

// DriverRemoved queues a driver removal
func (a *AsyncSink) DriverRemoved(_ context.Context, driverID string) error {
	return a.enqueue(sinkJob{name: "driver_removed", fn: func(ctx context.Context, s broker.EventSink) error {
		return s.DriverRemoved(ctx, driverID)
	}})
}

// ActiveRidesChanged queues an active ride snapshot
func (a *AsyncSink) ActiveRidesChanged(_ context.Context, rides []models.RideRecord) error {
	return a.enqueue(sinkJob{name: "active_rides_changed", fn: func(ctx context.Context, s broker.EventSink) error {
		return s.ActiveRidesChanged(ctx, rides)
	}})
}

func (a *AsyncSink) enqueue(job sinkJob) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrSinkClosed
	}
	select {
	case a.queue <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (a *AsyncSink) work() {
	defer a.wg.Done()
	for job := range a.queue {
		for _, sink := range a.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
			if err := job.fn(ctx, sink); err != nil {
				logger.Warn("Failed to export broker event",
					logger.String("event", job.name),
					logger.Err(err))
			}
			cancel()
		}
	}
}
