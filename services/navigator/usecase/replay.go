package usecase

import (
	"context"
	"time"

	"github.com/piresc/nebengjek/internal/pkg/geo"
	"github.com/piresc/nebengjek/internal/pkg/models"
)

// ReplayPolyline emits one fix per decoded polyline vertex every interval, as a GPS source for
// simulated drivers. The channel closes after the last vertex or when ctx is done.
func ReplayPolyline(ctx context.Context, encoded string, interval time.Duration, speed float64) <-chan models.LocationFix {
	if interval <= 0 {
		interval = time.Second
	}
	points := geo.DecodePolyline(encoded)
	fixes := make(chan models.LocationFix)

	go func() {
		defer close(fixes)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for i, p := range points {
			if i > 0 {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
			}

			v := speed
			fix := models.LocationFix{Coordinate: p, Speed: &v, Timestamp: time.Now()}
			select {
			case <-ctx.Done():
				return
			case fixes <- fix:
			}
		}
	}()
	return fixes
}
