package gateway

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/piresc/nebengjek/internal/pkg/constants"
	"github.com/piresc/nebengjek/internal/pkg/database"
	"github.com/piresc/nebengjek/internal/pkg/logger"
	"github.com/piresc/nebengjek/internal/pkg/models"
	"github.com/piresc/nebengjek/services/broker"
)

// DefaultPresenceTTL bounds how long a driver outlives a broker that stopped refreshing it
const DefaultPresenceTTL = 2 * time.Minute

// RedisPresence mirrors the live driver map into Redis for other services.
// It keeps no history: removal deletes the member and its metadata.
// Geo members do not expire on their own; a member is live only while its metadata hash exists,
// which NearbyDrivers enforces by pruning members whose metadata expired.
type RedisPresence struct {
	redisClient *database.RedisClient
	ttl         time.Duration
}

// NewRedisPresence creates a presence mirror
func NewRedisPresence(client *database.RedisClient, ttl time.Duration) *RedisPresence {
	if ttl <= 0 {
		ttl = DefaultPresenceTTL
	}
	return &RedisPresence{redisClient: client, ttl: ttl}
}

var _ broker.EventSink = (*RedisPresence)(nil)

// DriverUpdated adds the driver to the geo set and refreshes its metadata hash
func (g *RedisPresence) DriverUpdated(ctx context.Context, rec models.DriverRecord) error {
	if !rec.IsActive() {
		return g.DriverRemoved(ctx, rec.ID)
	}

	err := g.redisClient.GeoAdd(ctx, constants.KeyDriverLive, rec.Coordinate.Longitude, rec.Coordinate.Latitude, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to store driver presence: %w", err)
	}

	meta := map[string]interface{}{
		constants.FieldStatus:      rec.Status,
		constants.FieldVehicleType: rec.VehicleType,
		constants.FieldGeohash:     rec.Geohash,
		constants.FieldName:        rec.DisplayName,
		constants.FieldTimestamp:   rec.LastUpdatedAt.Unix(),
	}
	if err := g.redisClient.HSetWithTTL(ctx, metaKey(rec.ID), g.ttl, meta); err != nil {
		return fmt.Errorf("failed to store driver metadata: %w", err)
	}
	return nil
}

// DriverRemoved drops the driver from the geo set and deletes its metadata
func (g *RedisPresence) DriverRemoved(ctx context.Context, driverID string) error {
	if err := g.redisClient.GeoRemove(ctx, constants.KeyDriverLive, driverID); err != nil {
		return fmt.Errorf("failed to remove driver presence: %w", err)
	}
	if err := g.redisClient.Delete(ctx, metaKey(driverID)); err != nil {
		return fmt.Errorf("failed to remove driver metadata: %w", err)
	}
	return nil
}

// ActiveRidesChanged is a no-op; rides are not mirrored
func (g *RedisPresence) ActiveRidesChanged(ctx context.Context, rides []models.RideRecord) error {
	return nil
}

func metaKey(driverID string) string {
	return fmt.Sprintf(constants.KeyDriverLiveMeta, driverID)
}

// Reset drops every geo member. A starting broker has no drivers, so whatever a previous process left behind is stale.
func (g *RedisPresence) Reset(ctx context.Context) error {
	if err := g.redisClient.Delete(ctx, constants.KeyDriverLive); err != nil {
		return fmt.Errorf("failed to reset driver presence: %w", err)
	}
	return nil
}

// NearbyDrivers reads the mirror back: live drivers within radiusMeters of center, nearest first
func (g *RedisPresence) NearbyDrivers(ctx context.Context, center models.Coordinate, radiusMeters float64) ([]models.DriverRecord, error) {
	locations, err := g.redisClient.GeoRadius(ctx, constants.KeyDriverLive, center.Longitude, center.Latitude, radiusMeters, "m")
	if err != nil {
		return nil, fmt.Errorf("failed to query driver presence: %w", err)
	}

	drivers := make([]models.DriverRecord, 0, len(locations))
	for _, loc := range locations {
		meta, err := g.redisClient.HGetAll(ctx, metaKey(loc.Name))
		if err != nil {
			return nil, fmt.Errorf("failed to read driver metadata: %w", err)
		}
		if len(meta) == 0 {
			if err := g.redisClient.GeoRemove(ctx, constants.KeyDriverLive, loc.Name); err != nil {
				logger.Warn("Failed to prune stale driver presence", logger.String("driver_id", loc.Name), logger.Err(err))
			}
			continue
		}

		rec := models.DriverRecord{
			ID:          loc.Name,
			Coordinate:  models.Coordinate{Latitude: loc.Latitude, Longitude: loc.Longitude},
			DisplayName: meta[constants.FieldName],
			Status:      meta[constants.FieldStatus],
			VehicleType: meta[constants.FieldVehicleType],
			Geohash:     meta[constants.FieldGeohash],
		}
		if ts, err := strconv.ParseInt(meta[constants.FieldTimestamp], 10, 64); err == nil {
			rec.LastUpdatedAt = time.Unix(ts, 0)
		}
		drivers = append(drivers, rec)
	}
	return drivers, nil
}
