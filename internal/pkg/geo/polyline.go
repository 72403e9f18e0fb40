package geo

import (
	"math"
	"strings"

	"github.com/piresc/nebengjek/internal/pkg/models"
)

const polylineFactor = 1e5

// DecodePolyline decodes a Google encoded polyline.
// Malformed input never panics: a trailing value whose chunk sequence is cut short is dropped.
func DecodePolyline(encoded string) []models.Coordinate {
	points := make([]models.Coordinate, 0, len(encoded)/4)

	var lat, lng int64
	index := 0
	for index < len(encoded) {
		dLat, next, ok := decodeValue(encoded, index)
		if !ok {
			break
		}
		dLng, next, ok := decodeValue(encoded, next)
		if !ok {
			break
		}
		index = next

		lat += dLat
		lng += dLng
		points = append(points, models.Coordinate{
			Latitude:  float64(lat) / polylineFactor,
			Longitude: float64(lng) / polylineFactor,
		})
	}

	return points
}

// decodeValue reads one zigzag-encoded varint starting at index
func decodeValue(encoded string, index int) (int64, int, bool) {
	var result int64
	var shift uint
	for {
		if index >= len(encoded) || shift > 60 {
			return 0, index, false
		}
		b := int64(encoded[index]) - 63
		index++
		if b < 0 {
			return 0, index, false
		}
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), index, true
	}
	return result >> 1, index, true
}

// EncodePolyline encodes points as a Google encoded polyline
func EncodePolyline(points []models.Coordinate) string {
	var sb strings.Builder
	var prevLat, prevLng int64
	for _, p := range points {
		lat := int64(math.Round(p.Latitude * polylineFactor))
		lng := int64(math.Round(p.Longitude * polylineFactor))
		encodeValue(&sb, lat-prevLat)
		encodeValue(&sb, lng-prevLng)
		prevLat, prevLng = lat, lng
	}
	return sb.String()
}

func encodeValue(sb *strings.Builder, v int64) {
	u := v << 1
	if v < 0 {
		u = ^u
	}
	for u >= 0x20 {
		sb.WriteByte(byte((0x20 | (u & 0x1f)) + 63))
		u >>= 5
	}
	sb.WriteByte(byte(u + 63))
}
