package registry

import (
	"time"

	"github.com/piresc/nebengjek/internal/pkg/geo"
	"github.com/piresc/nebengjek/internal/pkg/models"
	"github.com/piresc/nebengjek/services/broker"
)

// DefaultSearchRadius is used when a nearby query passes a non-positive radius
const DefaultSearchRadius = 5000.0

// Connection is one open broker socket. Role stays empty until it can be derived,
// and never changes once set.
type Connection struct {
	ID       string
	Role     string
	DriverID string
	UserID   string
	Peer     broker.Peer

	// Alive is cleared when a ping is sent and set again by the pong
	Alive bool
}

// Registry holds the live state of the broker: drivers, active rides, riders and connections.
// It is not safe for concurrent use; one goroutine owns it.
type Registry struct {
	drivers *orderedMap[models.DriverRecord]
	rides   *orderedMap[models.RideRecord]
	users   map[string]*Connection
	conns   *orderedMap[*Connection]
	now     func() time.Time
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		drivers: newOrderedMap[models.DriverRecord](),
		rides:   newOrderedMap[models.RideRecord](),
		users:   make(map[string]*Connection),
		conns:   newOrderedMap[*Connection](),
		now:     time.Now,
	}
}

// UpsertDriver replaces the record stored under rec.ID and returns the stored copy
// with its geohash and update time stamped
func (r *Registry) UpsertDriver(rec models.DriverRecord) models.DriverRecord {
	rec.Geohash = geo.Geohash(rec.Coordinate)
	rec.LastUpdatedAt = r.now()
	r.drivers.Set(rec.ID, rec)
	return rec
}

// RemoveDriver deletes a driver, reporting whether it was present
func (r *Registry) RemoveDriver(driverID string) bool {
	return r.drivers.Delete(driverID)
}

// DriverState returns the tagged state of a driver id
func (r *Registry) DriverState(driverID string) models.DriverState {
	rec, ok := r.drivers.Get(driverID)
	if !ok {
		return models.DriverState{Kind: models.DriverAbsent}
	}
	kind := models.DriverInactive
	if rec.IsActive() {
		kind = models.DriverActive
	}
	return models.DriverState{Kind: kind, Record: &rec}
}

// Drivers returns every stored driver in insertion order
func (r *Registry) Drivers() []models.DriverRecord {
	return r.drivers.Values()
}

// ApplyRideStatus stores the ride when its status is active and deletes it otherwise.
// It reports whether the active set changed.
func (r *Registry) ApplyRideStatus(ride models.RideRecord) bool {
	if models.IsActiveRideStatus(ride.Status) {
		ride.UpdatedAt = r.now()
		r.rides.Set(ride.ID, ride)
		return true
	}
	return r.rides.Delete(ride.ID)
}

// ActiveRides returns the active rides in insertion order
func (r *Registry) ActiveRides() []models.RideRecord {
	return r.rides.Values()
}

// RegisterUser points userID at conn, replacing any previous connection
func (r *Registry) RegisterUser(userID string, conn *Connection) {
	r.users[userID] = conn
}

// UnregisterUser removes the mapping only while it still points at conn
func (r *Registry) UnregisterUser(userID string, conn *Connection) bool {
	if current, ok := r.users[userID]; ok && current == conn {
		delete(r.users, userID)
		return true
	}
	return false
}

// UserConnection returns the connection registered for userID
func (r *Registry) UserConnection(userID string) (*Connection, bool) {
	conn, ok := r.users[userID]
	return conn, ok
}

// AddConnection tracks an open connection
func (r *Registry) AddConnection(conn *Connection) {
	r.conns.Set(conn.ID, conn)
}

// RemoveConnection stops tracking a connection, reporting whether it was tracked
func (r *Registry) RemoveConnection(connID string) bool {
	return r.conns.Delete(connID)
}

// Connection looks up an open connection by id
func (r *Registry) Connection(connID string) (*Connection, bool) {
	return r.conns.Get(connID)
}

// Connections returns every open connection in the order they were opened
func (r *Registry) Connections() []*Connection {
	return r.conns.Values()
}

// Admins returns the open admin connections
func (r *Registry) Admins() []*Connection {
	var admins []*Connection
	for _, conn := range r.conns.Values() {
		if conn.Role == models.RoleAdmin {
			admins = append(admins, conn)
		}
	}
	return admins
}

// Stats summarizes the registry
func (r *Registry) Stats() models.BrokerStats {
	return models.BrokerStats{
		Connections: r.conns.Len(),
		Drivers:     r.drivers.Len(),
		ActiveRides: r.rides.Len(),
		Riders:      len(r.users),
		Admins:      len(r.Admins()),
	}
}

// FindNearbyDrivers returns active drivers within radius meters of the point, in insertion order.
// A non-positive radius means DefaultSearchRadius.
func (r *Registry) FindNearbyDrivers(lat, lon, radius float64) []models.DriverRecord {
	if radius <= 0 {
		radius = DefaultSearchRadius
	}
	origin := models.Coordinate{Latitude: lat, Longitude: lon}

	nearby := make([]models.DriverRecord, 0)
	for _, rec := range r.drivers.Values() {
		if !rec.IsActive() {
			continue
		}
		if geo.HaversineDistance(origin, rec.Coordinate) <= radius {
			nearby = append(nearby, rec)
		}
	}
	return nearby
}
