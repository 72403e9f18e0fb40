package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/piresc/nebengjek/internal/pkg/constants"
	"github.com/piresc/nebengjek/internal/pkg/logger"
	"github.com/piresc/nebengjek/internal/pkg/models"
	"github.com/piresc/nebengjek/services/broker/registry"
)

// dispatch decodes one frame and routes it by message type
func (h *Hub) dispatch(conn *registry.Connection, data []byte) {
	var env models.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		logger.Warn("Ignoring malformed frame",
			logger.String("conn_id", conn.ID),
			logger.Int("size", len(data)),
			logger.Err(err))
		return
	}

	switch env.Type {
	case constants.MsgLocationUpdate:
		h.handleLocationUpdate(conn, env)
	case constants.MsgDriverStatusChange:
		h.handleDriverStatusChange(conn, env)
	case constants.MsgRequestRide:
		h.handleRequestRide(conn, env)
	case constants.MsgRegisterUser:
		h.handleRegisterUser(conn, env)
	case constants.MsgRideStatusUpdate:
		h.handleRideStatusUpdate(conn, env)
	default:
		h.sendError(conn, constants.ErrorUnknownType, fmt.Sprintf("unknown message type: %q", env.Type))
	}
}

// bindRole derives the connection role from its first typed message.
// A role that was already set, or a conflicting envelope role, is a mismatch.
func (h *Hub) bindRole(conn *registry.Connection, env models.Envelope, want string) bool {
	if env.Role != "" && env.Role != want {
		h.sendError(conn, constants.ErrorRoleMismatch,
			fmt.Sprintf("%s requires role %s, got %s", env.Type, want, env.Role))
		return false
	}
	if conn.Role == "" {
		conn.Role = want
		logger.Debug("Connection role derived",
			logger.String("conn_id", conn.ID),
			logger.String("role", want))
		return true
	}
	if conn.Role != want {
		h.sendError(conn, constants.ErrorRoleMismatch,
			fmt.Sprintf("%s is not allowed for role %s", env.Type, conn.Role))
		return false
	}
	return true
}

func (h *Hub) handleLocationUpdate(conn *registry.Connection, env models.Envelope) {
	var upd models.LocationUpdate
	if err := decodeData(env, &upd); err != nil {
		h.sendError(conn, constants.ErrorInvalidFormat, err.Error())
		return
	}
	if upd.DriverID == "" {
		upd.DriverID = env.Driver
	}
	if upd.DriverID == "" {
		h.sendError(conn, constants.ErrorInvalidFormat, "driverId is required")
		return
	}
	if !h.bindRole(conn, env, models.RoleDriver) {
		return
	}
	if conn.DriverID != "" && conn.DriverID != upd.DriverID {
		h.sendError(conn, constants.ErrorRoleMismatch,
			fmt.Sprintf("connection is bound to driver %s", conn.DriverID))
		return
	}
	if !upd.Coordinate().Valid() {
		h.sendError(conn, constants.ErrorInvalidLocation, "latitude or longitude out of range")
		return
	}

	status := upd.Status
	if status == "" {
		status = models.DriverStatusActive
	}
	rec := h.reg.UpsertDriver(models.DriverRecord{
		ID:          upd.DriverID,
		Coordinate:  upd.Coordinate(),
		DisplayName: upd.DisplayName,
		Status:      status,
		VehicleType: upd.VehicleType,
	})
	conn.DriverID = rec.ID

	out, err := models.NewEnvelope(constants.MsgDriverLocationUpdate, rec)
	if err != nil {
		logger.Error("Failed to encode driver location", logger.Err(err))
		return
	}
	out.Driver = rec.ID
	h.broadcastAdmins(out)
	h.export(func(ctx context.Context) error { return h.sink.DriverUpdated(ctx, rec) })
}

func (h *Hub) handleDriverStatusChange(conn *registry.Connection, env models.Envelope) {
	var change models.StatusChange
	if err := decodeData(env, &change); err != nil {
		h.sendError(conn, constants.ErrorInvalidFormat, err.Error())
		return
	}

	driverID := change.DriverID
	if driverID == "" {
		driverID = conn.DriverID
	}
	if driverID == "" {
		driverID = env.Driver
	}
	if driverID == "" {
		h.sendError(conn, constants.ErrorInvalidFormat, "driverId is required")
		return
	}
	if !h.bindRole(conn, env, models.RoleDriver) {
		return
	}
	if conn.DriverID != "" && conn.DriverID != driverID {
		h.sendError(conn, constants.ErrorRoleMismatch,
			fmt.Sprintf("connection is bound to driver %s", conn.DriverID))
		return
	}

	switch strings.ToLower(change.Status) {
	case models.DriverStatusInactive:
		conn.DriverID = driverID
		if h.reg.RemoveDriver(driverID) {
			h.driverRemoved(driverID)
		}
		logger.Info("Driver went inactive", logger.String("driver_id", driverID))
	case models.DriverStatusActive:
		// the next location update puts the driver back on the map
		conn.DriverID = driverID
	default:
		h.sendError(conn, constants.ErrorInvalidFormat, fmt.Sprintf("unknown driver status: %q", change.Status))
	}
}

func (h *Hub) handleRequestRide(conn *registry.Connection, env models.Envelope) {
	var req models.NearbyRequest
	if err := decodeData(env, &req); err != nil {
		h.sendError(conn, constants.ErrorInvalidFormat, err.Error())
		return
	}
	if !h.bindRole(conn, env, models.RoleRider) {
		return
	}
	if env.UserID != "" {
		h.registerRider(conn, env.UserID)
	}

	origin := models.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude}
	if !origin.Valid() {
		h.sendError(conn, constants.ErrorInvalidLocation, "latitude or longitude out of range")
		return
	}

	radius := req.Radius
	if radius <= 0 {
		radius = h.cfg.SearchRadiusMeters
	}
	drivers := h.reg.FindNearbyDrivers(origin.Latitude, origin.Longitude, radius)

	out, err := models.NewEnvelope(constants.MsgNearbyDrivers, drivers)
	if err != nil {
		logger.Error("Failed to encode nearby drivers", logger.Err(err))
		return
	}
	out.UserID = conn.UserID
	h.send(conn, out)

	logger.Debug("Nearby drivers served",
		logger.String("conn_id", conn.ID),
		logger.Float64("radius", radius),
		logger.Int("count", len(drivers)))
}

func (h *Hub) handleRegisterUser(conn *registry.Connection, env models.Envelope) {
	if env.UserID == "" {
		h.sendError(conn, constants.ErrorInvalidFormat, "userId is required")
		return
	}
	if !h.bindRole(conn, env, models.RoleRider) {
		return
	}
	h.registerRider(conn, env.UserID)

	h.send(conn, models.Envelope{Type: constants.MsgRegistered, UserID: env.UserID})
}

// registerRider points userID at conn, dropping the connection's previous identity
func (h *Hub) registerRider(conn *registry.Connection, userID string) {
	if conn.UserID != "" && conn.UserID != userID {
		h.reg.UnregisterUser(conn.UserID, conn)
	}
	conn.UserID = userID
	h.reg.RegisterUser(userID, conn)
}

func (h *Hub) handleRideStatusUpdate(conn *registry.Connection, env models.Envelope) {
	var ride models.RideRecord
	if err := decodeData(env, &ride); err != nil {
		h.sendError(conn, constants.ErrorInvalidFormat, err.Error())
		return
	}
	if ride.ID == "" {
		ride.ID = env.RideID
	}
	if ride.ID == "" {
		h.sendError(conn, constants.ErrorInvalidFormat, "ride id is required")
		return
	}
	h.applyRide(ride)
}

func (h *Hub) sendError(conn *registry.Connection, code, message string) {
	logger.Warn("Rejected client message",
		logger.String("conn_id", conn.ID),
		logger.String("error_code", code),
		logger.String("message", message))

	env, err := models.NewEnvelope(constants.MsgError, models.WSErrorMessage{Code: code, Message: message})
	if err != nil {
		return
	}
	env.Message = message
	h.send(conn, env)
}

func decodeData(env models.Envelope, v interface{}) error {
	if len(env.Data) == 0 {
		return fmt.Errorf("%s requires data", env.Type)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("invalid %s data: %w", env.Type, err)
	}
	return nil
}
