package gps

import (
	"context"

	"github.com/piresc/nebengjek/internal/pkg/logger"
	"github.com/piresc/nebengjek/internal/pkg/models"
	"github.com/piresc/nebengjek/services/navigator"
)

// FixHandler feeds device GPS fixes into navigation
type FixHandler struct {
	navigatorUC navigator.NavigatorUC
}

// NewFixHandler creates a new GPS fix handler
func NewFixHandler(navigatorUC navigator.NavigatorUC) *FixHandler {
	return &FixHandler{navigatorUC: navigatorUC}
}

// Run consumes fixes until ctx is done or the channel closes. Fixes are handled one at a time, in order.
func (h *FixHandler) Run(ctx context.Context, fixes <-chan models.LocationFix) {
	lastInstruction := ""
	for {
		select {
		case <-ctx.Done():
			return
		case fix, ok := <-fixes:
			if !ok {
				return
			}

			progress, err := h.navigatorUC.HandleFix(ctx, fix)
			if err != nil {
				logger.Warn("Route recalculation failed", logger.Err(err))
				continue
			}

			switch {
			case progress.Arrived:
				logger.Info("Destination reached", logger.Float64("distance", progress.DistanceToDestination))
				h.navigatorUC.StopNavigation()
				lastInstruction = ""
			case progress.Rerouted:
				logger.Info("Route recalculated", logger.Float64("distance_from_route", progress.DistanceFromRoute))
				lastInstruction = ""
			}

			if progress.NextTurn != nil && progress.NextTurn.Step != nil && progress.NextTurn.Step.HTMLInstruction != lastInstruction {
				lastInstruction = progress.NextTurn.Step.HTMLInstruction
				logger.Info("Next instruction",
					logger.String("instruction", lastInstruction),
					logger.String("maneuver", progress.NextTurn.Step.Maneuver),
					logger.Float64("distance", progress.NextTurn.DistanceToTurn))
			}
		}
	}
}
