package route

import (
	"math"

	"github.com/piresc/nebengjek/internal/pkg/geo"
	"github.com/piresc/nebengjek/internal/pkg/models"
)

const maneuverStraight = "straight"

// CurrentStep returns the non-completed step whose end is closest to position.
// Ties go to the earlier step; nil when every step is completed.
func CurrentStep(route *models.Route, position models.Coordinate, completed map[int]bool) *models.RouteStep {
	idx := currentStepIndex(route, position, completed)
	if idx < 0 {
		return nil
	}
	return &route.Steps[idx]
}

func currentStepIndex(route *models.Route, position models.Coordinate, completed map[int]bool) int {
	if route == nil {
		return -1
	}

	best := -1
	bestDistance := math.Inf(1)
	for i := range route.Steps {
		if completed[i] {
			continue
		}
		d := geo.HaversineDistance(position, route.Steps[i].EndCoordinate)
		if d < bestDistance {
			best = i
			bestDistance = d
		}
	}
	return best
}

// NextTurnInstruction scans forward from the current step for the first real maneuver.
// Without one it points at the end of the route.
func NextTurnInstruction(route *models.Route, position models.Coordinate, completed map[int]bool) *models.TurnInstruction {
	current := currentStepIndex(route, position, completed)
	if current < 0 {
		return nil
	}

	for i := current; i < len(route.Steps); i++ {
		step := &route.Steps[i]
		if step.Maneuver != "" && step.Maneuver != maneuverStraight {
			return &models.TurnInstruction{
				Step:           step,
				StepIndex:      i,
				DistanceToTurn: geo.HaversineDistance(position, step.StartCoordinate),
			}
		}
	}

	last := len(route.Steps) - 1
	return &models.TurnInstruction{
		Step:           &route.Steps[last],
		StepIndex:      last,
		DistanceToTurn: geo.HaversineDistance(position, route.Steps[last].EndCoordinate),
	}
}
