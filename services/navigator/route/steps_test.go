package route

import (
	"testing"

	"github.com/piresc/nebengjek/internal/pkg/geo"
	"github.com/piresc/nebengjek/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pt(lat, lon float64) models.Coordinate {
	return models.Coordinate{Latitude: lat, Longitude: lon}
}

// three steps heading north along a meridian, then a right turn
func sampleRoute() *models.Route {
	return &models.Route{
		Steps: []models.RouteStep{
			{HTMLInstruction: "Head north", StartCoordinate: pt(0, 0), EndCoordinate: pt(0.01, 0)},
			{HTMLInstruction: "Continue", Maneuver: "straight", StartCoordinate: pt(0.01, 0), EndCoordinate: pt(0.02, 0)},
			{HTMLInstruction: "Turn right", Maneuver: "turn-right", StartCoordinate: pt(0.02, 0), EndCoordinate: pt(0.02, 0.01)},
		},
	}
}

func TestCurrentStep(t *testing.T) {
	route := sampleRoute()

	step := CurrentStep(route, pt(0.009, 0), nil)
	require.NotNil(t, step)
	assert.Equal(t, "Head north", step.HTMLInstruction)

	step = CurrentStep(route, pt(0.009, 0), map[int]bool{0: true})
	require.NotNil(t, step)
	assert.Equal(t, "Continue", step.HTMLInstruction)

	assert.Nil(t, CurrentStep(route, pt(0, 0), map[int]bool{0: true, 1: true, 2: true}))
	assert.Nil(t, CurrentStep(nil, pt(0, 0), nil))
	assert.Nil(t, CurrentStep(&models.Route{}, pt(0, 0), nil))
}

func TestCurrentStep_TieGoesToFirst(t *testing.T) {
	route := &models.Route{
		Steps: []models.RouteStep{
			{HTMLInstruction: "a", EndCoordinate: pt(0.01, 0)},
			{HTMLInstruction: "b", EndCoordinate: pt(-0.01, 0)},
		},
	}

	step := CurrentStep(route, pt(0, 0), nil)
	require.NotNil(t, step)
	assert.Equal(t, "a", step.HTMLInstruction)
}

func TestNextTurnInstruction_SkipsStraightSteps(t *testing.T) {
	route := sampleRoute()
	position := pt(0.009, 0)

	turn := NextTurnInstruction(route, position, nil)
	require.NotNil(t, turn)
	assert.Equal(t, 2, turn.StepIndex)
	assert.Equal(t, "turn-right", turn.Step.Maneuver)
	assert.InDelta(t, geo.HaversineDistance(position, pt(0.02, 0)), turn.DistanceToTurn, 1e-9)
}

func TestNextTurnInstruction_FallsBackToDestination(t *testing.T) {
	route := &models.Route{
		Steps: []models.RouteStep{
			{Maneuver: "", StartCoordinate: pt(0, 0), EndCoordinate: pt(0.01, 0)},
			{Maneuver: "straight", StartCoordinate: pt(0.01, 0), EndCoordinate: pt(0.02, 0)},
		},
	}
	position := pt(0.005, 0)

	turn := NextTurnInstruction(route, position, nil)
	require.NotNil(t, turn)
	assert.Equal(t, 1, turn.StepIndex)
	assert.InDelta(t, geo.HaversineDistance(position, pt(0.02, 0)), turn.DistanceToTurn, 1e-9)
}

func TestNextTurnInstruction_NoRemainingSteps(t *testing.T) {
	assert.Nil(t, NextTurnInstruction(sampleRoute(), pt(0, 0), map[int]bool{0: true, 1: true, 2: true}))
}
