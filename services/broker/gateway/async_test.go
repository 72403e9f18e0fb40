package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/piresc/nebengjek/internal/pkg/models"
	"github.com/piresc/nebengjek/services/broker/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsyncSink_FansOutInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	first := mocks.NewMockEventSink(ctrl)
	second := mocks.NewMockEventSink(ctrl)
	rec := models.DriverRecord{ID: "d1", Status: "active"}
	rides := []models.RideRecord{{ID: "r1", Status: models.RideStatusAccepted}}

	gomock.InOrder(
		first.EXPECT().DriverUpdated(gomock.Any(), rec).Return(nil),
		first.EXPECT().DriverRemoved(gomock.Any(), "d1").Return(nil),
		first.EXPECT().ActiveRidesChanged(gomock.Any(), rides).Return(nil),
	)
	gomock.InOrder(
		second.EXPECT().DriverUpdated(gomock.Any(), rec).Return(errors.New("redis down")),
		second.EXPECT().DriverRemoved(gomock.Any(), "d1").Return(nil),
		second.EXPECT().ActiveRidesChanged(gomock.Any(), rides).Return(nil),
	)

	sink := NewAsyncSink(8, first, second)
	sink.Start()

	ctx := context.Background()
	require.NoError(t, sink.DriverUpdated(ctx, rec))
	require.NoError(t, sink.DriverRemoved(ctx, "d1"))
	require.NoError(t, sink.ActiveRidesChanged(ctx, rides))

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, sink.Shutdown(shutdownCtx))
}

func TestAsyncSink_DropsWhenFull(t *testing.T) {
	sink := NewAsyncSink(1)

	ctx := context.Background()
	require.NoError(t, sink.DriverRemoved(ctx, "d1"))
	assert.ErrorIs(t, sink.DriverRemoved(ctx, "d2"), ErrQueueFull)
}

func TestAsyncSink_RejectsAfterShutdown(t *testing.T) {
	sink := NewAsyncSink(0)
	sink.Start()

	require.NoError(t, sink.Shutdown(context.Background()))
	require.NoError(t, sink.Shutdown(context.Background()), "shutdown is idempotent")
	assert.ErrorIs(t, sink.DriverUpdated(context.Background(), models.DriverRecord{ID: "d1"}), ErrSinkClosed)
}
