package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"teesheet/internal/domains/availability/service"
	resModel "teesheet/internal/domains/reservation/model"
	"teesheet/shared/bus"
	cacheMocks "teesheet/shared/cache/mocks"
)

func TestCacheInvalidator_DropsAffectedSlice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cleared := make(chan string, 1)

	mockCache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, prefix string) error {
			cleared <- prefix

			return nil
		})

	changeBus := bus.New[resModel.ChangeEvent]()
	defer changeBus.Close()

	invalidator := service.NewCacheInvalidator(changeBus, mockCache)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})

	go func() {
		invalidator.Run(ctx)
		close(done)
	}()

	// Give the subscriber a moment to register before publishing.
	time.Sleep(10 * time.Millisecond)

	changeBus.Publish(resModel.ChangeEvent{
		ReservationID: "res-1",
		BayID:         "bay-1",
		Date:          "2025-01-10",
		Action:        resModel.ActionCreated,
	})

	select {
	case prefix := <-cleared:
		assert.Equal(t, "availability:slots:bay-1:2025-01-10*", prefix)
	case <-time.After(time.Second):
		t.Fatal("cache was never cleared")
	}

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("invalidator did not stop on context cancellation")
	}
}
