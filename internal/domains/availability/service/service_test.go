package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"teesheet/config"
	"teesheet/infras/otel/mocks"
	"teesheet/internal/domains/availability/model/dto"
	"teesheet/internal/domains/availability/service"
	bayMocks "teesheet/internal/domains/bay/mocks"
	bayModel "teesheet/internal/domains/bay/model"
	resMocks "teesheet/internal/domains/reservation/mocks"
	resModel "teesheet/internal/domains/reservation/model"
	cacheMocks "teesheet/shared/cache/mocks"
	"teesheet/shared/failure"
	"teesheet/shared/interval"
)

func reservation(bayID string, startMin, endMin int) resModel.Reservation {
	return resModel.Reservation{
		ID:       "res-" + bayID,
		BayID:    bayID,
		Date:     time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		StartMin: startMin,
		EndMin:   endMin,
		Status:   resModel.StatusConfirmed,
	}
}

func TestAvailabilityService_IsAvailable(t *testing.T) {
	tests := []struct {
		name          string
		req           dto.CheckRequest
		existing      []resModel.Reservation
		wantAvailable bool
		wantErr       func(error) bool
	}{
		{
			name: "empty schedule is available",
			req: dto.CheckRequest{
				BayID:           "bay-1",
				Date:            "2025-01-10",
				StartTime:       "10:00",
				DurationMinutes: 60,
			},
			existing:      []resModel.Reservation{},
			wantAvailable: true,
		},
		{
			name: "overlapping reservation blocks",
			req: dto.CheckRequest{
				BayID:           "bay-1",
				Date:            "2025-01-10",
				StartTime:       "10:30",
				DurationMinutes: 60,
			},
			existing:      []resModel.Reservation{reservation("bay-1", 600, 660)},
			wantAvailable: false,
		},
		{
			name: "back to back is available",
			req: dto.CheckRequest{
				BayID:           "bay-1",
				Date:            "2025-01-10",
				StartTime:       "11:00",
				DurationMinutes: 60,
			},
			existing:      []resModel.Reservation{reservation("bay-1", 600, 660)},
			wantAvailable: true,
		},
		{
			name: "zero duration is rejected",
			req: dto.CheckRequest{
				BayID:           "bay-1",
				Date:            "2025-01-10",
				StartTime:       "10:00",
				DurationMinutes: 0,
			},
			wantErr: failure.IsInvalidInterval,
		},
		{
			name: "interval past midnight is rejected",
			req: dto.CheckRequest{
				BayID:           "bay-1",
				Date:            "2025-01-10",
				StartTime:       "23:30",
				DurationMinutes: 60,
			},
			wantErr: failure.IsInvalidInterval,
		},
		{
			name: "malformed date is rejected",
			req: dto.CheckRequest{
				BayID:           "bay-1",
				Date:            "10-01-2025",
				StartTime:       "10:00",
				DurationMinutes: 60,
			},
			wantErr: func(err error) bool { return err != nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockResRepo := resMocks.NewMockReservation(ctrl)
			mockBayRepo := bayMocks.NewMockBay(ctrl)
			mockCache := cacheMocks.NewMockRedisCache(ctrl)

			if tt.wantErr == nil {
				mockResRepo.EXPECT().
					ListConfirmed(gomock.Any(), tt.req.BayID, gomock.Any(), "").
					Return(tt.existing, nil)
			}

			svc := service.New(mockResRepo, mockBayRepo, &config.Config{}, mockCache, mocks.NewOtel())

			res, err := svc.IsAvailable(context.Background(), tt.req)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.True(t, tt.wantErr(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantAvailable, res.Available)
		})
	}
}

func TestAvailabilityService_IsAvailable_ExcludesOwnReservation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockResRepo := resMocks.NewMockReservation(ctrl)
	mockBayRepo := bayMocks.NewMockBay(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	// The store-level exclusion means the caller's own reservation never
	// comes back in the list.
	mockResRepo.EXPECT().
		ListConfirmed(gomock.Any(), "bay-1", gomock.Any(), "res-self").
		Return([]resModel.Reservation{}, nil)

	svc := service.New(mockResRepo, mockBayRepo, &config.Config{}, mockCache, mocks.NewOtel())

	res, err := svc.IsAvailable(context.Background(), dto.CheckRequest{
		BayID:                "bay-1",
		Date:                 "2025-01-10",
		StartTime:            "10:00",
		DurationMinutes:      30,
		ExcludeReservationID: "res-self",
	})

	assert.NoError(t, err)
	assert.True(t, res.Available)
}

func TestAvailabilityService_CheckAllBays(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockResRepo := resMocks.NewMockReservation(ctrl)
	mockBayRepo := bayMocks.NewMockBay(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockBayRepo.EXPECT().
		ListActive(gomock.Any()).
		Return([]bayModel.Bay{
			{ID: "bay-1", Name: "Bay 1", Active: true},
			{ID: "bay-2", Name: "Bay 2", Active: true},
			{ID: "bay-3", Name: "Bay 3", Active: true},
		}, nil)

	mockResRepo.EXPECT().
		ListConfirmed(gomock.Any(), "bay-1", gomock.Any(), "").
		Return([]resModel.Reservation{reservation("bay-1", 600, 660)}, nil)
	mockResRepo.EXPECT().
		ListConfirmed(gomock.Any(), "bay-2", gomock.Any(), "").
		Return([]resModel.Reservation{}, nil)
	mockResRepo.EXPECT().
		ListConfirmed(gomock.Any(), "bay-3", gomock.Any(), "").
		Return([]resModel.Reservation{reservation("bay-3", 630, 690)}, nil)

	svc := service.New(mockResRepo, mockBayRepo, &config.Config{}, mockCache, mocks.NewOtel())

	res, err := svc.CheckAllBays(context.Background(), dto.CheckAllRequest{
		Date:            "2025-01-10",
		StartTime:       "10:00",
		DurationMinutes: 60,
	})

	assert.NoError(t, err)
	assert.Len(t, res.Bays, 3)
	assert.False(t, res.Bays["bay-1"])
	assert.True(t, res.Bays["bay-2"])
	assert.False(t, res.Bays["bay-3"])
}

func TestAvailabilityService_CheckAllBays_ReadErrorFailsWholeCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockResRepo := resMocks.NewMockReservation(ctrl)
	mockBayRepo := bayMocks.NewMockBay(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockBayRepo.EXPECT().
		ListActive(gomock.Any()).
		Return([]bayModel.Bay{
			{ID: "bay-1", Name: "Bay 1", Active: true},
			{ID: "bay-2", Name: "Bay 2", Active: true},
		}, nil)

	mockResRepo.EXPECT().
		ListConfirmed(gomock.Any(), "bay-1", gomock.Any(), "").
		Return(nil, errors.New("connection reset"))

	svc := service.New(mockResRepo, mockBayRepo, &config.Config{}, mockCache, mocks.NewOtel())

	_, err := svc.CheckAllBays(context.Background(), dto.CheckAllRequest{
		Date:            "2025-01-10",
		StartTime:       "10:00",
		DurationMinutes: 60,
	})

	assert.Error(t, err)
}

func slotsConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Schedule.OpenTime = "10:00"
	cfg.Schedule.CloseTime = "23:00"
	cfg.Schedule.GranularityMinutes = 30
	cfg.Cache.TTL = 60

	return cfg
}

func TestAvailabilityService_GetSlots(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockResRepo := resMocks.NewMockReservation(ctrl)
	mockBayRepo := bayMocks.NewMockBay(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	saved := make(chan struct{}, 1)

	mockCache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss"))
	mockCache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, any, int) error {
			saved <- struct{}{}

			return nil
		})

	// One hour booked from 10:00.
	mockResRepo.EXPECT().
		ListConfirmed(gomock.Any(), "bay-1", gomock.Any(), "").
		Return([]resModel.Reservation{reservation("bay-1", 600, 660)}, nil)

	svc := service.New(mockResRepo, mockBayRepo, slotsConfig(), mockCache, mocks.NewOtel())

	res, err := svc.GetSlots(context.Background(), dto.SlotsRequest{
		BayID:           "bay-1",
		Date:            "2025-01-10",
		DurationMinutes: 60,
		CloseTime:       "12:00",
	})

	assert.NoError(t, err)
	assert.Len(t, res.Slots, 3)

	assert.Equal(t, "10:00", res.Slots[0].StartTime)
	assert.False(t, res.Slots[0].Available)
	assert.Equal(t, "10:30", res.Slots[1].StartTime)
	assert.False(t, res.Slots[1].Available)
	assert.Equal(t, "11:00", res.Slots[2].StartTime)
	assert.Equal(t, "12:00", res.Slots[2].EndTime)
	assert.True(t, res.Slots[2].Available)

	<-saved
}

func TestAvailabilityService_GetSlots_FreeOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockResRepo := resMocks.NewMockReservation(ctrl)
	mockBayRepo := bayMocks.NewMockBay(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	saved := make(chan struct{}, 1)

	mockCache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss"))
	mockCache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, any, int) error {
			saved <- struct{}{}

			return nil
		})

	mockResRepo.EXPECT().
		ListConfirmed(gomock.Any(), "bay-1", gomock.Any(), "").
		Return([]resModel.Reservation{reservation("bay-1", 600, 660)}, nil)

	svc := service.New(mockResRepo, mockBayRepo, slotsConfig(), mockCache, mocks.NewOtel())

	res, err := svc.GetSlots(context.Background(), dto.SlotsRequest{
		BayID:           "bay-1",
		Date:            "2025-01-10",
		DurationMinutes: 60,
		CloseTime:       "12:00",
		FreeOnly:        true,
	})

	assert.NoError(t, err)
	assert.Len(t, res.Slots, 1)
	assert.Equal(t, "11:00", res.Slots[0].StartTime)
	assert.True(t, res.Slots[0].Available)

	<-saved
}

func TestAvailabilityService_GetSlots_DurationLongerThanWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockResRepo := resMocks.NewMockReservation(ctrl)
	mockBayRepo := bayMocks.NewMockBay(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	saved := make(chan struct{}, 1)

	mockCache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss"))
	mockCache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, any, int) error {
			saved <- struct{}{}

			return nil
		})

	mockResRepo.EXPECT().
		ListConfirmed(gomock.Any(), "bay-1", gomock.Any(), "").
		Return([]resModel.Reservation{}, nil)

	svc := service.New(mockResRepo, mockBayRepo, slotsConfig(), mockCache, mocks.NewOtel())

	res, err := svc.GetSlots(context.Background(), dto.SlotsRequest{
		BayID:           "bay-1",
		Date:            "2025-01-10",
		DurationMinutes: 180,
		OpenTime:        "10:00",
		CloseTime:       "12:00",
	})

	assert.NoError(t, err)
	assert.Empty(t, res.Slots)

	<-saved
}

func TestAvailabilityService_GetSlots_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockResRepo := resMocks.NewMockReservation(ctrl)
	mockBayRepo := bayMocks.NewMockBay(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, value any) error {
			res, ok := value.(*dto.SlotsResponse)
			if ok {
				res.BayID = "bay-1"
				res.Slots = []dto.Slot{{StartTime: "10:00", EndTime: "11:00", Available: true}}
			}

			return nil
		})

	svc := service.New(mockResRepo, mockBayRepo, slotsConfig(), mockCache, mocks.NewOtel())

	res, err := svc.GetSlots(context.Background(), dto.SlotsRequest{
		BayID:           "bay-1",
		Date:            "2025-01-10",
		DurationMinutes: 60,
	})

	assert.NoError(t, err)
	assert.Len(t, res.Slots, 1)
}

func TestConflicts(t *testing.T) {
	existing := []resModel.Reservation{
		reservation("bay-1", 600, 660),
		reservation("bay-1", 720, 780),
	}

	assert.True(t, service.Conflicts(existing, interval.Span{Start: 630, End: 690}))
	assert.True(t, service.Conflicts(existing, interval.Span{Start: 590, End: 601}))
	assert.False(t, service.Conflicts(existing, interval.Span{Start: 660, End: 720}))
	assert.False(t, service.Conflicts(nil, interval.Span{Start: 0, End: 1440}))
}

func TestValidateSpan(t *testing.T) {
	span, err := service.ValidateSpan(600, 60)
	assert.NoError(t, err)
	assert.Equal(t, interval.Span{Start: 600, End: 660}, span)

	_, err = service.ValidateSpan(600, 0)
	assert.True(t, failure.IsInvalidInterval(err))

	_, err = service.ValidateSpan(600, -30)
	assert.True(t, failure.IsInvalidInterval(err))

	_, err = service.ValidateSpan(-10, 60)
	assert.True(t, failure.IsInvalidInterval(err))

	_, err = service.ValidateSpan(1410, 60)
	assert.True(t, failure.IsInvalidInterval(err))

	// The full day is a legal span.
	span, err = service.ValidateSpan(0, 1440)
	assert.NoError(t, err)
	assert.Equal(t, 1440, span.End)
}
