package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkuznetsov91/busbooking/internal/domain"
	"github.com/dkuznetsov91/busbooking/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockTripUseCase struct {
	mock.Mock
}

func (m *MockTripUseCase) List(ctx context.Context) ([]domain.Trip, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Trip), args.Error(1)
}

func (m *MockTripUseCase) GetByID(ctx context.Context, id int64) (*domain.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}

func (m *MockTripUseCase) Progress(ctx context.Context, id int64) (*domain.JourneyProgress, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JourneyProgress), args.Error(1)
}

func TestTripHandler_list(t *testing.T) {
	mockService := &MockTripUseCase{}
	handler := NewTripHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/trips", nil)

	trips := []domain.Trip{
		{
			ID:             4,
			RouteFrom:      "Bengaluru",
			RouteTo:        "Chennai",
			TravelDate:     time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
			DepartureTime:  "12:00",
			ScheduleStatus: domain.ScheduleScheduled,
		},
	}
	mockService.On("List", c.Request.Context()).Return(trips, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Bengaluru")
	mockService.AssertExpectations(t)
}

func TestTripHandler_get_InvalidID(t *testing.T) {
	handler := NewTripHandler(&MockTripUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	c.Request = httptest.NewRequest("GET", "/trips/abc", nil)

	handler.get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTripHandler_progress(t *testing.T) {
	mockService := &MockTripUseCase{}
	handler := NewTripHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "4"}}
	c.Request = httptest.NewRequest("GET", "/trips/4/progress", nil)

	progress := &domain.JourneyProgress{
		Phase:            domain.PhaseInProgress,
		Percent:          50,
		RemainingHours:   1,
		RemainingMinutes: 15,
	}
	mockService.On("Progress", c.Request.Context(), int64(4)).Return(progress, nil)

	handler.progress(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "in_progress")
	mockService.AssertExpectations(t)
}

func TestTripHandler_progress_NotFound(t *testing.T) {
	mockService := &MockTripUseCase{}
	handler := NewTripHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	c.Request = httptest.NewRequest("GET", "/trips/9/progress", nil)

	mockService.On("Progress", c.Request.Context(), int64(9)).Return(nil, repository.ErrNotFound)

	handler.progress(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
