package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dogli-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockParkSvc struct{ mock.Mock }

func (m *mockParkSvc) List(ctx context.Context) ([]domain.Park, error) {
	args := m.Called(ctx)
	parks, _ := args.Get(0).([]domain.Park)
	return parks, args.Error(1)
}

func (m *mockParkSvc) Get(ctx context.Context, id string) (*domain.Park, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*domain.Park)
	return p, args.Error(1)
}

func (m *mockParkSvc) ResolveByPlaceID(ctx context.Context, placeID string) (*domain.Park, error) {
	args := m.Called(ctx, placeID)
	p, _ := args.Get(0).(*domain.Park)
	return p, args.Error(1)
}

func (m *mockParkSvc) Nearby(ctx context.Context, lat, lon, radius float64) ([]domain.Park, error) {
	args := m.Called(ctx, lat, lon, radius)
	parks, _ := args.Get(0).([]domain.Park)
	return parks, args.Error(1)
}

func (m *mockParkSvc) Create(ctx context.Context, in domain.ParkInput) (*domain.Park, error) {
	args := m.Called(ctx, in)
	p, _ := args.Get(0).(*domain.Park)
	return p, args.Error(1)
}

func (m *mockParkSvc) Update(ctx context.Context, id string, in domain.ParkInput) (*domain.Park, error) {
	args := m.Called(ctx, id, in)
	p, _ := args.Get(0).(*domain.Park)
	return p, args.Error(1)
}

func (m *mockParkSvc) UpdateRating(ctx context.Context, id string, rating float64) error {
	return m.Called(ctx, id, rating).Error(0)
}

func (m *mockParkSvc) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockParkSvc) SetProfileImage(ctx context.Context, id, url string) (*domain.Park, error) {
	args := m.Called(ctx, id, url)
	p, _ := args.Get(0).(*domain.Park)
	return p, args.Error(1)
}

func newParkHandler(parks *mockParkSvc, checkins *mockCheckInSvc) *ParkHandler {
	return NewParkHandler(parks, checkins, &mockImageSvc{})
}

func TestParkDetails_ResolvesPlace(t *testing.T) {
	parks := &mockParkSvc{}
	parks.On("ResolveByPlaceID", mock.Anything, "ChIJplace").Return(&domain.Park{ParkID: parkID, PlaceID: "ChIJplace"}, nil)
	h := newParkHandler(parks, &mockCheckInSvc{})
	r := withParams(httptest.NewRequest(http.MethodGet, "/v1/parks/details/ChIJplace", nil), "placeId", "ChIJplace")
	rr := httptest.NewRecorder()
	h.Details(rr, r)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, parkID, decodeBody[domain.Park](t, rr).ParkID)
}

func TestParkDetails_UnknownPlace(t *testing.T) {
	parks := &mockParkSvc{}
	parks.On("ResolveByPlaceID", mock.Anything, "ChIJmissing").Return(nil, domain.ErrNotFound)
	h := newParkHandler(parks, &mockCheckInSvc{})
	r := withParams(httptest.NewRequest(http.MethodGet, "/v1/parks/details/ChIJmissing", nil), "placeId", "ChIJmissing")
	rr := httptest.NewRecorder()
	h.Details(rr, r)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestParkNearby_ParsesQuery(t *testing.T) {
	parks := &mockParkSvc{}
	parks.On("Nearby", mock.Anything, 32.0, 34.78, 1500.0).Return([]domain.Park{{ParkID: parkID}}, nil)
	h := newParkHandler(parks, &mockCheckInSvc{})
	rr := httptest.NewRecorder()
	h.Nearby(rr, httptest.NewRequest(http.MethodGet, "/v1/parks/nearby?lat=32&lon=34.78&radius=1500", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	parks.AssertExpectations(t)
}

func TestParkNearby_DefaultRadiusAndUnavailableProvider(t *testing.T) {
	parks := &mockParkSvc{}
	parks.On("Nearby", mock.Anything, 32.0, 34.78, 0.0).Return(nil, domain.ErrUnavailable)
	h := newParkHandler(parks, &mockCheckInSvc{})
	rr := httptest.NewRecorder()
	h.Nearby(rr, httptest.NewRequest(http.MethodGet, "/v1/parks/nearby?lat=32&lon=34.78", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestParkNearby_BadLatitude(t *testing.T) {
	h := newParkHandler(&mockParkSvc{}, &mockCheckInSvc{})
	rr := httptest.NewRecorder()
	h.Nearby(rr, httptest.NewRequest(http.MethodGet, "/v1/parks/nearby?lat=north&lon=34.78", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestParkCreate_DuplicatePlace(t *testing.T) {
	parks := &mockParkSvc{}
	in := domain.ParkInput{Name: "Meir Park", PlaceID: "ChIJmeir", Latitude: 32.07, Longitude: 34.77}
	parks.On("Create", mock.Anything, in).Return(nil, domain.ErrConflict)
	h := newParkHandler(parks, &mockCheckInSvc{})
	rr := httptest.NewRecorder()
	h.Create(rr, jsonReq(t, http.MethodPost, "/v1/parks", in))
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestParkActiveCheckIns(t *testing.T) {
	parks := &mockParkSvc{}
	checkins := &mockCheckInSvc{}
	parks.On("Get", mock.Anything, parkID).Return(&domain.Park{ParkID: parkID}, nil)
	checkins.On("ListActiveByPark", mock.Anything, parkID).Return([]domain.CheckIn{{ParkID: parkID, IsActive: true}}, nil)
	h := newParkHandler(parks, checkins)

	r := withParams(httptest.NewRequest(http.MethodGet, "/v1/parks/"+parkID+"/active-checkins", nil), "parkId", parkID)
	rr := httptest.NewRecorder()
	h.ActiveCheckIns(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	got := decodeBody[[]domain.CheckIn](t, rr)
	assert.Len(t, got, 1)
	assert.True(t, got[0].IsActive)
}

func TestParkHistoricalCheckIns_UnknownPark(t *testing.T) {
	parks := &mockParkSvc{}
	checkins := &mockCheckInSvc{}
	parks.On("Get", mock.Anything, parkID).Return(nil, domain.ErrNotFound)
	h := newParkHandler(parks, checkins)

	r := withParams(httptest.NewRequest(http.MethodGet, "/v1/parks/"+parkID+"/historical-checkins", nil), "parkId", parkID)
	rr := httptest.NewRecorder()
	h.HistoricalCheckIns(rr, r)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	checkins.AssertNotCalled(t, "ListHistoricalByPark", mock.Anything, mock.Anything)
}
