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

type mockReviewSvc struct{ mock.Mock }

func (m *mockReviewSvc) ListByPark(ctx context.Context, id string) ([]domain.Review, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).([]domain.Review)
	return out, args.Error(1)
}

func (m *mockReviewSvc) Get(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	rv, _ := args.Get(0).(*domain.Review)
	return rv, args.Error(1)
}

func (m *mockReviewSvc) Create(ctx context.Context, uid string, in domain.ReviewInput) (*domain.Review, error) {
	args := m.Called(ctx, uid, in)
	rv, _ := args.Get(0).(*domain.Review)
	return rv, args.Error(1)
}

func TestReviewCreate_RatingOutOfRange(t *testing.T) {
	h := NewReviewHandler(&mockReviewSvc{})
	in := domain.ReviewInput{ParkPlaceID: "ChIJpark", Rating: 6}
	rr := httptest.NewRecorder()
	h.Create(rr, asUser(jsonReq(t, http.MethodPost, "/v1/reviews", in), userID))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestReviewCreate_HappyPath(t *testing.T) {
	svc := &mockReviewSvc{}
	in := domain.ReviewInput{ParkPlaceID: "ChIJpark", Rating: 4, Title: "Shady"}
	svc.On("Create", mock.Anything, userID, in).Return(&domain.Review{ReviewID: "r1", UserID: userID, ParkID: parkID, Rating: 4}, nil)
	h := NewReviewHandler(svc)
	rr := httptest.NewRecorder()
	h.Create(rr, asUser(jsonReq(t, http.MethodPost, "/v1/reviews", in), userID))
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, 4, decodeBody[domain.Review](t, rr).Rating)
}

func TestReviewListByPark_UnknownPark(t *testing.T) {
	svc := &mockReviewSvc{}
	svc.On("ListByPark", mock.Anything, parkID).Return(nil, domain.ErrNotFound)
	h := NewReviewHandler(svc)
	r := withParams(httptest.NewRequest(http.MethodGet, "/v1/reviews/park/"+parkID, nil), "parkId", parkID)
	rr := httptest.NewRecorder()
	h.ListByPark(rr, r)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReviewGet(t *testing.T) {
	reviewID := otherID
	svc := &mockReviewSvc{}
	svc.On("Get", mock.Anything, reviewID).Return(&domain.Review{ReviewID: reviewID}, nil)
	h := NewReviewHandler(svc)
	r := withParams(httptest.NewRequest(http.MethodGet, "/v1/reviews/"+reviewID, nil), "reviewId", reviewID)
	rr := httptest.NewRecorder()
	h.Get(rr, r)
	assert.Equal(t, http.StatusOK, rr.Code)
}
