package handler

import (
	"net/http"

	"github.com/dogli-api/internal/application/review"
	"github.com/dogli-api/internal/domain"
)

// ReviewHandler handles park reviews.
type ReviewHandler struct {
	svc review.Service
}

func NewReviewHandler(svc review.Service) *ReviewHandler { return &ReviewHandler{svc: svc} }

func (h *ReviewHandler) ListByPark(w http.ResponseWriter, r *http.Request) {
	parkID, ok := pathID(w, r, "parkId")
	if !ok {
		return
	}
	reviews, err := h.svc.ListByPark(r.Context(), parkID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := pathID(w, r, "reviewId")
	if !ok {
		return
	}
	rv, err := h.svc.Get(r.Context(), reviewID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rv)
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	var in domain.ReviewInput
	if !decodeAndValidate(w, r, &in) {
		return
	}
	rv, err := h.svc.Create(r.Context(), claims.UserID, in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}
