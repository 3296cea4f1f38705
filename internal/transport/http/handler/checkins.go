package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dogli-api/internal/application/checkin"
	"github.com/dogli-api/internal/domain"
)

// CheckInHandler exposes the check-in lifecycle.
type CheckInHandler struct {
	svc checkin.Service
}

func NewCheckInHandler(svc checkin.Service) *CheckInHandler { return &CheckInHandler{svc: svc} }

func (h *CheckInHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	var req domain.CheckInRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	c, res, err := h.svc.CheckIn(r.Context(), claims.UserID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	switch res {
	case checkin.CheckInSuccess:
		writeJSON(w, http.StatusCreated, CheckInEnvelope{Result: res.String(), Message: "checked in", CheckIn: c})
	case checkin.CheckInParkNotFound:
		writeJSON(w, http.StatusNotFound, CheckInEnvelope{Result: res.String(), Message: "park not found"})
	case checkin.CheckInDogNotOwnedByUser:
		writeJSON(w, http.StatusBadRequest, CheckInEnvelope{Result: res.String(), Message: "you do not own this dog"})
	case checkin.CheckInDistanceTooFar:
		msg := fmt.Sprintf("you are not within %.0f meters of the park", h.svc.Radius())
		writeJSON(w, http.StatusBadRequest, CheckInEnvelope{Result: res.String(), Message: msg})
	default:
		writeError(w, http.StatusInternalServerError, "unexpected check-in result")
	}
}

// CheckOut closes a check-in owned by the caller. Closing an already
// inactive check-in succeeds again.
func (h *CheckInHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	checkInID, ok := pathID(w, r, "checkInId")
	if !ok {
		return
	}
	notFound := CheckInEnvelope{Result: checkin.CheckOutNotFound.String(), Message: "check-in not found"}
	existing, err := h.svc.Get(r.Context(), checkInID)
	if errors.Is(err, domain.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, notFound)
		return
	}
	if err != nil {
		httpError(w, err)
		return
	}
	if existing.UserID != claims.UserID {
		writeError(w, http.StatusForbidden, "check-in belongs to another user")
		return
	}
	res, err := h.svc.CheckOut(r.Context(), checkInID)
	if err != nil {
		httpError(w, err)
		return
	}
	if res == checkin.CheckOutNotFound {
		writeJSON(w, http.StatusNotFound, notFound)
		return
	}
	writeJSON(w, http.StatusOK, CheckInEnvelope{Result: res.String(), Message: "checked out"})
}

// ListByUser returns every check-in of the path user. Users can only list
// their own history.
func (h *CheckInHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	if userID != claims.UserID {
		writeError(w, http.StatusForbidden, "cannot list another user's check-ins")
		return
	}
	checkIns, err := h.svc.ListByUser(r.Context(), userID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkIns)
}
