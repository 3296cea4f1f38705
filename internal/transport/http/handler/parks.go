package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dogli-api/internal/application/checkin"
	"github.com/dogli-api/internal/application/image"
	"github.com/dogli-api/internal/application/park"
	"github.com/dogli-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

// ParkHandler handles the park directory and per-park check-in listings.
type ParkHandler struct {
	svc      park.Service
	checkins checkin.Service
	images   image.Service
}

func NewParkHandler(svc park.Service, checkins checkin.Service, images image.Service) *ParkHandler {
	return &ParkHandler{svc: svc, checkins: checkins, images: images}
}

func (h *ParkHandler) List(w http.ResponseWriter, r *http.Request) {
	parks, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, parks)
}

func (h *ParkHandler) Get(w http.ResponseWriter, r *http.Request) {
	parkID, ok := pathID(w, r, "parkId")
	if !ok {
		return
	}
	p, err := h.svc.Get(r.Context(), parkID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Details resolves a park by its place identifier, importing it from the
// place provider the first time it is seen.
func (h *ParkHandler) Details(w http.ResponseWriter, r *http.Request) {
	placeID := chi.URLParam(r, "placeId")
	if placeID == "" {
		writeError(w, http.StatusBadRequest, "invalid placeId")
		return
	}
	p, err := h.svc.ResolveByPlaceID(r.Context(), placeID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Nearby searches the place provider around ?lat=&lon= with an optional
// ?radius= in meters.
func (h *ParkHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	lat, ok := queryFloat(w, r, "lat")
	if !ok {
		return
	}
	lon, ok := queryFloat(w, r, "lon")
	if !ok {
		return
	}
	var radius float64
	if raw := r.URL.Query().Get("radius"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid radius")
			return
		}
		radius = v
	}
	parks, err := h.svc.Nearby(r.Context(), lat, lon, radius)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, parks)
}

func (h *ParkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.ParkInput
	if !decodeAndValidate(w, r, &in) {
		return
	}
	p, err := h.svc.Create(r.Context(), in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ParkHandler) Update(w http.ResponseWriter, r *http.Request) {
	parkID, ok := pathID(w, r, "parkId")
	if !ok {
		return
	}
	var in domain.ParkInput
	if !decodeAndValidate(w, r, &in) {
		return
	}
	p, err := h.svc.Update(r.Context(), parkID, in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ParkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	parkID, ok := pathID(w, r, "parkId")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), parkID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "park deleted"})
}

func (h *ParkHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	parkID, ok := pathID(w, r, "parkId")
	if !ok {
		return
	}
	current, err := h.svc.Get(r.Context(), parkID)
	if err != nil {
		httpError(w, err)
		return
	}
	url, ok := uploadImage(w, r, h.images, image.KindPark, parkID)
	if !ok {
		return
	}
	p, err := h.svc.SetProfileImage(r.Context(), parkID, url)
	if err != nil {
		discardImage(r.Context(), h.images, url)
		httpError(w, err)
		return
	}
	discardImage(r.Context(), h.images, current.ProfileImageURL)
	writeJSON(w, http.StatusOK, p)
}

func (h *ParkHandler) ActiveCheckIns(w http.ResponseWriter, r *http.Request) {
	h.listCheckIns(w, r, h.checkins.ListActiveByPark)
}

func (h *ParkHandler) HistoricalCheckIns(w http.ResponseWriter, r *http.Request) {
	h.listCheckIns(w, r, h.checkins.ListHistoricalByPark)
}

func (h *ParkHandler) listCheckIns(w http.ResponseWriter, r *http.Request, list func(ctx context.Context, parkID string) ([]domain.CheckIn, error)) {
	parkID, ok := pathID(w, r, "parkId")
	if !ok {
		return
	}
	if _, err := h.svc.Get(r.Context(), parkID); err != nil {
		httpError(w, err)
		return
	}
	checkIns, err := list(r.Context(), parkID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkIns)
}
