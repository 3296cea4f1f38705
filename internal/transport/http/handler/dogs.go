package handler

import (
	"context"
	"net/http"

	"github.com/dogli-api/internal/application/dog"
	"github.com/dogli-api/internal/application/image"
	"github.com/dogli-api/internal/domain"
)

// DogHandler handles dog profiles and the follow graph between dogs.
type DogHandler struct {
	svc    dog.Service
	images image.Service
}

func NewDogHandler(svc dog.Service, images image.Service) *DogHandler {
	return &DogHandler{svc: svc, images: images}
}

func (h *DogHandler) List(w http.ResponseWriter, r *http.Request) {
	dogs, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dogs)
}

func (h *DogHandler) Mine(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	dogs, err := h.svc.ListByOwner(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dogs)
}

func (h *DogHandler) Get(w http.ResponseWriter, r *http.Request) {
	dogID, ok := pathID(w, r, "dogId")
	if !ok {
		return
	}
	d, err := h.svc.Get(r.Context(), dogID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DogHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	var in domain.DogInput
	if !decodeAndValidate(w, r, &in) {
		return
	}
	d, err := h.svc.Create(r.Context(), claims.UserID, in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *DogHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	dogID, ok := pathID(w, r, "dogId")
	if !ok {
		return
	}
	var in domain.DogInput
	if !decodeAndValidate(w, r, &in) {
		return
	}
	d, err := h.svc.Update(r.Context(), claims.UserID, dogID, in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	dogID, ok := pathID(w, r, "dogId")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), claims.UserID, dogID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "dog deleted"})
}

func (h *DogHandler) Follow(w http.ResponseWriter, r *http.Request) {
	h.follow(w, r, h.svc.Follow, "dog followed")
}

func (h *DogHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	h.follow(w, r, h.svc.Unfollow, "dog unfollowed")
}

func (h *DogHandler) follow(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, ownerID string, req domain.FollowRequest) error, msg string) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	var req domain.FollowRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := op(r.Context(), claims.UserID, req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: msg})
}

func (h *DogHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	dogID, ok := pathID(w, r, "dogId")
	if !ok {
		return
	}
	current, err := h.svc.Get(r.Context(), dogID)
	if err != nil {
		httpError(w, err)
		return
	}
	if current.OwnerID != claims.UserID {
		writeError(w, http.StatusForbidden, "you do not own this dog")
		return
	}
	url, ok := uploadImage(w, r, h.images, image.KindDog, dogID)
	if !ok {
		return
	}
	d, err := h.svc.SetProfileImage(r.Context(), claims.UserID, dogID, url)
	if err != nil {
		discardImage(r.Context(), h.images, url)
		httpError(w, err)
		return
	}
	discardImage(r.Context(), h.images, current.ProfileImageURL)
	writeJSON(w, http.StatusOK, d)
}
