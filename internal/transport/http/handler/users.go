package handler

import (
	"net/http"

	"github.com/dogli-api/internal/application/image"
	"github.com/dogli-api/internal/application/user"
	"github.com/dogli-api/internal/domain"
)

// UserHandler handles registration, login and the caller's own profile.
type UserHandler struct {
	svc    user.Service
	images image.Service
}

func NewUserHandler(svc user.Service, images image.Service) *UserHandler {
	return &UserHandler{svc: svc, images: images}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	u, err := h.svc.Register(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	bearer, u, err := h.svc.Login(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{Bearer: bearer, User: u})
}

func (h *UserHandler) Usernames(w http.ResponseWriter, r *http.Request) {
	names, err := h.svc.ListUsernames(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	u, err := h.svc.Get(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	var req domain.UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	u, err := h.svc.UpdateProfile(r.Context(), claims.UserID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	current, err := h.svc.Get(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	url, ok := uploadImage(w, r, h.images, image.KindUser, claims.UserID)
	if !ok {
		return
	}
	u, err := h.svc.SetProfileImage(r.Context(), claims.UserID, url)
	if err != nil {
		discardImage(r.Context(), h.images, url)
		httpError(w, err)
		return
	}
	discardImage(r.Context(), h.images, current.ProfileImageURL)
	writeJSON(w, http.StatusOK, u)
}
