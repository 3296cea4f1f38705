package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dogli-api/internal/application/image"
	"github.com/dogli-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- mock ---

type mockUserSvc struct{ mock.Mock }

func (m *mockUserSvc) Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserSvc) Login(ctx context.Context, req domain.LoginRequest) (string, *domain.User, error) {
	args := m.Called(ctx, req)
	u, _ := args.Get(1).(*domain.User)
	return args.String(0), u, args.Error(2)
}

func (m *mockUserSvc) ListUsernames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

func (m *mockUserSvc) Get(ctx context.Context, uid string) (*domain.User, error) {
	args := m.Called(ctx, uid)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserSvc) UpdateProfile(ctx context.Context, uid string, req domain.UpdateProfileRequest) (*domain.User, error) {
	args := m.Called(ctx, uid, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserSvc) SetProfileImage(ctx context.Context, uid, url string) (*domain.User, error) {
	args := m.Called(ctx, uid, url)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- Register tests ---

func TestRegister_InvalidBody(t *testing.T) {
	h := NewUserHandler(&mockUserSvc{}, &mockImageSvc{})
	r := httptest.NewRequest(http.MethodPost, "/v1/users/register", bytes.NewBufferString("not-json"))
	rr := httptest.NewRecorder()
	h.Register(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegister_ValidationFailure(t *testing.T) {
	h := NewUserHandler(&mockUserSvc{}, &mockImageSvc{})
	r := jsonReq(t, http.MethodPost, "/v1/users/register", domain.CreateUserRequest{
		Username: "dana", Email: "dana@example.com", Password: "nocapital1",
	})
	rr := httptest.NewRecorder()
	h.Register(rr, r)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "password")
}

func TestRegister_ServiceConflict(t *testing.T) {
	svc := &mockUserSvc{}
	svc.On("Register", mock.Anything, mock.Anything).Return(nil, domain.ErrConflict)
	h := NewUserHandler(svc, &mockImageSvc{})
	r := jsonReq(t, http.MethodPost, "/v1/users/register", domain.CreateUserRequest{
		Username: "dana", Email: "dana@example.com", Password: "Secret123",
	})
	rr := httptest.NewRecorder()
	h.Register(rr, r)
	assert.Equal(t, http.StatusConflict, rr.Code)
	svc.AssertExpectations(t)
}

func TestRegister_HappyPath(t *testing.T) {
	svc := &mockUserSvc{}
	svc.On("Register", mock.Anything, mock.Anything).Return(&domain.User{UserID: userID, Username: "dana", PasswordHash: "hash"}, nil)
	h := NewUserHandler(svc, &mockImageSvc{})
	r := jsonReq(t, http.MethodPost, "/v1/users/register", domain.CreateUserRequest{
		Username: "dana", Email: "dana@example.com", Password: "Secret123",
	})
	rr := httptest.NewRecorder()
	h.Register(rr, r)
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.NotContains(t, rr.Body.String(), "hash")
	resp := decodeBody[domain.User](t, rr)
	assert.Equal(t, "dana", resp.Username)
	svc.AssertExpectations(t)
}

// --- Login tests ---

func TestLogin_BadCredentials(t *testing.T) {
	svc := &mockUserSvc{}
	svc.On("Login", mock.Anything, mock.Anything).Return("", nil, domain.ErrUnauthorized)
	h := NewUserHandler(svc, &mockImageSvc{})
	r := jsonReq(t, http.MethodPost, "/v1/users/login", domain.LoginRequest{Email: "dana@example.com", Password: "wrong"})
	rr := httptest.NewRecorder()
	h.Login(rr, r)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogin_ReturnsBearer(t *testing.T) {
	svc := &mockUserSvc{}
	svc.On("Login", mock.Anything, domain.LoginRequest{Email: "dana@example.com", Password: "Secret123"}).
		Return("signed-token", &domain.User{UserID: userID, Username: "dana"}, nil)
	h := NewUserHandler(svc, &mockImageSvc{})
	r := jsonReq(t, http.MethodPost, "/v1/users/login", domain.LoginRequest{Email: "dana@example.com", Password: "Secret123"})
	rr := httptest.NewRecorder()
	h.Login(rr, r)
	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decodeBody[AuthEnvelope](t, rr)
	assert.Equal(t, "signed-token", resp.Bearer)
	assert.Equal(t, "dana", resp.User.Username)
}

// --- Profile tests ---

func TestProfile_MissingClaims(t *testing.T) {
	h := NewUserHandler(&mockUserSvc{}, &mockImageSvc{})
	rr := httptest.NewRecorder()
	h.Profile(rr, httptest.NewRequest(http.MethodGet, "/v1/users/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestProfile_ThroughAuthMiddleware(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockUserSvc{}
	svc.On("Get", mock.Anything, userID).Return(&domain.User{UserID: userID, Username: "dana"}, nil)
	h := NewUserHandler(svc, &mockImageSvc{})

	r := bearerReq(t, p, http.MethodGet, "/v1/users/profile", userID, domain.RoleUser, nil)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Profile), rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestUpdateProfile_InvalidGender(t *testing.T) {
	h := NewUserHandler(&mockUserSvc{}, &mockImageSvc{})
	gender := "unknown"
	r := asUser(jsonReq(t, http.MethodPut, "/v1/users/profile", domain.UpdateProfileRequest{Gender: &gender}), userID)
	rr := httptest.NewRecorder()
	h.UpdateProfile(rr, r)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestUpdateProfile_HappyPath(t *testing.T) {
	svc := &mockUserSvc{}
	name := "Dana Levi"
	svc.On("UpdateProfile", mock.Anything, userID, domain.UpdateProfileRequest{FullName: &name}).
		Return(&domain.User{UserID: userID, FullName: name}, nil)
	h := NewUserHandler(svc, &mockImageSvc{})
	r := asUser(jsonReq(t, http.MethodPut, "/v1/users/profile", domain.UpdateProfileRequest{FullName: &name}), userID)
	rr := httptest.NewRecorder()
	h.UpdateProfile(rr, r)
	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestUsernames(t *testing.T) {
	svc := &mockUserSvc{}
	svc.On("ListUsernames", mock.Anything).Return([]string{"dana", "noa"}, nil)
	h := NewUserHandler(svc, &mockImageSvc{})
	rr := httptest.NewRecorder()
	h.Usernames(rr, httptest.NewRequest(http.MethodGet, "/v1/users/usernames", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"dana", "noa"}, decodeBody[[]string](t, rr))
}

// --- Image tests ---

func TestUploadImage_ReplacesPreviousImage(t *testing.T) {
	svc := &mockUserSvc{}
	images := &mockImageSvc{}
	svc.On("Get", mock.Anything, userID).Return(&domain.User{UserID: userID, ProfileImageURL: "http://s3/old.png"}, nil)
	images.On("Upload", mock.Anything, image.KindUser, userID, "image/png", "png-bytes").Return("http://s3/new.png", nil)
	svc.On("SetProfileImage", mock.Anything, userID, "http://s3/new.png").Return(&domain.User{UserID: userID, ProfileImageURL: "http://s3/new.png"}, nil)
	images.On("Remove", mock.Anything, "http://s3/old.png").Return(nil)

	h := NewUserHandler(svc, images)
	r := asUser(imageReq(t, "/v1/users/profile/image", "me.png", "image/png", []byte("png-bytes")), userID)
	rr := httptest.NewRecorder()
	h.UploadImage(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
	images.AssertExpectations(t)
}

func TestUploadImage_MissingFile(t *testing.T) {
	svc := &mockUserSvc{}
	svc.On("Get", mock.Anything, userID).Return(&domain.User{UserID: userID}, nil)
	h := NewUserHandler(svc, &mockImageSvc{})
	r := asUser(httptest.NewRequest(http.MethodPost, "/v1/users/profile/image", nil), userID)
	rr := httptest.NewRecorder()
	h.UploadImage(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
