package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dogli-api/internal/domain"
	"github.com/dogli-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldFullName        = "full_name"
	fieldPhoneNumber     = "phone_number"
	fieldBirthdate       = "birthdate"
	fieldGender          = "gender"
	fieldProfileImageURL = "profile_image_url"
)

type Service interface {
	Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	// Login verifies the credentials and returns a signed bearer token.
	Login(ctx context.Context, req domain.LoginRequest) (string, *domain.User, error)
	ListUsernames(ctx context.Context) ([]string, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error)
	SetProfileImage(ctx context.Context, userID, url string) (*domain.User, error)
}

type userStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	ListUsernames(ctx context.Context) ([]string, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type jwtSigner interface {
	Sign(userID, username, email, role string) (string, error)
}

// Avatars maps a gender to its default profile image URL. Genders without
// an entry fall back to Default.
type Avatars struct {
	ByGender map[string]string
	Default  string
}

func (a Avatars) For(gender string) string {
	if url, ok := a.ByGender[gender]; ok {
		return url
	}
	return a.Default
}

type ServiceDeps struct {
	UserRepo    userStore
	JWTProvider jwtSigner
	Avatars     Avatars
}

type service struct {
	repo        userStore
	jwtProvider jwtSigner
	avatars     Avatars
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:        deps.UserRepo,
		jwtProvider: deps.JWTProvider,
		avatars:     deps.Avatars,
	}
}

func (s *service) Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.ensureFree(ctx, s.repo.GetByUsername, req.Username, "username already taken"); err != nil {
		return nil, err
	}
	if err := s.ensureFree(ctx, s.repo.GetByEmail, email, "email already registered"); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	gender := req.Gender
	if gender == "" {
		gender = domain.GenderOther
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:          id.New(),
		Username:        req.Username,
		Email:           email,
		PasswordHash:    string(hash),
		FullName:        req.FullName,
		Gender:          gender,
		ProfileImageURL: s.avatars.For(gender),
		Role:            domain.RoleUser,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) ensureFree(ctx context.Context, lookup func(context.Context, string) (*domain.User, error), value, msg string) error {
	_, err := lookup(ctx, value)
	switch {
	case err == nil:
		return fmt.Errorf("%s: %w", msg, domain.ErrConflict)
	case errors.Is(err, domain.ErrNotFound):
		return nil
	default:
		return err
	}
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (string, *domain.User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}
	if s.jwtProvider == nil {
		return "", nil, fmt.Errorf("token signing not configured: %w", domain.ErrUnavailable)
	}
	role := u.Role
	if role == "" {
		role = domain.RoleUser
	}
	token, err := s.jwtProvider.Sign(u.UserID, u.Username, u.Email, role)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *service) ListUsernames(ctx context.Context) ([]string, error) {
	return s.repo.ListUsernames(ctx)
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error) {
	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates[fieldFullName] = *req.FullName
	}
	if req.PhoneNumber != nil {
		updates[fieldPhoneNumber] = *req.PhoneNumber
	}
	if req.Birthdate != nil {
		t, err := time.Parse("2006-01-02", *req.Birthdate)
		if err != nil {
			return nil, fmt.Errorf("birthdate must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
		}
		updates[fieldBirthdate] = t
	}
	if req.Gender != nil {
		updates[fieldGender] = *req.Gender
	}
	if len(updates) == 0 {
		return s.repo.Get(ctx, userID)
	}
	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

func (s *service) SetProfileImage(ctx context.Context, userID, url string) (*domain.User, error) {
	if err := s.repo.Update(ctx, userID, map[string]interface{}{fieldProfileImageURL: url}); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}
