package dog

import (
	"context"
	"fmt"
	"time"

	"github.com/dogli-api/internal/domain"
	"github.com/dogli-api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName               = "name"
	fieldBreed              = "breed"
	fieldBirthDate          = "birthdate"
	fieldGender             = "gender"
	fieldDescription        = "description"
	fieldIsSpayedOrNeutered = "is_spayed_or_neutered"
	fieldWeight             = "weight"
	fieldProfileImageURL    = "profile_image_url"
)

type Service interface {
	List(ctx context.Context) ([]domain.Dog, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Dog, error)
	Get(ctx context.Context, dogID string) (*domain.Dog, error)
	Create(ctx context.Context, ownerID string, in domain.DogInput) (*domain.Dog, error)
	Update(ctx context.Context, ownerID, dogID string, in domain.DogInput) (*domain.Dog, error)
	Delete(ctx context.Context, ownerID, dogID string) error
	Follow(ctx context.Context, ownerID string, req domain.FollowRequest) error
	Unfollow(ctx context.Context, ownerID string, req domain.FollowRequest) error
	SetProfileImage(ctx context.Context, ownerID, dogID, url string) (*domain.Dog, error)
}

type dogStore interface {
	Put(ctx context.Context, d *domain.Dog) error
	Get(ctx context.Context, dogID string) (*domain.Dog, error)
	List(ctx context.Context) ([]domain.Dog, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Dog, error)
	Update(ctx context.Context, dogID string, updates map[string]interface{}) error
	Delete(ctx context.Context, dogID string) error
	Follow(ctx context.Context, followerID, followingID string) error
	Unfollow(ctx context.Context, followerID, followingID string) error
}

type ServiceDeps struct {
	DogRepo         dogStore
	DefaultImageURL string
}

type service struct {
	repo            dogStore
	defaultImageURL string
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.DogRepo, defaultImageURL: deps.DefaultImageURL}
}

func (s *service) List(ctx context.Context) ([]domain.Dog, error) {
	return s.repo.List(ctx)
}

func (s *service) ListByOwner(ctx context.Context, ownerID string) ([]domain.Dog, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *service) Get(ctx context.Context, dogID string) (*domain.Dog, error) {
	return s.repo.Get(ctx, dogID)
}

func (s *service) Create(ctx context.Context, ownerID string, in domain.DogInput) (*domain.Dog, error) {
	birth, err := parseDate(in.BirthDate)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	d := &domain.Dog{
		DogID:              id.New(),
		OwnerID:            ownerID,
		Name:               in.Name,
		Breed:              domain.DefaultBreed,
		BirthDate:          birth,
		Gender:             in.Gender,
		Description:        in.Description,
		IsSpayedOrNeutered: in.IsSpayedOrNeutered,
		Weight:             in.Weight,
		ProfileImageURL:    s.defaultImageURL,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if in.Breed != nil && *in.Breed != "" {
		d.Breed = *in.Breed
	}
	if err := s.repo.Put(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Update replaces the dog's editable fields. A dog owned by someone else is
// reported as not found.
func (s *service) Update(ctx context.Context, ownerID, dogID string, in domain.DogInput) (*domain.Dog, error) {
	if _, err := s.owned(ctx, ownerID, dogID, domain.ErrNotFound); err != nil {
		return nil, err
	}
	birth, err := parseDate(in.BirthDate)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		fieldName:               in.Name,
		fieldBirthDate:          birth,
		fieldGender:             in.Gender,
		fieldDescription:        in.Description,
		fieldIsSpayedOrNeutered: in.IsSpayedOrNeutered,
		fieldWeight:             in.Weight,
	}
	if in.Breed != nil && *in.Breed != "" {
		updates[fieldBreed] = *in.Breed
	}
	if err := s.repo.Update(ctx, dogID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, dogID)
}

func (s *service) Delete(ctx context.Context, ownerID, dogID string) error {
	if _, err := s.owned(ctx, ownerID, dogID, domain.ErrForbidden); err != nil {
		return err
	}
	return s.repo.Delete(ctx, dogID)
}

func (s *service) Follow(ctx context.Context, ownerID string, req domain.FollowRequest) error {
	if err := s.checkFollow(ctx, ownerID, req); err != nil {
		return err
	}
	return s.repo.Follow(ctx, req.FollowerDogID, req.FollowingDogID)
}

func (s *service) Unfollow(ctx context.Context, ownerID string, req domain.FollowRequest) error {
	if err := s.checkFollow(ctx, ownerID, req); err != nil {
		return err
	}
	return s.repo.Unfollow(ctx, req.FollowerDogID, req.FollowingDogID)
}

func (s *service) SetProfileImage(ctx context.Context, ownerID, dogID, url string) (*domain.Dog, error) {
	if _, err := s.owned(ctx, ownerID, dogID, domain.ErrForbidden); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, dogID, map[string]interface{}{fieldProfileImageURL: url}); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, dogID)
}

// checkFollow requires the follower dog to belong to ownerID and the followed
// dog to exist.
func (s *service) checkFollow(ctx context.Context, ownerID string, req domain.FollowRequest) error {
	if req.FollowerDogID == req.FollowingDogID {
		return fmt.Errorf("a dog cannot follow itself: %w", domain.ErrBadRequest)
	}
	if _, err := s.owned(ctx, ownerID, req.FollowerDogID, domain.ErrForbidden); err != nil {
		return err
	}
	_, err := s.repo.Get(ctx, req.FollowingDogID)
	return err
}

// owned loads the dog and returns notOwned wrapped when it belongs to
// someone else.
func (s *service) owned(ctx context.Context, ownerID, dogID string, notOwned error) (*domain.Dog, error) {
	d, err := s.repo.Get(ctx, dogID)
	if err != nil {
		return nil, err
	}
	if d.OwnerID != ownerID {
		return nil, fmt.Errorf("dog %s is not owned by caller: %w", dogID, notOwned)
	}
	return d, nil
}

func parseDate(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *v)
	if err != nil {
		return nil, fmt.Errorf("birthdate must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
	}
	return &t, nil
}
