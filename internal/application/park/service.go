package park

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dogli-api/internal/domain"
	"github.com/dogli-api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName            = "name"
	fieldAddress         = "address"
	fieldLatitude        = "latitude"
	fieldLongitude       = "longitude"
	fieldPlaceID         = "place_id"
	fieldRating          = "rating"
	fieldProfileImageURL = "profile_image_url"
)

type Service interface {
	List(ctx context.Context) ([]domain.Park, error)
	Get(ctx context.Context, parkID string) (*domain.Park, error)
	// ResolveByPlaceID returns the stored park for placeID, fetching and
	// persisting it from the place provider on first sight.
	ResolveByPlaceID(ctx context.Context, placeID string) (*domain.Park, error)
	Nearby(ctx context.Context, lat, lon, radiusMeters float64) ([]domain.Park, error)
	Create(ctx context.Context, in domain.ParkInput) (*domain.Park, error)
	Update(ctx context.Context, parkID string, in domain.ParkInput) (*domain.Park, error)
	UpdateRating(ctx context.Context, parkID string, rating float64) error
	Delete(ctx context.Context, parkID string) error
	SetProfileImage(ctx context.Context, parkID, url string) (*domain.Park, error)
}

type parkStore interface {
	Put(ctx context.Context, p *domain.Park) error
	Get(ctx context.Context, parkID string) (*domain.Park, error)
	GetByPlaceID(ctx context.Context, placeID string) (*domain.Park, error)
	List(ctx context.Context) ([]domain.Park, error)
	Update(ctx context.Context, parkID string, updates map[string]interface{}) error
	Delete(ctx context.Context, parkID string) error
}

type placeProvider interface {
	Details(ctx context.Context, placeID string) (*domain.Park, error)
	SearchDogParks(ctx context.Context, lat, lon, radiusMeters float64) ([]domain.Park, error)
}

type ServiceDeps struct {
	ParkRepo        parkStore
	Places          placeProvider // optional; without it only stored parks resolve
	DefaultImageURL string
	NearbyRadius    float64
}

type service struct {
	repo            parkStore
	places          placeProvider
	defaultImageURL string
	nearbyRadius    float64
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:            deps.ParkRepo,
		places:          deps.Places,
		defaultImageURL: deps.DefaultImageURL,
		nearbyRadius:    deps.NearbyRadius,
	}
}

func (s *service) List(ctx context.Context) ([]domain.Park, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, parkID string) (*domain.Park, error) {
	return s.repo.Get(ctx, parkID)
}

func (s *service) ResolveByPlaceID(ctx context.Context, placeID string) (*domain.Park, error) {
	p, err := s.repo.GetByPlaceID(ctx, placeID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if s.places == nil {
		return nil, fmt.Errorf("park for place %s not found: %w", placeID, domain.ErrNotFound)
	}
	fetched, err := s.places.Details(ctx, placeID)
	if err != nil {
		return nil, err
	}
	return s.importPlace(ctx, *fetched)
}

// Nearby searches the place provider for dog parks and stores any it has not
// seen before.
func (s *service) Nearby(ctx context.Context, lat, lon, radiusMeters float64) ([]domain.Park, error) {
	if s.places == nil {
		return nil, fmt.Errorf("place provider not configured: %w", domain.ErrUnavailable)
	}
	if radiusMeters <= 0 {
		radiusMeters = s.nearbyRadius
	}
	found, err := s.places.SearchDogParks(ctx, lat, lon, radiusMeters)
	if err != nil {
		return nil, err
	}
	parks := make([]domain.Park, 0, len(found))
	for _, f := range found {
		p, err := s.repo.GetByPlaceID(ctx, f.PlaceID)
		if errors.Is(err, domain.ErrNotFound) {
			p, err = s.importPlace(ctx, f)
		}
		if err != nil {
			return nil, err
		}
		parks = append(parks, *p)
	}
	return parks, nil
}

func (s *service) Create(ctx context.Context, in domain.ParkInput) (*domain.Park, error) {
	if _, err := s.repo.GetByPlaceID(ctx, in.PlaceID); err == nil {
		return nil, fmt.Errorf("park with place id %s already exists: %w", in.PlaceID, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return s.persistFetched(ctx, domain.Park{
		PlaceID:   in.PlaceID,
		Name:      in.Name,
		Address:   in.Address,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
	})
}

func (s *service) Update(ctx context.Context, parkID string, in domain.ParkInput) (*domain.Park, error) {
	existing, err := s.repo.Get(ctx, parkID)
	if err != nil {
		return nil, err
	}
	if in.PlaceID != existing.PlaceID {
		if other, err := s.repo.GetByPlaceID(ctx, in.PlaceID); err == nil && other.ParkID != parkID {
			return nil, fmt.Errorf("park with place id %s already exists: %w", in.PlaceID, domain.ErrConflict)
		} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	updates := map[string]interface{}{
		fieldName:      in.Name,
		fieldAddress:   in.Address,
		fieldLatitude:  in.Latitude,
		fieldLongitude: in.Longitude,
		fieldPlaceID:   in.PlaceID,
	}
	if err := s.repo.Update(ctx, parkID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, parkID)
}

func (s *service) UpdateRating(ctx context.Context, parkID string, rating float64) error {
	return s.repo.Update(ctx, parkID, map[string]interface{}{fieldRating: rating})
}

func (s *service) Delete(ctx context.Context, parkID string) error {
	return s.repo.Delete(ctx, parkID)
}

func (s *service) SetProfileImage(ctx context.Context, parkID, url string) (*domain.Park, error) {
	if err := s.repo.Update(ctx, parkID, map[string]interface{}{fieldProfileImageURL: url}); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, parkID)
}

// importPlace stores a park fetched from the place provider. When another
// request claimed the place first, the stored park wins.
func (s *service) importPlace(ctx context.Context, p domain.Park) (*domain.Park, error) {
	stored, err := s.persistFetched(ctx, p)
	if errors.Is(err, domain.ErrConflict) {
		return s.repo.GetByPlaceID(ctx, p.PlaceID)
	}
	return stored, err
}

func (s *service) persistFetched(ctx context.Context, p domain.Park) (*domain.Park, error) {
	now := time.Now().UTC()
	p.ParkID = id.New()
	if p.ProfileImageURL == "" {
		p.ProfileImageURL = s.defaultImageURL
	}
	if p.Facilities == nil {
		p.Facilities = []string{}
	}
	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.repo.Put(ctx, &p); err != nil {
		return nil, err
	}
	slog.Info("stored park", "park_id", p.ParkID, "place_id", p.PlaceID)
	return &p, nil
}
