package review

import (
	"context"
	"log/slog"
	"time"

	"github.com/dogli-api/internal/domain"
	"github.com/dogli-api/internal/pkg/id"
)

type Service interface {
	ListByPark(ctx context.Context, parkID string) ([]domain.Review, error)
	Get(ctx context.Context, reviewID string) (*domain.Review, error)
	// Create stores the review and refreshes the park's mean rating.
	Create(ctx context.Context, userID string, in domain.ReviewInput) (*domain.Review, error)
}

type reviewStore interface {
	Put(ctx context.Context, r *domain.Review) error
	Get(ctx context.Context, reviewID string) (*domain.Review, error)
	ListByPark(ctx context.Context, parkID string) ([]domain.Review, error)
}

type parkDirectory interface {
	Get(ctx context.Context, parkID string) (*domain.Park, error)
	ResolveByPlaceID(ctx context.Context, placeID string) (*domain.Park, error)
	UpdateRating(ctx context.Context, parkID string, rating float64) error
}

type userDirectory interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type ServiceDeps struct {
	ReviewRepo reviewStore
	Parks      parkDirectory
	Users      userDirectory
}

type service struct {
	repo  reviewStore
	parks parkDirectory
	users userDirectory
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.ReviewRepo, parks: deps.Parks, users: deps.Users}
}

func (s *service) ListByPark(ctx context.Context, parkID string) ([]domain.Review, error) {
	if _, err := s.parks.Get(ctx, parkID); err != nil {
		return nil, err
	}
	return s.repo.ListByPark(ctx, parkID)
}

func (s *service) Get(ctx context.Context, reviewID string) (*domain.Review, error) {
	return s.repo.Get(ctx, reviewID)
}

func (s *service) Create(ctx context.Context, userID string, in domain.ReviewInput) (*domain.Review, error) {
	park, err := s.parks.ResolveByPlaceID(ctx, in.ParkPlaceID)
	if err != nil {
		return nil, err
	}
	author, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	r := &domain.Review{
		ReviewID:    id.New(),
		UserID:      userID,
		UserProfile: author.Profile(),
		ParkID:      park.ParkID,
		Rating:      in.Rating,
		Title:       in.Title,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Put(ctx, r); err != nil {
		return nil, err
	}

	// The review is stored; a failed refresh only leaves the rating stale
	// until the next review.
	if err := s.refreshRating(ctx, park.ParkID, r); err != nil {
		slog.Warn("failed to refresh park rating", "park_id", park.ParkID, "review_id", r.ReviewID, "err", err)
	}
	return r, nil
}

// refreshRating sets the park rating to the mean of its reviews. The index
// read may not include the review just written, so it is added explicitly.
func (s *service) refreshRating(ctx context.Context, parkID string, created *domain.Review) error {
	reviews, err := s.repo.ListByPark(ctx, parkID)
	if err != nil {
		return err
	}
	seen := false
	for _, r := range reviews {
		if r.ReviewID == created.ReviewID {
			seen = true
			break
		}
	}
	if !seen {
		reviews = append(reviews, *created)
	}
	return s.parks.UpdateRating(ctx, parkID, meanRating(reviews))
}

func meanRating(reviews []domain.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}
