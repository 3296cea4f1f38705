package checkin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dogli-api/internal/domain"
	"github.com/dogli-api/internal/pkg/clock"
	"github.com/dogli-api/internal/pkg/geo"
	"github.com/dogli-api/internal/pkg/id"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultAdmissionRadius is the maximum distance in meters between a user and
// the park for a check-in to be admitted. The boundary itself is admitted.
const DefaultAdmissionRadius = 200.0

// maxReplaceAttempts bounds retries when a concurrent check-in for the same
// (user, dog) wins the race.
const maxReplaceAttempts = 3

var tracer = otel.Tracer("github.com/dogli-api/internal/application/checkin")

type Service interface {
	CheckIn(ctx context.Context, userID string, req domain.CheckInRequest) (*domain.CheckIn, CheckInResult, error)
	CheckOut(ctx context.Context, checkInID string) (CheckOutResult, error)
	Get(ctx context.Context, checkInID string) (*domain.CheckIn, error)
	ListActiveByPark(ctx context.Context, parkID string) ([]domain.CheckIn, error)
	ListHistoricalByPark(ctx context.Context, parkID string) ([]domain.CheckIn, error)
	ListByUser(ctx context.Context, userID string) ([]domain.CheckIn, error)
	Radius() float64
}

type parkDirectory interface {
	ResolveByPlaceID(ctx context.Context, placeID string) (*domain.Park, error)
}

type dogDirectory interface {
	Get(ctx context.Context, dogID string) (*domain.Dog, error)
}

type checkInStore interface {
	Get(ctx context.Context, checkInID string) (*domain.CheckIn, error)
	ListActiveByUserAndDog(ctx context.Context, userID, dogID string) ([]domain.CheckIn, error)
	ListByPark(ctx context.Context, parkID string, active bool) ([]domain.CheckIn, error)
	ListByUser(ctx context.Context, userID string) ([]domain.CheckIn, error)
	// ReplaceActive atomically deactivates prev and inserts next. It returns
	// domain.ErrConflict when another check-in for the pair got there first.
	ReplaceActive(ctx context.Context, userID, dogID string, prev []domain.CheckIn, next *domain.CheckIn) error
	Close(ctx context.Context, checkInID string, at time.Time) error
}

type eventPublisher interface {
	Publish(ctx context.Context, ev domain.CheckInEvent) error
}

type ServiceDeps struct {
	Parks     parkDirectory
	Dogs      dogDirectory
	Store     checkInStore
	Publisher eventPublisher // optional
	Clock     clock.Clock    // defaults to clock.System
	Radius    float64        // defaults to DefaultAdmissionRadius
}

type service struct {
	parks     parkDirectory
	dogs      dogDirectory
	store     checkInStore
	publisher eventPublisher
	clock     clock.Clock
	radius    float64
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		parks:     deps.Parks,
		dogs:      deps.Dogs,
		store:     deps.Store,
		publisher: deps.Publisher,
		clock:     deps.Clock,
		radius:    deps.Radius,
	}
	if s.clock == nil {
		s.clock = clock.System{}
	}
	if s.radius <= 0 {
		s.radius = DefaultAdmissionRadius
	}
	return s
}

func (s *service) Radius() float64 { return s.radius }

// CheckIn admits the user's dog to the park identified by req.ParkPlaceID.
// Rule failures are reported through the result; only infrastructure
// failures are returned as errors.
func (s *service) CheckIn(ctx context.Context, userID string, req domain.CheckInRequest) (c *domain.CheckIn, res CheckInResult, err error) {
	ctx, span := tracer.Start(ctx, "checkin.CheckIn", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("dog.id", req.DogID),
		attribute.String("park.place_id", req.ParkPlaceID),
	))
	defer func() { endSpan(span, res.String(), err) }()

	park, err := s.parks.ResolveByPlaceID(ctx, req.ParkPlaceID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, CheckInParkNotFound, nil
	}
	if err != nil {
		return nil, CheckInSuccess, fmt.Errorf("resolve park: %w", err)
	}

	dog, err := s.dogs.Get(ctx, req.DogID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, CheckInDogNotOwnedByUser, nil
	}
	if err != nil {
		return nil, CheckInSuccess, fmt.Errorf("resolve dog: %w", err)
	}
	if dog.OwnerID != userID {
		return nil, CheckInDogNotOwnedByUser, nil
	}

	dist := geo.Distance(park.Latitude, park.Longitude, req.Latitude, req.Longitude)
	span.SetAttributes(attribute.Float64("checkin.distance_m", dist))
	if dist > s.radius {
		return nil, CheckInDistanceTooFar, nil
	}

	now := s.clock.Now().UTC()
	next := &domain.CheckIn{
		CheckInID:   id.New(),
		UserID:      userID,
		ParkID:      park.ParkID,
		DogID:       dog.DogID,
		ArrivalTime: now,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for attempt := 1; ; attempt++ {
		prev, err := s.store.ListActiveByUserAndDog(ctx, userID, dog.DogID)
		if err != nil {
			return nil, CheckInSuccess, fmt.Errorf("list active checkins: %w", err)
		}
		err = s.store.ReplaceActive(ctx, userID, dog.DogID, prev, next)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrConflict) || attempt >= maxReplaceAttempts {
			return nil, CheckInSuccess, err
		}
		slog.Info("concurrent checkin, retrying", "user_id", userID, "dog_id", dog.DogID, "attempt", attempt)
	}

	s.publish(ctx, domain.EventCheckInCreated, *next, now)
	return next, CheckInSuccess, nil
}

// CheckOut closes the check-in. Closing an already inactive check-in is
// accepted and stamps a new leave time.
func (s *service) CheckOut(ctx context.Context, checkInID string) (res CheckOutResult, err error) {
	ctx, span := tracer.Start(ctx, "checkin.CheckOut", trace.WithAttributes(
		attribute.String("checkin.id", checkInID),
	))
	defer func() { endSpan(span, res.String(), err) }()

	c, err := s.store.Get(ctx, checkInID)
	if errors.Is(err, domain.ErrNotFound) {
		return CheckOutNotFound, nil
	}
	if err != nil {
		return CheckOutSuccess, err
	}

	now := s.clock.Now().UTC()
	if err := s.store.Close(ctx, checkInID, now); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return CheckOutNotFound, nil
		}
		return CheckOutSuccess, err
	}

	c.IsActive = false
	c.LeaveTime = &now
	c.UpdatedAt = now
	s.publish(ctx, domain.EventCheckInClosed, *c, now)
	return CheckOutSuccess, nil
}

func (s *service) Get(ctx context.Context, checkInID string) (*domain.CheckIn, error) {
	return s.store.Get(ctx, checkInID)
}

func (s *service) ListActiveByPark(ctx context.Context, parkID string) ([]domain.CheckIn, error) {
	return s.store.ListByPark(ctx, parkID, true)
}

func (s *service) ListHistoricalByPark(ctx context.Context, parkID string) ([]domain.CheckIn, error) {
	return s.store.ListByPark(ctx, parkID, false)
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]domain.CheckIn, error) {
	return s.store.ListByUser(ctx, userID)
}

// publish is best-effort: the feed must never fail a committed state change.
func (s *service) publish(ctx context.Context, eventType string, c domain.CheckIn, at time.Time) {
	if s.publisher == nil {
		return
	}
	ev := domain.CheckInEvent{Type: eventType, CheckIn: c, OccurredAt: at}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		slog.Warn("failed to publish checkin event", "type", eventType, "checkin_id", c.CheckInID, "err", err)
	}
}

func endSpan(span trace.Span, result string, err error) {
	if err != nil {
		result = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.String("checkin.result", result))
	span.End()
}
