package http

import (
	"github.com/dogli-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/dogli-api/internal/infrastructure/jwt"
	"github.com/dogli-api/internal/infrastructure/places"
	s3infra "github.com/dogli-api/internal/infrastructure/s3"
	"github.com/dogli-api/internal/infrastructure/sns"
	"github.com/dogli-api/internal/pkg/clock"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    *dynamo.UserRepo
	DogRepo     *dynamo.DogRepo
	ParkRepo    *dynamo.ParkRepo
	ReviewRepo  *dynamo.ReviewRepo
	CheckInRepo *dynamo.CheckInRepo
	S3Store     *s3infra.Store
	JWTProvider *jwtinfra.Provider
	// Optional. Without a places client only stored parks resolve; without
	// a publisher the check-in feed is off.
	Places    *places.Client
	Publisher *sns.Publisher
	Clock     clock.Clock
	Defaults  DefaultImages
}

// DefaultImages are the profile images assigned before a user uploads one.
type DefaultImages struct {
	UserMale   string
	UserFemale string
	User       string
	Dog        string
	Park       string
}
