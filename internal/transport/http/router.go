package http

import (
	"net/http"

	"github.com/dogli-api/internal/application/checkin"
	"github.com/dogli-api/internal/application/dog"
	"github.com/dogli-api/internal/application/image"
	"github.com/dogli-api/internal/application/park"
	"github.com/dogli-api/internal/application/review"
	"github.com/dogli-api/internal/application/user"
	"github.com/dogli-api/internal/config"
	"github.com/dogli-api/internal/domain"
	"github.com/dogli-api/internal/transport/http/handler"
	appmiddleware "github.com/dogli-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10, applied to login, register and check-in.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	parkDeps := park.ServiceDeps{
		ParkRepo:        deps.ParkRepo,
		DefaultImageURL: deps.Defaults.Park,
		NearbyRadius:    float64(cfg.NearbyRadiusMeters),
	}
	if deps.Places != nil {
		parkDeps.Places = deps.Places
	}
	parkSvc := park.NewService(parkDeps)

	checkInDeps := checkin.ServiceDeps{
		Parks:  parkSvc,
		Dogs:   deps.DogRepo,
		Store:  deps.CheckInRepo,
		Clock:  deps.Clock,
		Radius: cfg.CheckInRadiusMeters,
	}
	if deps.Publisher != nil {
		checkInDeps.Publisher = deps.Publisher
	}
	checkInSvc := checkin.NewService(checkInDeps)

	userDeps := user.ServiceDeps{
		UserRepo: deps.UserRepo,
		Avatars: user.Avatars{
			ByGender: map[string]string{
				domain.GenderMale:   deps.Defaults.UserMale,
				domain.GenderFemale: deps.Defaults.UserFemale,
			},
			Default: deps.Defaults.User,
		},
	}
	if deps.JWTProvider != nil {
		userDeps.JWTProvider = deps.JWTProvider
	}
	userSvc := user.NewService(userDeps)
	dogSvc := dog.NewService(dog.ServiceDeps{DogRepo: deps.DogRepo, DefaultImageURL: deps.Defaults.Dog})
	reviewSvc := review.NewService(review.ServiceDeps{ReviewRepo: deps.ReviewRepo, Parks: parkSvc, Users: deps.UserRepo})
	imageSvc := image.NewService(deps.S3Store)

	healthH := handler.NewHealthHandler()
	userH := handler.NewUserHandler(userSvc, imageSvc)
	dogH := handler.NewDogHandler(dogSvc, imageSvc)
	parkH := handler.NewParkHandler(parkSvc, checkInSvc, imageSvc)
	checkInH := handler.NewCheckInHandler(checkInSvc)
	reviewH := handler.NewReviewHandler(reviewSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.Get("/test", healthH.Test)
		r.With(sensitiveRL.Limit).Post("/users/register", userH.Register)
		r.With(sensitiveRL.Limit).Post("/users/login", userH.Login)
		r.Get("/users/usernames", userH.Usernames)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/users/profile", userH.Profile)
			r.Put("/users/profile", userH.UpdateProfile)
			r.Post("/users/profile/image", userH.UploadImage)

			r.Get("/dogs", dogH.List)
			r.Get("/dogs/mine", dogH.Mine)
			r.Post("/dogs", dogH.Create)
			r.Post("/dogs/follow", dogH.Follow)
			r.Post("/dogs/unfollow", dogH.Unfollow)
			r.Get("/dogs/{dogId}", dogH.Get)
			r.Put("/dogs/{dogId}", dogH.Update)
			r.Delete("/dogs/{dogId}", dogH.Delete)
			r.Post("/dogs/{dogId}/image", dogH.UploadImage)

			r.Get("/parks", parkH.List)
			r.Get("/parks/details/{placeId}", parkH.Details)
			r.Get("/parks/{parkId}", parkH.Get)
			r.Get("/parks/{parkId}/active-checkins", parkH.ActiveCheckIns)
			r.Get("/parks/{parkId}/historical-checkins", parkH.HistoricalCheckIns)

			r.With(sensitiveRL.Limit).Post("/parks/checkin", checkInH.CheckIn)
			r.Put("/parks/checkins/checkout/{checkInId}", checkInH.CheckOut)
			r.Post("/parks/checkins/checkout/{checkInId}", checkInH.CheckOut)
			r.Get("/parks/checkins/{userId}", checkInH.ListByUser)

			r.Post("/reviews", reviewH.Create)
			r.Get("/reviews/park/{parkId}", reviewH.ListByPark)
			r.Get("/reviews/{reviewId}", reviewH.Get)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/parks/nearby", parkH.Nearby)
				r.Post("/parks", parkH.Create)
				r.Put("/parks/{parkId}", parkH.Update)
				r.Delete("/parks/{parkId}", parkH.Delete)
				r.Post("/parks/{parkId}/image", parkH.UploadImage)
			})
		})
	})

	return r
}
