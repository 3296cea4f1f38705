package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dogli-api/internal/application/image"
	"github.com/dogli-api/internal/config"
	"github.com/dogli-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/dogli-api/internal/infrastructure/jwt"
	"github.com/dogli-api/internal/infrastructure/otel"
	"github.com/dogli-api/internal/infrastructure/places"
	s3infra "github.com/dogli-api/internal/infrastructure/s3"
	"github.com/dogli-api/internal/infrastructure/sns"
	"github.com/dogli-api/internal/pkg/clock"
	transporthttp "github.com/dogli-api/internal/transport/http"
	"github.com/joho/godotenv"
)

const serviceName = "dogli-api"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	ctx := context.Background()

	// Tracing is a no-op unless OTEL_EXPORTER_OTLP_ENDPOINT is set.
	shutdownTracing, err := otel.Setup(ctx, serviceName, cfg.OTelEndpoint, cfg.AppEnv)
	if err != nil {
		log.Printf("WARN: tracing disabled: %v", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Printf("WARN: tracing shutdown: %v", err)
		}
	}()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	// JWT provider (optional; protected routes are open without it).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	s3Store := s3infra.NewStore(s3infra.NewClient(cfg), cfg)

	publisher, err := sns.NewPublisher(cfg)
	if err != nil {
		log.Printf("WARN: check-in feed not available: %v", err)
	}

	var placesClient *places.Client
	if cfg.GooglePlacesAPIKey != "" {
		if c, err := places.NewClient(ctx, cfg.GooglePlacesAPIKey); err == nil {
			placesClient = c
		} else {
			log.Printf("WARN: places client not available: %v", err)
		}
	} else {
		log.Println("WARN: GOOGLE_PLACES_API_KEY not set, only stored parks will resolve")
	}

	deps := &transporthttp.Deps{
		UserRepo:    dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		DogRepo:     dynamo.NewDogRepo(dynamoClient, cfg.DynamoTables.Dogs),
		ParkRepo:    dynamo.NewParkRepo(dynamoClient, cfg.DynamoTables.Parks, cfg.DynamoTables.ParkPlaces),
		ReviewRepo:  dynamo.NewReviewRepo(dynamoClient, cfg.DynamoTables.Reviews),
		CheckInRepo: dynamo.NewCheckInRepo(dynamoClient, cfg.DynamoTables.CheckIns, cfg.DynamoTables.ActiveCheckIns),
		S3Store:     s3Store,
		JWTProvider: jwtProvider,
		Places:      placesClient,
		Publisher:   publisher,
		Clock:       clock.System{},
		Defaults: transporthttp.DefaultImages{
			UserMale:   s3Store.URL(image.DefaultsPrefix + "male-profile.png"),
			UserFemale: s3Store.URL(image.DefaultsPrefix + "female-profile.png"),
			User:       s3Store.URL(image.DefaultsPrefix + "male-profile.png"),
			Dog:        s3Store.URL(image.DefaultsPrefix + "dog-profile.png"),
			Park:       s3Store.URL(image.DefaultsPrefix + "park-profile.png"),
		},
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
