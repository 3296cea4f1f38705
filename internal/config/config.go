package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	S3BucketName    string
	S3PublicBaseURL string // optional CDN/base URL for profile images

	SNSRegion          string
	SNSCheckInTopicARN string // empty disables the live check-in feed

	GooglePlacesAPIKey string
	NearbyRadiusMeters int

	CheckInRadiusMeters float64

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	OTelEndpoint string // empty disables tracing export

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users          string
	Dogs           string
	Parks          string
	ParkPlaces     string
	Reviews        string
	CheckIns       string
	ActiveCheckIns string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:          getEnv("DYNAMO_TABLE_USERS", "users"),
			Dogs:           getEnv("DYNAMO_TABLE_DOGS", "dogs"),
			Parks:          getEnv("DYNAMO_TABLE_PARKS", "parks"),
			ParkPlaces:     getEnv("DYNAMO_TABLE_PARK_PLACES", "park_places"),
			Reviews:        getEnv("DYNAMO_TABLE_REVIEWS", "reviews"),
			CheckIns:       getEnv("DYNAMO_TABLE_CHECKINS", "checkins"),
			ActiveCheckIns: getEnv("DYNAMO_TABLE_ACTIVE_CHECKINS", "active_checkins"),
		},
		S3BucketName:        getEnv("S3_BUCKET_NAME", "dogli-images"),
		S3PublicBaseURL:     getEnv("S3_PUBLIC_BASE_URL", ""),
		SNSRegion:           getEnv("SNS_REGION", "us-east-1"),
		SNSCheckInTopicARN:  getEnv("SNS_CHECKIN_TOPIC_ARN", ""),
		GooglePlacesAPIKey:  getEnv("GOOGLE_PLACES_API_KEY", ""),
		NearbyRadiusMeters:  getEnvInt("NEARBY_RADIUS_METERS", 1000),
		CheckInRadiusMeters: getEnvFloat("CHECKIN_RADIUS_METERS", 200),
		JWTPrivateKeyPath:   getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:    getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:           time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 5)) * time.Hour,
		OTelEndpoint:        getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		AllowedOrigins:      strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}
