package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Common holds settings shared by the origin server and the edge.
type Common struct {
	Environment string
	LogLevel    string

	MQTTBrokerURL string
	MQTTTopic     string
}

// ServerConfig holds environment-based settings of the origin server.
type ServerConfig struct {
	Common

	ServerAddress string
	// JWTSecret signs operator tokens; the push endpoint is disabled when empty.
	JWTSecret string
	// AssetsDir overrides the embedded asset bundle when set.
	AssetsDir string

	RateLimit float64
	RateBurst int

	FirebaseServiceAccountPath string
	FCMTopic                   string

	UseSpaces       bool
	SpacesEndpoint  string
	SpacesRegion    string
	SpacesBucket    string
	SpacesPrefix    string
	SpacesAccessKey string
	SpacesSecretKey string
}

// EdgeConfig holds environment-based settings of the offline edge.
type EdgeConfig struct {
	Common

	EdgeAddress  string
	OriginURL    *url.URL
	CacheVersion string

	// RedisAddress selects the redis cache store; empty keeps caches in memory.
	RedisAddress  string
	RedisUsername string
	RedisPassword string
	RedisPrefix   string
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func loadCommon() Common {
	return Common{
		Environment:   getEnv("APP_ENV", "production"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		MQTTBrokerURL: os.Getenv("MQTT_BROKER_URL"),
		MQTTTopic:     getEnv("MQTT_TOPIC", "panduan-shalat/push"),
	}
}

func (c Common) Development() bool {
	return strings.EqualFold(c.Environment, "development")
}

// LoadServer reads the origin server configuration from environment variables.
func LoadServer() (*ServerConfig, error) {
	// a missing .env file is fine, the environment may already be set
	_ = godotenv.Load()

	cfg := &ServerConfig{
		Common:        loadCommon(),
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AssetsDir:     os.Getenv("ASSETS_DIR"),

		FirebaseServiceAccountPath: os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"),
		FCMTopic:                   os.Getenv("FCM_TOPIC"),

		UseSpaces:       os.Getenv("USE_SPACES") == "true",
		SpacesEndpoint:  os.Getenv("SPACES_ENDPOINT"),
		SpacesRegion:    os.Getenv("SPACES_REGION"),
		SpacesBucket:    os.Getenv("SPACES_BUCKET"),
		SpacesPrefix:    os.Getenv("SPACES_PREFIX"),
		SpacesAccessKey: os.Getenv("SPACES_ACCESS_KEY"),
		SpacesSecretKey: os.Getenv("SPACES_SECRET_KEY"),
	}

	rate, err := strconv.ParseFloat(getEnv("RATE_LIMIT", "10"), 64)
	if err != nil || rate <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT must be a positive number")
	}
	burst, err := strconv.Atoi(getEnv("RATE_BURST", "20"))
	if err != nil || burst <= 0 {
		return nil, fmt.Errorf("RATE_BURST must be a positive integer")
	}
	cfg.RateLimit, cfg.RateBurst = rate, burst

	if cfg.UseSpaces && (cfg.SpacesEndpoint == "" || cfg.SpacesBucket == "" ||
		cfg.SpacesAccessKey == "" || cfg.SpacesSecretKey == "") {
		return nil, fmt.Errorf("USE_SPACES requires SPACES_ENDPOINT, SPACES_BUCKET, SPACES_ACCESS_KEY and SPACES_SECRET_KEY")
	}
	if cfg.FCMTopic != "" && cfg.FirebaseServiceAccountPath == "" && os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		return nil, fmt.Errorf("FCM_TOPIC requires FIREBASE_SERVICE_ACCOUNT_PATH or GOOGLE_APPLICATION_CREDENTIALS")
	}
	return cfg, nil
}

// LoadEdge reads the edge configuration from environment variables.
func LoadEdge() (*EdgeConfig, error) {
	_ = godotenv.Load()

	raw := os.Getenv("ORIGIN_URL")
	if raw == "" {
		return nil, fmt.Errorf("ORIGIN_URL is required")
	}
	origin, err := url.Parse(raw)
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("ORIGIN_URL must be an absolute URL, got %q", raw)
	}

	return &EdgeConfig{
		Common:        loadCommon(),
		EdgeAddress:   getEnv("EDGE_ADDRESS", ":8081"),
		OriginURL:     origin,
		CacheVersion:  getEnv("CACHE_VERSION", "panduan-shalat-v1"),
		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisPrefix:   getEnv("REDIS_PREFIX", "offline:"),
	}, nil
}
