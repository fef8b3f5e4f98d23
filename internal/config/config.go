// Package config resolves service configuration from the environment.
// cmd/api loads a local .env first (godotenv), so every knob is a plain
// environment variable in development as well as in deployment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries every runtime knob for the API service.
type Config struct {
	Addr           string
	ProjectID      string
	StorageBucket  string
	AuthSecret     string
	AdminDomain    string // corporate email suffix, without "@"
	AdminOrigin    string // origin allowed to exercise admin tokens
	UserOrigin     string // origin allowed to exercise user tokens
	TokenTTL       time.Duration
	OTPTTL         time.Duration
	PlacesAPIKey   string
	RateBurst      int
	RatePerSecond  int
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

// Load reads ACREDGE_* variables, applies defaults, and validates the
// settings that have no safe fallback.
func Load() (Config, error) {
	cfg := Config{
		Addr:           getenv("ACREDGE_ADDR", ":8080"),
		ProjectID:      os.Getenv("ACREDGE_PROJECT_ID"),
		StorageBucket:  os.Getenv("ACREDGE_STORAGE_BUCKET"),
		AuthSecret:     os.Getenv("ACREDGE_AUTH_SECRET"),
		AdminDomain:    getenv("ACREDGE_ADMIN_EMAIL_DOMAIN", "acredge.in"),
		AdminOrigin:    getenv("ACREDGE_ADMIN_ORIGIN", "https://admin.acredge.in"),
		UserOrigin:     getenv("ACREDGE_USER_ORIGIN", "https://www.acredge.in"),
		PlacesAPIKey:   os.Getenv("GOOGLE_PLACES_API_KEY"),
		RateBurst:      getint("ACREDGE_RATE_BURST", 20),
		RatePerSecond:  getint("ACREDGE_RATE_PER_SEC", 10),
		MaxBodyBytes:   int64(getint("ACREDGE_MAX_BODY_MB", 64)) << 20,
		RequestTimeout: 15 * time.Second,
	}

	var err error
	if cfg.TokenTTL, err = getdur("ACREDGE_TOKEN_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.OTPTTL, err = getdur("ACREDGE_OTP_TTL", 10*time.Minute); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.AuthSecret) == "" {
		return Config{}, errors.New("config: ACREDGE_AUTH_SECRET is required")
	}
	if strings.TrimSpace(cfg.AdminDomain) == "" {
		return Config{}, errors.New("config: ACREDGE_ADMIN_EMAIL_DOMAIN must not be blank")
	}
	cfg.AdminDomain = strings.TrimPrefix(cfg.AdminDomain, "@")
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getdur(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: %s must be positive", key)
	}
	return d, nil
}
