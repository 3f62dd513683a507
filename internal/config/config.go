package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	WAPhoneNumberID string
	WAAccessToken   string
	WAVerifyToken   string

	MenuAPIBaseURL string
	StoreSlug      string

	CacheTTL        time.Duration
	UpstreamTimeout time.Duration

	ProductListLimit  int
	CategoryListLimit int
	SendDelay         time.Duration

	Port     string
	LogLevel string
	LogJSON  bool
}

func Load() (*Config, error) {
	// .env is optional — env vars may already be set (e.g. in production)
	_ = godotenv.Load()

	cfg := &Config{
		WAPhoneNumberID: os.Getenv("WA_PHONE_NUMBER_ID"),
		WAAccessToken:   os.Getenv("WA_ACCESS_TOKEN"),
		WAVerifyToken:   os.Getenv("WA_VERIFY_TOKEN"),

		MenuAPIBaseURL: os.Getenv("MENU_API_BASE_URL"),
		StoreSlug:      os.Getenv("STORE_SLUG"),

		CacheTTL:        secondsEnv("CACHE_TTL", 300),
		UpstreamTimeout: secondsEnv("UPSTREAM_TIMEOUT", 10),

		ProductListLimit:  intEnv("PRODUCT_LIST_LIMIT", 10),
		CategoryListLimit: intEnv("CATEGORY_LIST_LIMIT", 8),
		SendDelay:         time.Duration(intEnv("SEND_DELAY_MS", 250)) * time.Millisecond,

		Port:     os.Getenv("PORT"),
		LogLevel: os.Getenv("LOG_LEVEL"),
		LogJSON:  boolEnv("LOG_JSON"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if cfg.StoreSlug == "" {
		cfg.StoreSlug = "ysg"
	}

	if cfg.WAVerifyToken == "" {
		token, err := randomHex(16)
		if err != nil {
			return nil, fmt.Errorf("generating verify token: %w", err)
		}
		cfg.WAVerifyToken = token
	}

	for _, req := range []struct {
		name, val string
	}{
		{"WA_PHONE_NUMBER_ID", cfg.WAPhoneNumberID},
		{"WA_ACCESS_TOKEN", cfg.WAAccessToken},
		{"MENU_API_BASE_URL", cfg.MenuAPIBaseURL},
	} {
		if req.val == "" {
			return nil, fmt.Errorf("required env var %s is not set", req.name)
		}
	}

	return cfg, nil
}

func intEnv(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func secondsEnv(key string, def int) time.Duration {
	return time.Duration(intEnv(key, def)) * time.Second
}

func boolEnv(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
