package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	Env          string
	LogLevel     string
	MongoURI     string
	DBName       string
	StoreTimeout time.Duration

	TokenSecret     string
	StripeSecretKey string

	// AuthStrict puts the authenticated gate on the mutating biodata,
	// favourite and payment routes that are public by default.
	AuthStrict  bool
	CORSOrigins []string

	RedisAddr     string
	RedisPassword string
	RateLimit     int
	RateWindow    time.Duration
	// TrustProxy keys the limiter on X-Forwarded-For. Only set it behind a
	// proxy that overwrites the header.
	TrustProxy bool
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "5000"),
		Env:             getEnv("APP_ENV", "production"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DBName:          getEnv("DB_NAME", "biaSadhiDB"),
		TokenSecret:     os.Getenv("ACCESS_TOKEN_SECRET"),
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
	}

	var err error
	if cfg.StoreTimeout, err = getDuration("STORE_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.RateWindow, err = getDuration("RATE_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = getInt("RATE_LIMIT", 20); err != nil {
		return nil, err
	}
	if cfg.AuthStrict, err = getBool("AUTH_STRICT", false); err != nil {
		return nil, err
	}
	if cfg.TrustProxy, err = getBool("TRUST_PROXY", false); err != nil {
		return nil, err
	}

	cfg.MongoURI = os.Getenv("MONGOURI")
	if cfg.MongoURI == "" {
		user, pass, host := os.Getenv("DB_USER"), os.Getenv("DB_PASS"), os.Getenv("DB_HOST")
		if user == "" || pass == "" || host == "" {
			return nil, fmt.Errorf("MONGOURI or DB_USER, DB_PASS and DB_HOST must be set")
		}
		cfg.MongoURI = fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
			url.QueryEscape(user), url.QueryEscape(pass), host)
	}

	if cfg.TokenSecret == "" {
		return nil, fmt.Errorf("ACCESS_TOKEN_SECRET must be set")
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
