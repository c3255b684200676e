package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"passenger-satisfaction-go/internal/normalizer"
)

type Config struct {
	Port             string
	Environment      string
	LogLevel         string
	PredictorURL     string
	PredictorTimeout time.Duration
	UseMockPredictor bool
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	ResultTTL        time.Duration
	CategoryPolicy   normalizer.Policy
	MaxUploadBytes   int64
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:          envOr("PORT", "8080"),
		Environment:   os.Getenv("ENVIRONMENT"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		PredictorURL:  os.Getenv("PREDICTOR_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	timeoutSec, err := intEnv("PREDICTOR_TIMEOUT_SEC", 12)
	if err != nil {
		return Config{}, err
	}
	cfg.PredictorTimeout = time.Duration(timeoutSec) * time.Second

	cfg.UseMockPredictor = cfg.PredictorURL == ""
	if v := os.Getenv("USE_MOCK_PREDICTOR"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("USE_MOCK_PREDICTOR: %w", err)
		}
		cfg.UseMockPredictor = b
	}
	if !cfg.UseMockPredictor && cfg.PredictorURL == "" {
		return Config{}, fmt.Errorf("PREDICTOR_URL is required when USE_MOCK_PREDICTOR=false")
	}

	if cfg.RedisDB, err = intEnv("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	ttlMin, err := intEnv("RESULT_TTL_MIN", 30)
	if err != nil {
		return Config{}, err
	}
	cfg.ResultTTL = time.Duration(ttlMin) * time.Minute

	if cfg.CategoryPolicy, err = normalizer.ParsePolicy(os.Getenv("CATEGORY_POLICY")); err != nil {
		return Config{}, fmt.Errorf("CATEGORY_POLICY: %w", err)
	}

	maxMB, err := intEnv("MAX_UPLOAD_MB", 20)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxUploadBytes = int64(maxMB) << 20
	return cfg, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func intEnv(k string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s: invalid non-negative integer %q", k, v)
	}
	return n, nil
}
