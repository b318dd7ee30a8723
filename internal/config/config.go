package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries everything the service needs, resolved once at startup and
// passed by value into each component. No package keeps global state.
type Config struct {
	Port           string        `yaml:"port"`
	RowCap         int           `yaml:"row_cap"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	TopEntities    int           `yaml:"top_entities"`
	StoreCap       int           `yaml:"store_cap"`
	LogLevel       slog.Level    `yaml:"-"`
	Refiner        RefinerConfig `yaml:"refiner"`
}

// RefinerConfig points at an optional OpenAI-compatible endpoint used as a
// textual finishing pass. Empty APIKey disables it entirely.
type RefinerConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"-"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

const (
	defaultRowCap    = 50000
	defaultUploadCap = 25 << 20 // 25 MB request cap
	defaultStoreCap  = 128
)

// Load reads the optional YAML file at path (ignored when absent), then lets
// the environment override it. Env always wins so deploys can tune a baked-in
// file.
func Load(path string) (Config, error) {
	cfg := Config{
		Port:           "8080",
		RowCap:         defaultRowCap,
		MaxUploadBytes: defaultUploadCap,
		StoreCap:       defaultStoreCap,
		LogLevel:       slog.LevelInfo,
		Refiner: RefinerConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
			Timeout: 20 * time.Second,
		},
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.RowCap = envInt("ROW_CAP", cfg.RowCap)
	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.TopEntities = envInt("TOP_ENTITIES", cfg.TopEntities)
	cfg.StoreCap = envInt("STORE_CAP", cfg.StoreCap)
	if os.Getenv("LOG_LEVEL") == "debug" {
		cfg.LogLevel = slog.LevelDebug
	}

	cfg.Refiner.BaseURL = envOr("OPENAI_BASE_URL", cfg.Refiner.BaseURL)
	cfg.Refiner.APIKey = firstEnv("OPENAI_API_KEY", "OPENAI_APIKEY", "OPENAI_KEY")
	cfg.Refiner.Model = envOr("OPENAI_MODEL", cfg.Refiner.Model)
	if v := os.Getenv("REFINER_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			cfg.Refiner.Timeout = d
		}
	}
	return cfg, nil
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func envInt64(k string, def int64) int64 {
	v, err := strconv.ParseInt(os.Getenv(k), 10, 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
