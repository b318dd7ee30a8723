package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.RowCap != 50000 {
		t.Fatalf("expected default row cap, got %d", cfg.RowCap)
	}
	if cfg.MaxUploadBytes != 25<<20 {
		t.Fatalf("expected 25MB upload cap, got %d", cfg.MaxUploadBytes)
	}
}

func TestLoadYAMLThenEnvWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("port: \"9000\"\nrow_cap: 777\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "9999")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "9999" {
		t.Fatalf("env must override yaml, got %s", cfg.Port)
	}
	if cfg.RowCap != 777 {
		t.Fatalf("yaml value expected, got %d", cfg.RowCap)
	}
}

func TestLoadMissingFileIgnored(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err != nil {
		t.Fatalf("absent config file must not fail: %v", err)
	}
}

func TestMaxUploadBytesLargeEnv(t *testing.T) {
	// 4 GiB does not fit in a 32-bit int; the value must survive intact.
	t.Setenv("MAX_UPLOAD_BYTES", "4294967296")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxUploadBytes != 4<<30 {
		t.Fatalf("expected 4GiB upload cap, got %d", cfg.MaxUploadBytes)
	}
}

func TestRefinerEnv(t *testing.T) {
	t.Setenv("OPENAI_KEY", "sk-test")
	t.Setenv("REFINER_TIMEOUT_SECONDS", "5")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Refiner.APIKey != "sk-test" {
		t.Fatalf("expected fallback env key pickup, got %q", cfg.Refiner.APIKey)
	}
	if cfg.Refiner.Timeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", cfg.Refiner.Timeout)
	}
}
