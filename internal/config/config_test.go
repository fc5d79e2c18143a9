package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "DATABASE_URL", "CORS_ORIGINS", "LOCK_WAIT_MS"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Port)
	}
	if cfg.LockWait != 250*time.Millisecond {
		t.Fatalf("expected default lock wait, got %v", cfg.LockWait)
	}
	if cfg.DatabaseURL == "" {
		t.Fatal("expected default database url")
	}
}

func TestLoad_MissingFileIsOptional(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected defaults, got %q", cfg.Port)
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: "9090"
  cors_origins:
    - https://shop.example
database:
  url: postgres://other:other@db:5432/shop
  lock_wait_ms: 500
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("expected port from file, got %q", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://other:other@db:5432/shop" {
		t.Fatalf("expected url from file, got %q", cfg.DatabaseURL)
	}
	if cfg.LockWait != 500*time.Millisecond {
		t.Fatalf("expected lock wait from file, got %v", cfg.LockWait)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"https://shop.example"}) {
		t.Fatalf("expected origins from file, got %v", cfg.CORSOrigins)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: \"9090\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://env:env@db:5432/shop")
	t.Setenv("CORS_ORIGINS", " https://a.example , https://b.example ,")
	t.Setenv("LOCK_WAIT_MS", "100")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "7070" {
		t.Fatalf("expected env port, got %q", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://env:env@db:5432/shop" {
		t.Fatalf("expected env url, got %q", cfg.DatabaseURL)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Fatalf("expected parsed origins, got %v", cfg.CORSOrigins)
	}
	if cfg.LockWait != 100*time.Millisecond {
		t.Fatalf("expected env lock wait, got %v", cfg.LockWait)
	}
}

func TestLoad_InvalidLockWait(t *testing.T) {
	for _, v := range []string{"abc", "0", "-10"} {
		t.Setenv("LOCK_WAIT_MS", v)
		if _, err := Load(""); err == nil {
			t.Fatalf("expected error for LOCK_WAIT_MS=%q", v)
		}
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [broken"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
