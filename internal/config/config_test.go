package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("NATS_SUBJECT", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("DEFAULT_CHAPTER_HOURS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.NATSSubject != "syllabus.narrate" {
		t.Fatalf("expected default narration subject, got %q", cfg.NATSSubject)
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Fatalf("expected default model, got %q", cfg.GeminiModel)
	}
	if cfg.DefaultChapterHours != 2 {
		t.Fatalf("expected default chapter hours 2, got %d", cfg.DefaultChapterHours)
	}
	if cfg.AssumedYear < 2024 {
		t.Fatalf("expected assumed year to default to the current year, got %d", cfg.AssumedYear)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("GEMINI_REQUESTS_PER_SEC", "0.5")
	t.Setenv("GEMINI_TIMEOUT_SECONDS", "30")
	t.Setenv("ASSUMED_YEAR", "2026")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GeminiRequestsPerSec != 0.5 {
		t.Fatalf("expected rate override, got %f", cfg.GeminiRequestsPerSec)
	}
	if cfg.GeminiTimeout().Seconds() != 30 {
		t.Fatalf("expected timeout 30s, got %s", cfg.GeminiTimeout())
	}
	if cfg.AssumedYear != 2026 {
		t.Fatalf("expected assumed year 2026, got %d", cfg.AssumedYear)
	}
}

func TestLoadFileOverlayWinsOverEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_port: \"9999\"\nassumed_year: 2027\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("API_PORT", "8081")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIPort != "9999" {
		t.Fatalf("expected file value to win, got %q", cfg.APIPort)
	}
	if cfg.AssumedYear != 2027 {
		t.Fatalf("expected file assumed year, got %d", cfg.AssumedYear)
	}
}

func TestLoadMissingConfigFileErrors(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
