package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var keys = []string{
	"APP_NAME", "APP_ENV", "PORT", "LOG_LEVEL", "LOG_FORMAT", "DATABASE_URL", "REDIS_URL",
	"SQLITE_PATH", "SEQUENCE_BACKEND", "SEQUENCE_SEED", "INTEREST_RATE", "ADMIN_KEY_HASH",
	shutdownSecondsEnvVar, shutdownDurationEnvVar, idemTTLSecondsEnvVar, idemTTLDurEnvVar,
}

// clearEnv blanks every key; t.Setenv restores the previous values afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SequenceBackend != SequenceMemory || cfg.SequenceSeed != 100 {
		t.Fatalf("unexpected sequence config %+v", cfg)
	}
	if cfg.InterestRate != nil {
		t.Fatalf("expected no interest override, got %s", cfg.InterestRate)
	}
	if cfg.Address() != ":8080" || cfg.ShutdownPeriod != defaultShutdownDelay {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEQUENCE_BACKEND", "Redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SEQUENCE_SEED", "5000")
	t.Setenv("INTEREST_RATE", "1.75")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv(shutdownDurationEnvVar, "3s")
	t.Setenv(idemTTLSecondsEnvVar, "60")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SequenceBackend != SequenceRedis || cfg.SequenceSeed != 5000 {
		t.Fatalf("unexpected sequence config %+v", cfg)
	}
	if cfg.InterestRate == nil || cfg.InterestRate.String() != "1.75" {
		t.Fatalf("unexpected interest rate %v", cfg.InterestRate)
	}
	if cfg.ShutdownPeriod != 3*time.Second || cfg.IdempotencyTTL != time.Minute {
		t.Fatalf("unexpected durations %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"seed not a number":      {"SEQUENCE_SEED": "abc"},
		"seed zero":              {"SEQUENCE_SEED": "0"},
		"negative rate":          {"INTEREST_RATE": "-1"},
		"rate not a number":      {"INTEREST_RATE": "lots"},
		"unknown backend":        {"SEQUENCE_BACKEND": "etcd"},
		"redis without url":      {"SEQUENCE_BACKEND": "redis"},
		"postgres without url":   {"SEQUENCE_BACKEND": "postgres"},
		"bad log format":         {"LOG_FORMAT": "xml"},
		"bad shutdown":           {shutdownSecondsEnvVar: "soon"},
		"production without key": {"APP_ENV": "production"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "ledger.env")
	if err := os.WriteFile(path, []byte("PORT=9090\nSEQUENCE_SEED=7\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" || cfg.SequenceSeed != 7 {
		t.Fatalf("expected values from env file, got %+v", cfg)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected error for missing explicit env file")
	}
}
