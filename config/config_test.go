package config

import (
	"testing"
	"time"
)

// Test that LoadConfig returns a non-nil config with usable defaults
func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APPENV", "test")

	cfg := LoadConfig()
	if cfg == nil {
		t.Fatalf("expected non-nil config")
	}
	if cfg.MaxUploadSize <= 0 {
		t.Fatalf("expected positive upload size limit, got %d", cfg.MaxUploadSize)
	}
	if cfg.TokenTTL <= 0 {
		t.Fatalf("expected positive token TTL, got %v", cfg.TokenTTL)
	}
	if cfg.PresignTTL <= 0 {
		t.Fatalf("expected positive presign TTL, got %v", cfg.PresignTTL)
	}

	// Singleton: a second call returns the same instance.
	if LoadConfig() != cfg {
		t.Fatalf("expected LoadConfig to return the same instance")
	}
}

func TestParseSizeEnv(t *testing.T) {
	cases := []struct {
		value string
		want  int64
	}{
		{"", 42},
		{"1024", 1024},
		{"not-a-number", 42},
		{"-5", 42},
		{"0", 42},
	}
	for _, c := range cases {
		t.Setenv("TEST_SIZE_ENV", c.value)
		if got := parseSizeEnv("TEST_SIZE_ENV", 42); got != c.want {
			t.Errorf("parseSizeEnv(%q) = %d, want %d", c.value, got, c.want)
		}
	}
}

func TestParseDurationEnv(t *testing.T) {
	cases := []struct {
		value string
		want  time.Duration
	}{
		{"", time.Minute},
		{"2h", 2 * time.Hour},
		{"30s", 30 * time.Second},
		{"garbage", time.Minute},
		{"-1h", time.Minute},
	}
	for _, c := range cases {
		t.Setenv("TEST_DURATION_ENV", c.value)
		if got := parseDurationEnv("TEST_DURATION_ENV", time.Minute); got != c.want {
			t.Errorf("parseDurationEnv(%q) = %v, want %v", c.value, got, c.want)
		}
	}
}
