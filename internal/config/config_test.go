package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Port)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Errorf("Expected default JWT TTL of 24h, got %v", cfg.JWTTTL)
	}
	if cfg.ActionTokenTTL != 15*time.Minute {
		t.Errorf("Expected default action token TTL of 15m, got %v", cfg.ActionTokenTTL)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("Expected an error when JWT_SECRET is unset")
	}
}

func TestSMTPAddr(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if addr := cfg.SMTPAddr(); addr != "smtp.example.com:2525" {
		t.Errorf("Expected smtp.example.com:2525, got %q", addr)
	}
}
