package config

import (
	"strings"
	"testing"
)

// clearEnv blanks every variable Load reads so tests see defaults even when
// the ambient environment has them exported.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"NEXA_ADDR",
		"NEXA_DB_PATH",
		"NEXA_OPENAI_BASE_URL",
		"NEXA_MODEL",
		"NEXA_GATEWAY_TIMEOUT_SECONDS",
		"NEXA_CONTEXT_TOKEN_BUDGET",
		"NEXA_DEFAULT_PERSONA",
		"NEXA_GNEWS_BASE_URL",
		"OPENAI_API_KEY",
		"GNEWS_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":8100" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.DBPath != "nexa.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.GatewayTimeoutSeconds != 30 {
		t.Errorf("GatewayTimeoutSeconds = %d", cfg.GatewayTimeoutSeconds)
	}
	if cfg.ContextTokenBudget != 0 {
		t.Errorf("ContextTokenBudget = %d, want 0 (full history)", cfg.ContextTokenBudget)
	}
	if cfg.DefaultPersona != "Friendly" {
		t.Errorf("DefaultPersona = %q", cfg.DefaultPersona)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEXA_ADDR", ":9000")
	t.Setenv("NEXA_CONTEXT_TOKEN_BUDGET", "4096")
	t.Setenv("NEXA_DEFAULT_PERSONA", "Professional")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":9000" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.ContextTokenBudget != 4096 {
		t.Errorf("ContextTokenBudget = %d", cfg.ContextTokenBudget)
	}
	if cfg.DefaultPersona != "Professional" {
		t.Errorf("DefaultPersona = %q", cfg.DefaultPersona)
	}
}

func TestLoad_RejectsNonIntegerTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEXA_GATEWAY_TIMEOUT_SECONDS", "soon")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error for non-integer timeout")
	}
	if !strings.Contains(err.Error(), "NEXA_GATEWAY_TIMEOUT_SECONDS") {
		t.Errorf("unexpected err: %v", err)
	}
}

func TestLoad_RejectsNonPositiveTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEXA_GATEWAY_TIMEOUT_SECONDS", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero timeout")
	}
}

func TestLoad_RejectsNegativeBudget(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEXA_CONTEXT_TOKEN_BUDGET", "-1")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error for negative budget")
	}
	if !strings.Contains(err.Error(), "NEXA_CONTEXT_TOKEN_BUDGET") {
		t.Errorf("unexpected err: %v", err)
	}
}
