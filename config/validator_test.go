package config

import (
	"strings"
	"testing"
)

func TestConfigError_Error(t *testing.T) {
	err := ConfigError{Field: "server.port", Message: "must be at most 65535", Value: 99999}
	msg := err.Error()
	if !strings.Contains(msg, "server.port") {
		t.Errorf("expected field name in message, got %q", msg)
	}
	if !strings.Contains(msg, "99999") {
		t.Errorf("expected value in message, got %q", msg)
	}
}

func TestValidationErrors_Empty(t *testing.T) {
	var errs ValidationErrors
	if errs.Error() != "no validation errors" {
		t.Errorf("expected placeholder message, got %q", errs.Error())
	}
}

func TestValidateWithDetails(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 99999
	cfg.Log.Level = "trace"

	err := ValidateWithDetails(cfg)
	if err == nil {
		t.Fatal("expected validation error details")
	}

	details, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(details) < 2 {
		t.Fatalf("expected at least 2 errors, got %d: %v", len(details), details)
	}

	// Field namespaces should point at the offending fields.
	var sawPort, sawLevel bool
	for _, d := range details {
		if strings.Contains(d.Field, "Port") {
			sawPort = true
		}
		if strings.Contains(d.Field, "Level") {
			sawLevel = true
		}
	}
	if !sawPort || !sawLevel {
		t.Errorf("expected port and level errors, got %v", details)
	}
}

func TestValidateWithDetails_MetricsPortCollision(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Metrics.Port = cfg.Server.Port

	err := ValidateWithDetails(cfg)
	if err == nil {
		t.Fatal("expected validation error for shared port")
	}

	details, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	var sawCollision bool
	for _, d := range details {
		if strings.Contains(d.Field, "Metrics.Port") {
			sawCollision = true
		}
	}
	if !sawCollision {
		t.Errorf("expected Metrics.Port error, got %v", details)
	}

	// Disabled metrics never bind a listener, so the same port is fine.
	cfg.Metrics.Enabled = false
	if err := ValidateWithDetails(cfg); err != nil {
		t.Errorf("expected no error with metrics disabled, got %v", err)
	}
}

func TestValidateWithDetails_Valid(t *testing.T) {
	if err := ValidateWithDetails(DefaultConfig()); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestValidationMessages(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MCTS.DefaultStrategy = "greedy"

	err := ValidateWithDetails(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}

	details, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}

	msg := details.Error()
	if !strings.Contains(msg, "must be one of") {
		t.Errorf("expected oneof message, got %q", msg)
	}
}
