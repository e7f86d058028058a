package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/gorunnable/errors"
)

type cacheSettings struct {
	Backend string `mapstructure:"backend" validate:"oneof=memory redis"`
	Prefix  string `mapstructure:"prefix" validate:"required"`
}

type sampleConfig struct {
	MaxConcurrency int           `mapstructure:"max_concurrency" validate:"gte=0,lte=64"`
	Address        string        `mapstructure:"address" validate:"required,hostname_port"`
	Rules          []string      `mapstructure:"rules" validate:"max=2"`
	Cache          cacheSettings `mapstructure:"cache"`
	Threshold      int           `validate:"gt=0"`
}

func validSample() sampleConfig {
	return sampleConfig{
		MaxConcurrency: 4,
		Address:        "localhost:8080",
		Cache:          cacheSettings{Backend: "memory", Prefix: "p"},
		Threshold:      100,
	}
}

func TestValidateValid(t *testing.T) {
	cfg := validSample()
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateInvalid(t *testing.T) {
	cfg := validSample()
	cfg.MaxConcurrency = 100
	cfg.Address = ""
	cfg.Cache.Backend = "disk"
	cfg.Threshold = 0

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}

	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok {
		t.Fatalf("expected []FieldError details, got %T", appErr.Details["fields"])
	}
	got := make(map[string]string, len(fields))
	for _, f := range fields {
		got[f.Field] = f.Message
	}

	tests := []struct {
		field   string
		message string
	}{
		{"max_concurrency", "must be at most 64"},
		{"address", "is required"},
		{"cache.backend", "must be one of: memory redis"},
		{"threshold", "must be greater than 0"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if got[tt.field] != tt.message {
				t.Errorf("field %s: expected %q, got %q (all: %v)", tt.field, tt.message, got[tt.field], got)
			}
			if !strings.Contains(appErr.Message, tt.field+": ") {
				t.Errorf("expected message to mention %s, got %q", tt.field, appErr.Message)
			}
		})
	}
}

func TestValidateSliceLength(t *testing.T) {
	cfg := validSample()
	cfg.Rules = []string{"a", "b", "c"}
	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "rules: must have at most 2") {
		t.Fatalf("expected rules length error, got %v", err)
	}
}

func TestValidateNonStruct(t *testing.T) {
	err := Validate("not a struct")
	if err == nil {
		t.Fatal("expected error for non-struct input")
	}
	if !errors.IsAppError(err) {
		t.Errorf("expected AppError, got %T", err)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"MaxConcurrency": "max_concurrency",
		"Threshold":      "threshold",
		"already_snake":  "already_snake",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
