package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orcgo.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Parallel()
	path := writeConfigFile(t, "logLevel: debug\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff("./logs", cfg.LogDir); diff != "" {
		t.Errorf("LogDir mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("debug", cfg.LogLevel); diff != "" {
		t.Errorf("LogLevel mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("\t", cfg.Dump.Delimiter); diff != "" {
		t.Errorf("Dump.Delimiter mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	t.Parallel()
	path := writeConfigFile(t, "logLevel: loud\n")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a *ValidationError, got %v (%T)", err, err)
	}
	if len(verr.Errors) != 1 {
		t.Errorf("Errors = %v, want exactly one entry", verr.Errors)
	}
}

func TestLoadMissingPath(t *testing.T) {
	t.Parallel()
	if _, err := Load(""); err == nil {
		t.Fatal("expected an error for an empty path")
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() failed validation: %v", err)
	}
}
