package config

import (
	"strings"
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("NUBANK_CPF", "00000000000")
	t.Setenv("NUBANK_PASSWORD", "hunter2")
	t.Setenv("SPREADSHEET_ID", "sheet-123")
}

func TestLoad(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9000")
	t.Setenv("RUN_AT", "06:30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SpreadsheetID != "sheet-123" {
		t.Errorf("SpreadsheetID = %q, want sheet-123", cfg.SpreadsheetID)
	}
	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.RunAt != "06:30" {
		t.Errorf("RunAt = %q, want 06:30", cfg.RunAt)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want default 8080", cfg.Port)
	}
	if cfg.GoogleTokenFile != "./secrets/token.json" {
		t.Errorf("GoogleTokenFile = %q, want default token path", cfg.GoogleTokenFile)
	}
	if cfg.RunAt != "" {
		t.Errorf("RunAt = %q, want empty", cfg.RunAt)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("NUBANK_CPF", "")
	t.Setenv("NUBANK_PASSWORD", "hunter2")
	t.Setenv("SPREADSHEET_ID", "")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() succeeded with missing variables")
	}
	for _, name := range []string{"NUBANK_CPF", "SPREADSHEET_ID"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not name %s", err, name)
		}
	}
}

func TestLoad_InvalidRunAt(t *testing.T) {
	setRequired(t)
	t.Setenv("RUN_AT", "half past six")

	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted malformed RUN_AT")
	}
}
