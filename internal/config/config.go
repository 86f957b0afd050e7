// Package config loads service configuration from the environment, with an
// optional .env file for local runs.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the service needs to talk to its collaborators.
// Credentials are opaque here; they are handed to the nubank and sheets
// clients untouched.
type Config struct {
	NubankCPF      string
	NubankPassword string
	NubankCertPath string
	NubankKeyPath  string
	NubankBaseURL  string // empty means production

	SpreadsheetID    string
	GoogleClientFile string
	GoogleTokenFile  string

	Port  string
	RunAt string // optional "HH:MM" daily trigger; empty disables the scheduler
}

// Load reads the .env file when present, then the environment.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	cfg := &Config{
		NubankCPF:        os.Getenv("NUBANK_CPF"),
		NubankPassword:   os.Getenv("NUBANK_PASSWORD"),
		NubankCertPath:   getenvDefault("NUBANK_CERT_PATH", "./secrets/cert.pem"),
		NubankKeyPath:    getenvDefault("NUBANK_KEY_PATH", "./secrets/key.pem"),
		NubankBaseURL:    os.Getenv("NUBANK_BASE_URL"),
		SpreadsheetID:    os.Getenv("SPREADSHEET_ID"),
		GoogleClientFile: getenvDefault("GOOGLE_OAUTH_CLIENT_FILE", "./secrets/credentials.json"),
		GoogleTokenFile:  getenvDefault("GOOGLE_OAUTH_TOKEN_FILE", "./secrets/token.json"),
		Port:             getenvDefault("PORT", "8080"),
		RunAt:            os.Getenv("RUN_AT"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.NubankCPF == "" {
		missing = append(missing, "NUBANK_CPF")
	}
	if c.NubankPassword == "" {
		missing = append(missing, "NUBANK_PASSWORD")
	}
	if c.SpreadsheetID == "" {
		missing = append(missing, "SPREADSHEET_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required variables: %s", strings.Join(missing, ", "))
	}

	if c.RunAt != "" {
		if _, err := time.Parse("15:04", c.RunAt); err != nil {
			return fmt.Errorf("config: RUN_AT must be HH:MM, got %q", c.RunAt)
		}
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
