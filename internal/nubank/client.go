// Package nubank is a minimal read-only client for the Nubank API: it
// authenticates with a client TLS certificate plus CPF/password and exposes
// the two feeds the reconciliation pipeline consumes.
package nubank

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/TiberiusBR/sheet-nubank-updater/internal/ledger"
	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "https://prod-s0.nubank.com.br"

	tokenPath          = "/api/token"
	cardStatementsPath = "/api/card/statements"
	accountFeedPath    = "/api/account/feed"
)

// ErrAuthFailure means the credentials or the bearer token were rejected.
var ErrAuthFailure = errors.New("nubank authentication failed")

// Client fetches feeds from the Nubank API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	log        zerolog.Logger
}

// New creates an unauthenticated client. baseURL may be empty to use the
// production endpoint.
func New(baseURL string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		log:        log,
	}
}

// AuthenticateWithCert loads the client certificate pair, exchanges the CPF
// and password for a bearer token and keeps it for subsequent feed reads.
func (c *Client) AuthenticateWithCert(ctx context.Context, cpf, password, certPath, keyPath string) error {
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return fmt.Errorf("AuthenticateWithCert: load certificate: %w", err)
	}
	c.httpClient.Transport = &http.Transport{
		TLSClientConfig: &tls.Config{Certificates: []tls.Certificate{cert}},
	}

	body, err := json.Marshal(map[string]string{
		"grant_type": "password",
		"login":      cpf,
		"password":   password,
	})
	if err != nil {
		return fmt.Errorf("AuthenticateWithCert: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("AuthenticateWithCert: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("AuthenticateWithCert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("AuthenticateWithCert: status %d: %w", resp.StatusCode, ErrAuthFailure)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("AuthenticateWithCert: unexpected status %d", resp.StatusCode)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("AuthenticateWithCert: decode response: %w", err)
	}
	if out.AccessToken == "" {
		return fmt.Errorf("AuthenticateWithCert: empty access token: %w", ErrAuthFailure)
	}

	c.token = out.AccessToken
	c.log.Info().Msg("Authenticated with Nubank")
	return nil
}

// GetCardStatements returns the card statement feed, newest first. Ordering
// is checked on the way in; a violation is logged but the feed is still
// returned, since the prefix filter documents the precondition.
func (c *Client) GetCardStatements(ctx context.Context) ([]ledger.RawTransaction, error) {
	var out struct {
		Statements []ledger.RawTransaction `json:"statements"`
	}
	if err := c.getJSON(ctx, cardStatementsPath, &out); err != nil {
		return nil, fmt.Errorf("GetCardStatements: %w", err)
	}
	if err := ledger.VerifyCardOrder(out.Statements); err != nil {
		c.log.Warn().Err(err).Msg("Card statement feed failed order check")
	}
	return out.Statements, nil
}

// GetAccountFeed returns the account transfer feed, newest first.
func (c *Client) GetAccountFeed(ctx context.Context) ([]ledger.RawTransferEvent, error) {
	var out struct {
		Events []ledger.RawTransferEvent `json:"events"`
	}
	if err := c.getJSON(ctx, accountFeedPath, &out); err != nil {
		return nil, fmt.Errorf("GetAccountFeed: %w", err)
	}
	if err := ledger.VerifyTransferOrder(out.Events); err != nil {
		c.log.Warn().Err(err).Msg("Account feed failed order check")
	}
	return out.Events, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	if c.token == "" {
		return fmt.Errorf("not authenticated: %w", ErrAuthFailure)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("status %d: %w", resp.StatusCode, ErrAuthFailure)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
