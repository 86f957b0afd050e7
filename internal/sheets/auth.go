package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// ErrAuthFailure means the Google credentials are missing, invalid or could
// not be refreshed.
var ErrAuthFailure = errors.New("google authentication failed")

// NewService builds a Sheets service from an OAuth client file and a cached
// token file. An expired token is refreshed through its refresh token and the
// refreshed token is written back, so the next run starts warm. There is no
// interactive consent flow here; a token that cannot be refreshed is an
// ErrAuthFailure.
func NewService(ctx context.Context, clientFile, tokenFile string) (*gsheet.Service, error) {
	clientJSON, err := os.ReadFile(clientFile)
	if err != nil {
		return nil, fmt.Errorf("NewService: read oauth client file: %w", err)
	}
	cfg, err := google.ConfigFromJSON(clientJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("NewService: oauth config: %w", err)
	}

	tok, err := readToken(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("NewService: %w: %w", err, ErrAuthFailure)
	}

	src := cfg.TokenSource(ctx, tok)
	current, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("NewService: refresh token: %w: %w", err, ErrAuthFailure)
	}
	if current.AccessToken != tok.AccessToken {
		if err := writeToken(tokenFile, current); err != nil {
			return nil, fmt.Errorf("NewService: %w", err)
		}
	}

	svc, err := gsheet.NewService(ctx, goption.WithTokenSource(src))
	if err != nil {
		return nil, fmt.Errorf("NewService: sheets service: %w", err)
	}
	return svc, nil
}

func readToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}
	tok := &oauth2.Token{}
	if err := json.Unmarshal(data, tok); err != nil {
		return nil, fmt.Errorf("decode token file: %w", err)
	}
	return tok, nil
}

func writeToken(path string, tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}
