// Package sheets appends ledger rows to month-named tabs of a Google
// spreadsheet and reads existing rows back for the duplicate guard.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/TiberiusBR/sheet-nubank-updater/internal/ledger"
	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
	gsheet "google.golang.org/api/sheets/v4"
)

// ErrAppendFailed means the spreadsheet provider rejected the write.
var ErrAppendFailed = errors.New("spreadsheet append rejected")

// AppendResult summarizes one append call.
type AppendResult struct {
	UpdatedRange string `json:"updatedRange"`
	UpdatedRows  int64  `json:"updatedRows"`
	UpdatedCells int64  `json:"updatedCells"`
}

// Client wraps the Sheets API for a single spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	log           zerolog.Logger
}

// NewClient resolves Google credentials and binds the client to one
// spreadsheet.
func NewClient(ctx context.Context, spreadsheetID, clientFile, tokenFile string, log zerolog.Logger) (*Client, error) {
	if spreadsheetID == "" {
		return nil, errors.New("NewClient: missing spreadsheet id")
	}
	svc, err := NewService(ctx, clientFile, tokenFile)
	if err != nil {
		return nil, fmt.Errorf("NewClient: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, log: log}, nil
}

// Append adds rows after existing content in rng. Appending zero rows is a
// deterministic no-op that returns a zero-valued success without touching the
// network. Rows are written with USER_ENTERED so the sheet parses dates and
// currency the way a typing user would.
func (c *Client) Append(ctx context.Context, rng string, rows []ledger.Row) (AppendResult, error) {
	if len(rows) == 0 {
		return AppendResult{}, nil
	}

	values := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}

	call := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, &gsheet.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS")

	resp, err := call.Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return AppendResult{}, fmt.Errorf("Append %s: upstream status %d: %w", rng, apiErr.Code, ErrAppendFailed)
		}
		return AppendResult{}, fmt.Errorf("Append %s: %w", rng, err)
	}

	result := AppendResult{}
	if resp.Updates != nil {
		result.UpdatedRange = resp.Updates.UpdatedRange
		result.UpdatedRows = resp.Updates.UpdatedRows
		result.UpdatedCells = resp.Updates.UpdatedCells
	}
	c.log.Info().Str("range", rng).Int("rows", len(rows)).Msg("Appended ledger rows")
	return result, nil
}

// ExistingKeys reads the destination range and returns the content keys of
// the rows already present, for the duplicate guard.
func (c *Client) ExistingKeys(ctx context.Context, rng string) (map[string]struct{}, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("ExistingKeys %s: upstream status %d: %w", rng, apiErr.Code, ErrAppendFailed)
		}
		return nil, fmt.Errorf("ExistingKeys %s: %w", rng, err)
	}

	keys := make(map[string]struct{}, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = strings.TrimSpace(fmt.Sprint(cell))
		}
		keys[RowKey(cells)] = struct{}{}
	}
	return keys, nil
}
