package pipeline

import (
	"context"

	"github.com/TiberiusBR/sheet-nubank-updater/internal/ledger"
	"github.com/TiberiusBR/sheet-nubank-updater/internal/sheets"
)

// FeedSource reads transaction feeds from the bank. Implemented by the nubank
// client; the interface enables mocking in tests.
type FeedSource interface {
	// GetCardStatements returns the card statement feed, newest first.
	GetCardStatements(ctx context.Context) ([]ledger.RawTransaction, error)
	// GetAccountFeed returns the account transfer feed, newest first.
	GetAccountFeed(ctx context.Context) ([]ledger.RawTransferEvent, error)
}

// Appender writes ledger rows to the remote spreadsheet and reads existing
// rows back for the duplicate guard.
type Appender interface {
	Append(ctx context.Context, rng string, rows []ledger.Row) (sheets.AppendResult, error)
	ExistingKeys(ctx context.Context, rng string) (map[string]struct{}, error)
}
