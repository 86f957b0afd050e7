package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// Row is one normalized spreadsheet row, ordered to match the destination
// column block.
type Row []string

// CreditRows converts filtered card transactions into credit ledger rows:
// description, formatted amount, title, transaction date.
func CreditRows(txs []RawTransaction) ([]Row, error) {
	rows := make([]Row, 0, len(txs))
	for _, tx := range txs {
		value, err := FormatBRL(tx.Amount)
		if err != nil {
			return nil, fmt.Errorf("CreditRows: transaction %q: %w", tx.Description, err)
		}
		rows = append(rows, Row{tx.Description, value, tx.Title, isoDate(tx.Time)})
	}
	return rows, nil
}

// TransferRows converts filtered account events into transfer ledger rows:
// title, destination, value, post date. Received payments are skipped. The
// value column is passed through as feed text, unlike the card path; the feed
// already renders it.
func TransferRows(events []RawTransferEvent) ([]Row, error) {
	rows := make([]Row, 0, len(events))
	for _, e := range events {
		tr, err := Classify(e)
		if errors.Is(err, ErrExcluded) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("TransferRows: %w", err)
		}
		rows = append(rows, Row{tr.Title, tr.Destination, tr.Value, tr.Date})
	}
	return rows, nil
}

func isoDate(t string) string {
	date, _, _ := strings.Cut(t, "T")
	return date
}
