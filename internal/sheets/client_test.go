package sheets

import (
	"context"
	"io"
	"testing"

	"github.com/TiberiusBR/sheet-nubank-updater/internal/ledger"
	"github.com/TiberiusBR/sheet-nubank-updater/internal/logger"
)

func TestAppend_EmptyRowsIsNoOp(t *testing.T) {
	// No service is wired; a network call would panic.
	c := &Client{spreadsheetID: "sheet", log: logger.NewWithWriter(io.Discard)}

	got, err := c.Append(context.Background(), "julho!I6:L", nil)
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if got != (AppendResult{}) {
		t.Errorf("Append() = %+v, want zero result", got)
	}

	got, err = c.Append(context.Background(), "julho!I6:L", []ledger.Row{})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if got != (AppendResult{}) {
		t.Errorf("Append() = %+v, want zero result", got)
	}
}
