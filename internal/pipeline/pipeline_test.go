package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/TiberiusBR/sheet-nubank-updater/internal/ledger"
	"github.com/TiberiusBR/sheet-nubank-updater/internal/logger"
	"github.com/TiberiusBR/sheet-nubank-updater/internal/sheets"
)

type mockFeed struct {
	cards       []ledger.RawTransaction
	cardErr     error
	transfers   []ledger.RawTransferEvent
	transferErr error
}

func (m *mockFeed) GetCardStatements(ctx context.Context) ([]ledger.RawTransaction, error) {
	return m.cards, m.cardErr
}

func (m *mockFeed) GetAccountFeed(ctx context.Context) ([]ledger.RawTransferEvent, error) {
	return m.transfers, m.transferErr
}

type mockSheet struct {
	existing map[string]map[string]struct{} // range -> keys
	appended map[string][]ledger.Row
	reads    int
	writes   int
}

func newMockSheet() *mockSheet {
	return &mockSheet{
		existing: make(map[string]map[string]struct{}),
		appended: make(map[string][]ledger.Row),
	}
}

func (m *mockSheet) Append(ctx context.Context, rng string, rows []ledger.Row) (sheets.AppendResult, error) {
	m.writes++
	m.appended[rng] = append(m.appended[rng], rows...)
	return sheets.AppendResult{UpdatedRange: rng, UpdatedRows: int64(len(rows))}, nil
}

func (m *mockSheet) ExistingKeys(ctx context.Context, rng string) (map[string]struct{}, error) {
	m.reads++
	keys, ok := m.existing[rng]
	if !ok {
		return map[string]struct{}{}, nil
	}
	return keys, nil
}

func testPipeline(feed FeedSource, sheet Appender) *Pipeline {
	log := logger.NewWithWriter(io.Discard)
	return New(feed, sheet, time.Second, log)
}

func todayISO() string { return ledger.Today().ISODate() }

func TestRun_BothBranches(t *testing.T) {
	today := todayISO()
	feed := &mockFeed{
		cards: []ledger.RawTransaction{
			{Time: today + "T10:00:00Z", Description: "Padaria", Amount: 1200, Title: "compra"},
			{Time: "2000-01-01T10:00:00Z", Description: "old", Amount: 1, Title: "compra"},
		},
		transfers: []ledger.RawTransferEvent{
			{Title: "Transferência enviada", Detail: "Maria\nR$ 10,00", PostDate: today},
		},
	}
	sheet := newMockSheet()

	result := testPipeline(feed, sheet).Run(context.Background())

	if result.Credit.Err != nil {
		t.Fatalf("credit branch error = %v", result.Credit.Err)
	}
	if result.Transfer.Err != nil {
		t.Fatalf("transfer branch error = %v", result.Transfer.Err)
	}
	if result.Credit.Rows != 1 || result.Transfer.Rows != 1 {
		t.Errorf("rows = %d credit / %d transfer, want 1/1", result.Credit.Rows, result.Transfer.Rows)
	}

	creditRng, _ := sheets.RangeFor(sheets.KindCredit, result.Window.Month)
	got := sheet.appended[creditRng]
	if len(got) != 1 || got[0][0] != "Padaria" || got[0][1] != "R$ 12,00" {
		t.Errorf("unexpected credit rows appended: %v", got)
	}
}

func TestRun_SkipsRowsAlreadyPresent(t *testing.T) {
	today := todayISO()
	feed := &mockFeed{
		cards: []ledger.RawTransaction{
			{Time: today + "T10:00:00Z", Description: "Padaria", Amount: 1200, Title: "compra"},
			{Time: today + "T09:00:00Z", Description: "Mercado", Amount: 5000, Title: "compra"},
		},
	}
	sheet := newMockSheet()

	creditRng, _ := sheets.RangeFor(sheets.KindCredit, ledger.Today().Month)
	sheet.existing[creditRng] = map[string]struct{}{
		sheets.RowKey([]string{"Padaria", "R$ 12,00", "compra", today}): {},
	}

	result := testPipeline(feed, sheet).Run(context.Background())

	if result.Credit.Err != nil {
		t.Fatalf("credit branch error = %v", result.Credit.Err)
	}
	if result.Credit.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", result.Credit.Skipped)
	}
	got := sheet.appended[creditRng]
	if len(got) != 1 || got[0][0] != "Mercado" {
		t.Errorf("unexpected rows appended: %v", got)
	}
}

// On a rerun the sheet no longer holds the cells the pipeline wrote: the
// sheet has parsed them and renders dates and amounts in its own locale.
// Those rows must still be recognized as already present.
func TestRun_SkipsRowsSheetReRendered(t *testing.T) {
	w := ledger.Today()
	feed := &mockFeed{
		cards: []ledger.RawTransaction{
			{Time: w.ISODate() + "T10:00:00Z", Description: "Padaria", Amount: 150050, Title: "compra"},
		},
	}
	sheet := newMockSheet()

	localeDate := fmt.Sprintf("%02d/%02d/%04d", w.Day, w.Month, w.Year)
	creditRng, _ := sheets.RangeFor(sheets.KindCredit, w.Month)
	sheet.existing[creditRng] = map[string]struct{}{
		sheets.RowKey([]string{"Padaria", "R$ 1.500,50", "compra", localeDate}): {},
	}

	result := testPipeline(feed, sheet).Run(context.Background())

	if result.Credit.Err != nil {
		t.Fatalf("credit branch error = %v", result.Credit.Err)
	}
	if result.Credit.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", result.Credit.Skipped)
	}
	if got := sheet.appended[creditRng]; len(got) != 0 {
		t.Errorf("row appended despite being in the sheet: %v", got)
	}
}

func TestRun_EmptyFeedsTouchNothing(t *testing.T) {
	sheet := newMockSheet()

	result := testPipeline(&mockFeed{}, sheet).Run(context.Background())

	if result.Credit.Err != nil || result.Transfer.Err != nil {
		t.Fatalf("unexpected errors: %v / %v", result.Credit.Err, result.Transfer.Err)
	}
	if sheet.reads != 0 || sheet.writes != 0 {
		t.Errorf("sheet touched on empty feeds: %d reads, %d writes", sheet.reads, sheet.writes)
	}
	if result.Credit.Append != (sheets.AppendResult{}) {
		t.Errorf("empty run must return a zero-valued result, got %+v", result.Credit.Append)
	}
}

func TestRun_BranchFailuresAreIndependent(t *testing.T) {
	today := todayISO()
	feed := &mockFeed{
		cardErr: errors.New("feed unavailable"),
		transfers: []ledger.RawTransferEvent{
			{Title: "Transferência enviada", Detail: "Maria\nR$ 10,00", PostDate: today},
		},
	}
	sheet := newMockSheet()

	result := testPipeline(feed, sheet).Run(context.Background())

	if result.Credit.Err == nil {
		t.Error("credit branch should have failed")
	}
	if result.Transfer.Err != nil {
		t.Errorf("transfer branch error = %v, want nil", result.Transfer.Err)
	}
	if sheet.writes != 1 {
		t.Errorf("writes = %d, want 1 (transfer only)", sheet.writes)
	}
}

func TestRun_TimeoutSurfacesAsUpstreamTimeout(t *testing.T) {
	feed := &mockFeed{cardErr: context.DeadlineExceeded}
	result := testPipeline(feed, newMockSheet()).Run(context.Background())

	if !errors.Is(result.Credit.Err, ErrUpstreamTimeout) {
		t.Errorf("credit error = %v, want ErrUpstreamTimeout", result.Credit.Err)
	}
}

func TestRun_ExcludedTransfersProduceNoRows(t *testing.T) {
	today := todayISO()
	feed := &mockFeed{
		transfers: []ledger.RawTransferEvent{
			{Title: "Transferência recebida", Detail: "Fulano\nR$ 10,00", PostDate: today},
		},
	}
	sheet := newMockSheet()

	result := testPipeline(feed, sheet).Run(context.Background())

	if result.Transfer.Err != nil {
		t.Fatalf("transfer branch error = %v", result.Transfer.Err)
	}
	if sheet.writes != 0 {
		t.Errorf("writes = %d, want 0", sheet.writes)
	}
}
