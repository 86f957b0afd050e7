// Package pipeline runs the daily reconciliation: fetch today's feeds,
// classify and format them into ledger rows, and append the rows that are not
// yet in the spreadsheet.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/TiberiusBR/sheet-nubank-updater/internal/ledger"
	"github.com/TiberiusBR/sheet-nubank-updater/internal/sheets"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrUpstreamTimeout means an upstream call did not answer within the bound.
var ErrUpstreamTimeout = errors.New("upstream call timed out")

const defaultUpstreamTimeout = 30 * time.Second

// Pipeline wires the feed source and the spreadsheet client together.
type Pipeline struct {
	feed    FeedSource
	sheet   Appender
	timeout time.Duration // bound per upstream call
	log     zerolog.Logger
}

// New creates a pipeline. timeout bounds each upstream call; zero means the
// default of 30s.
func New(feed FeedSource, sheet Appender, timeout time.Duration, log zerolog.Logger) *Pipeline {
	if timeout <= 0 {
		timeout = defaultUpstreamTimeout
	}
	return &Pipeline{feed: feed, sheet: sheet, timeout: timeout, log: log}
}

// BranchResult is the outcome of one ledger kind. Credit and transfer run
// independently; one can fail while the other succeeds.
type BranchResult struct {
	Append  sheets.AppendResult
	Rows    int // rows built from today's feed
	Skipped int // rows already present in the sheet
	Err     error
}

// Result aggregates one reconciliation run.
type Result struct {
	RunID    string
	Window   ledger.Window
	Credit   BranchResult
	Transfer BranchResult
}

// Run executes one reconciliation. The calendar day is resolved exactly once
// so filtering and range selection agree even when the run straddles
// midnight. The two branches share no state and run concurrently.
func (p *Pipeline) Run(ctx context.Context) Result {
	window := ledger.Today()
	runID := uuid.NewString()
	log := p.log.With().Str("run_id", runID).Str("day", window.ISODate()).Logger()

	result := Result{RunID: runID, Window: window}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		result.Credit = p.runCredit(ctx, window, log)
	}()
	go func() {
		defer wg.Done()
		result.Transfer = p.runTransfer(ctx, window, log)
	}()
	wg.Wait()

	log.Info().
		Int("credit_rows", result.Credit.Rows).
		Int("transfer_rows", result.Transfer.Rows).
		Bool("credit_ok", result.Credit.Err == nil).
		Bool("transfer_ok", result.Transfer.Err == nil).
		Msg("Reconciliation run finished")
	return result
}

func (p *Pipeline) runCredit(ctx context.Context, window ledger.Window, log zerolog.Logger) BranchResult {
	feed, err := p.fetchCard(ctx)
	if err != nil {
		return BranchResult{Err: fmt.Errorf("credit: %w", err)}
	}

	todays, err := ledger.TodayCardTransactions(feed, window)
	if err != nil {
		return BranchResult{Err: fmt.Errorf("credit: %w", err)}
	}

	rows, err := ledger.CreditRows(todays)
	if err != nil {
		return BranchResult{Err: fmt.Errorf("credit: %w", err)}
	}

	rng, err := sheets.RangeFor(sheets.KindCredit, window.Month)
	if err != nil {
		return BranchResult{Err: fmt.Errorf("credit: %w", err)}
	}
	return p.appendNew(ctx, rng, rows, log)
}

func (p *Pipeline) runTransfer(ctx context.Context, window ledger.Window, log zerolog.Logger) BranchResult {
	feed, err := p.fetchFeed(ctx)
	if err != nil {
		return BranchResult{Err: fmt.Errorf("transfer: %w", err)}
	}

	todays, err := ledger.TodayTransfers(feed, window)
	if err != nil {
		return BranchResult{Err: fmt.Errorf("transfer: %w", err)}
	}

	rows, err := ledger.TransferRows(todays)
	if err != nil {
		return BranchResult{Err: fmt.Errorf("transfer: %w", err)}
	}

	rng, err := sheets.RangeFor(sheets.KindTransfer, window.Month)
	if err != nil {
		return BranchResult{Err: fmt.Errorf("transfer: %w", err)}
	}
	return p.appendNew(ctx, rng, rows, log)
}

// appendNew appends the rows not already present in the destination range.
// Zero candidate rows short-circuit before any network call.
func (p *Pipeline) appendNew(ctx context.Context, rng string, rows []ledger.Row, log zerolog.Logger) BranchResult {
	if len(rows) == 0 {
		return BranchResult{}
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	existing, err := p.sheet.ExistingKeys(callCtx, rng)
	cancel()
	if err != nil {
		return BranchResult{Rows: len(rows), Err: fmt.Errorf("read %s: %w", rng, p.mapTimeout(err))}
	}

	fresh := make([]ledger.Row, 0, len(rows))
	for _, row := range rows {
		if _, ok := existing[sheets.RowKey(row)]; ok {
			continue
		}
		fresh = append(fresh, row)
	}
	skipped := len(rows) - len(fresh)
	if skipped > 0 {
		log.Info().Str("range", rng).Int("skipped", skipped).Msg("Skipping rows already in the sheet")
	}

	callCtx, cancel = context.WithTimeout(ctx, p.timeout)
	appended, err := p.sheet.Append(callCtx, rng, fresh)
	cancel()
	if err != nil {
		return BranchResult{Rows: len(rows), Skipped: skipped, Err: fmt.Errorf("append %s: %w", rng, p.mapTimeout(err))}
	}

	return BranchResult{Append: appended, Rows: len(rows), Skipped: skipped}
}

func (p *Pipeline) fetchCard(ctx context.Context) ([]ledger.RawTransaction, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	feed, err := p.feed.GetCardStatements(callCtx)
	if err != nil {
		return nil, p.mapTimeout(err)
	}
	return feed, nil
}

func (p *Pipeline) fetchFeed(ctx context.Context) ([]ledger.RawTransferEvent, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	feed, err := p.feed.GetAccountFeed(callCtx)
	if err != nil {
		return nil, p.mapTimeout(err)
	}
	return feed, nil
}

func (p *Pipeline) mapTimeout(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrUpstreamTimeout, err)
	}
	return err
}
