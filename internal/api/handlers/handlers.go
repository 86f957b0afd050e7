package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/TiberiusBR/sheet-nubank-updater/internal/api/middleware"
	"github.com/TiberiusBR/sheet-nubank-updater/internal/logger"
	"github.com/TiberiusBR/sheet-nubank-updater/internal/nubank"
	"github.com/TiberiusBR/sheet-nubank-updater/internal/pipeline"
	"github.com/TiberiusBR/sheet-nubank-updater/internal/sheets"
)

// Runner triggers one reconciliation run. Implemented by pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context) pipeline.Result
}

// ReconcileHandler exposes the reconciliation pipeline over HTTP. Handlers
// log through the request-scoped logger the middleware puts on the context.
type ReconcileHandler struct {
	runner Runner
}

// NewReconcileHandler creates a new reconcile handler.
func NewReconcileHandler(runner Runner) *ReconcileHandler {
	return &ReconcileHandler{runner: runner}
}

// Health handles GET / as a liveness check.
func (h *ReconcileHandler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"Application": "Running"})
}

// CardBill handles GET /cardbill: runs the full reconciliation and reports
// both ledger kinds. Branch failures are independent; the response carries
// each branch's own outcome and the status code reflects the worst of them.
func (h *ReconcileHandler) CardBill(w http.ResponseWriter, r *http.Request) {
	result := h.runner.Run(r.Context())

	status := http.StatusOK
	payload := map[string]interface{}{
		"run_id":   result.RunID,
		"day":      result.Window.ISODate(),
		"credit":   branchPayload(result.Credit),
		"transfer": branchPayload(result.Transfer),
	}

	log := logger.FromContext(r.Context())
	for _, branch := range []pipeline.BranchResult{result.Credit, result.Transfer} {
		if branch.Err == nil {
			continue
		}
		log.Error().Err(branch.Err).Str("run_id", result.RunID).Msg("Reconciliation branch failed")
		if s := statusFor(branch.Err); s > status {
			status = s
		}
	}

	middleware.WriteJSON(w, status, payload)
}

func branchPayload(b pipeline.BranchResult) map[string]interface{} {
	if b.Err != nil {
		return map[string]interface{}{"error": b.Err.Error()}
	}
	return map[string]interface{}{
		"result":  b.Append,
		"rows":    b.Rows,
		"skipped": b.Skipped,
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrUpstreamTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, nubank.ErrAuthFailure), errors.Is(err, sheets.ErrAuthFailure):
		return http.StatusBadGateway
	case errors.Is(err, sheets.ErrAppendFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
