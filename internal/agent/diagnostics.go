package agent

import (
	"time"

	"agentlee/internal/logging"

	"github.com/google/uuid"
)

// =============================================================================
// DIAGNOSTICS
// =============================================================================

// Diagnostic records the outcome of one pipeline run.
type Diagnostic struct {
	ID          string
	Timestamp   time.Time
	DurationMs  int64
	TextPreview string
	Success     bool
	Models      string
	Error       string
}

// LastDiagnostic returns the most recent pipeline record, or nil before
// the first ensemble run. Deterministic answers do not produce records.
func (a *Agent) LastDiagnostic() *Diagnostic {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.lastDiag == nil {
		return nil
	}
	d := *a.lastDiag
	return &d
}

func (a *Agent) recordDiagnostic(d *Diagnostic) {
	d.ID = uuid.NewString()
	a.mu.Lock()
	a.lastDiag = d
	a.mu.Unlock()
	if d.Success {
		logging.Diagnostics("%s: %dms models=%s preview=%q", d.ID, d.DurationMs, d.Models, d.TextPreview)
	} else {
		logging.Diagnostics("%s: FAILED error=%q preview=%q", d.ID, d.Error, d.TextPreview)
	}
}
