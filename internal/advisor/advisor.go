// Package advisor analyzes a read-only snapshot of the ledger and
// inventory and reports severity-tagged findings. Implementations never
// surface errors to the caller: any failure degrades into a single
// finding so the audit surface cannot crash on advisor trouble.
package advisor

import (
	"context"
	"fmt"
	"time"

	"github.com/lapakhq/lapak/internal/ledger"
)

// Severity ranks a finding: HIGH for fraud or major financial risk,
// MEDIUM for operational inefficiency, LOW for improvement suggestions.
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// Finding is a single audit observation. Findings are ephemeral; they are
// never persisted.
type Finding struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	Severity       Severity  `json:"severity"`
	Message        string    `json:"message"`
	Recommendation string    `json:"recommendation"`
}

// HealthAdvisor is the capability consumed by the audit surfaces.
type HealthAdvisor interface {
	AnalyzeBusinessHealth(ctx context.Context, txs []ledger.Transaction, products []ledger.Product) []Finding
}

// recentLimit caps how much ledger history an advisor considers.
const recentLimit = 30

func findingID(i int) string {
	return fmt.Sprintf("audit-%d-%d", time.Now().UnixMilli(), i)
}

func recent(txs []ledger.Transaction) []ledger.Transaction {
	if len(txs) > recentLimit {
		return txs[:recentLimit]
	}

	return txs
}
