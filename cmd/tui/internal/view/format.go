package view

import (
	"context"
	"time"

	"github.com/lapakhq/lapak/internal/report"
)

const opTimeout = 10 * time.Second

// FormatAmount renders an amount in minor currency units.
func FormatAmount(amount int64) string {
	return report.FormatAmount(amount)
}

// FormatDate formats a time.Time into YYYY-MM-DD HH:MM.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

// OpCtx returns a context with a standard timeout for store operations.
func OpCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}
