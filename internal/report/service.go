// Package report renders the ledger and financial summary for export.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lapakhq/lapak/internal/ledger"
)

type Service struct {
	ledger *ledger.Service
}

func NewService(ledgerService *ledger.Service) *Service {
	return &Service{ledger: ledgerService}
}

var csvHeader = []string{
	"reference", "date", "type", "status", "payment_method", "counterparty",
	"product", "quantity", "unit_price", "line_total", "transaction_total",
}

// WriteTransactionsCSV streams the ledger as CSV, one row per transaction
// line, newest transaction first.
func (s *Service) WriteTransactionsCSV(ctx context.Context, w io.Writer, filter ledger.ListFilter) error {
	txs, err := s.ledger.Transactions(ctx, filter)
	if err != nil {
		return fmt.Errorf("listing transactions: %w", err)
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		for _, it := range tx.Items {
			row := []string{
				tx.ReferenceNumber,
				tx.Date.Format("2006-01-02 15:04:05"),
				string(tx.Type),
				string(tx.Status),
				string(tx.PaymentMethod),
				tx.Counterparty,
				it.ProductName,
				strconv.Itoa(it.Quantity),
				strconv.FormatInt(it.PriceAtMoment, 10),
				strconv.FormatInt(it.Total, 10),
				strconv.FormatInt(tx.TotalAmount, 10),
			}

			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing row for %s: %w", tx.ReferenceNumber, err)
			}
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}

// SummaryText renders the financial summary as a plain-text block.
func (s *Service) SummaryText(ctx context.Context) (string, error) {
	sum, err := s.ledger.Summary(ctx)
	if err != nil {
		return "", fmt.Errorf("computing summary: %w", err)
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "Revenue:     %s\n", FormatAmount(sum.Revenue))
	fmt.Fprintf(&sb, "Expenses:    %s\n", FormatAmount(sum.Expenses))
	fmt.Fprintf(&sb, "Profit:      %s\n", FormatAmount(sum.Revenue-sum.Expenses))
	fmt.Fprintf(&sb, "Receivables: %s\n", FormatAmount(sum.Receivables))
	fmt.Fprintf(&sb, "Payables:    %s\n", FormatAmount(sum.Payables))

	return sb.String(), nil
}

// FormatAmount renders a minor-unit amount with thousands separators,
// e.g. 75000 -> "Rp 75.000".
func FormatAmount(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)

	var sb strings.Builder

	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte('.')
		}

		sb.WriteRune(d)
	}

	return fmt.Sprintf("%sRp %s", sign, sb.String())
}
