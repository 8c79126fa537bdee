package advisor_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lapakhq/lapak/internal/advisor"
	"github.com/lapakhq/lapak/internal/ledger"
)

func hasFinding(findings []advisor.Finding, severity advisor.Severity, substr string) bool {
	for _, f := range findings {
		if f.Severity == severity && strings.Contains(f.Message, substr) {
			return true
		}
	}

	return false
}

func TestRules_NoAnomalies(t *testing.T) {
	adv := advisor.NewRules()

	findings := adv.AnalyzeBusinessHealth(context.Background(), nil, []ledger.Product{
		{Name: "Kopi", Stock: 50, MinStockLevel: 10},
	})

	require.Len(t, findings, 1)
	assert.Equal(t, advisor.SeverityLow, findings[0].Severity)
	assert.NotEmpty(t, findings[0].ID)
	assert.NotEmpty(t, findings[0].Recommendation)
}

func TestRules_StockFindings(t *testing.T) {
	adv := advisor.NewRules()

	findings := adv.AnalyzeBusinessHealth(context.Background(), nil, []ledger.Product{
		{Name: "Kopi", Stock: 0, MinStockLevel: 10, Unit: "kg"},
		{Name: "Susu", Stock: 5, MinStockLevel: 12, Unit: "liter"},
		{Name: "Gula", Stock: 100, MinStockLevel: 20, Unit: "pack"},
	})

	assert.True(t, hasFinding(findings, advisor.SeverityHigh, "Kopi"))
	assert.True(t, hasFinding(findings, advisor.SeverityMedium, "Susu"))
	assert.False(t, hasFinding(findings, advisor.SeverityMedium, "Gula"))
	assert.False(t, hasFinding(findings, advisor.SeverityHigh, "Gula"))
}

func TestRules_OverstockPurchase(t *testing.T) {
	adv := advisor.NewRules()

	products := []ledger.Product{
		{Name: "Paper Cup", Stock: 500, MinStockLevel: 100, Unit: "pcs"},
	}
	txs := []ledger.Transaction{
		{
			Type:  ledger.TypePurchase,
			Date:  time.Now(),
			Items: []ledger.Item{{ProductName: "Paper Cup", Quantity: 200}},
		},
	}

	findings := adv.AnalyzeBusinessHealth(context.Background(), txs, products)

	assert.True(t, hasFinding(findings, advisor.SeverityMedium, "Paper Cup"))
}

func TestRules_CreditConcentration(t *testing.T) {
	adv := advisor.NewRules()

	txs := []ledger.Transaction{
		{Type: ledger.TypeSale, PaymentMethod: ledger.PaymentCredit, Counterparty: "Toko Pak Budi", TotalAmount: 900_000},
		{Type: ledger.TypeSale, PaymentMethod: ledger.PaymentCredit, Counterparty: "Warung Bu Siti", TotalAmount: 100_000},
	}

	findings := adv.AnalyzeBusinessHealth(context.Background(), txs, nil)

	assert.True(t, hasFinding(findings, advisor.SeverityHigh, "Toko Pak Budi"))
}

func TestRules_SplitSales(t *testing.T) {
	adv := advisor.NewRules()

	base := time.Now().UTC()

	// Newest first, three sales inside ten minutes.
	txs := []ledger.Transaction{
		{Type: ledger.TypeSale, PaymentMethod: ledger.PaymentCash, Counterparty: "Toko Pak Budi", Date: base},
		{Type: ledger.TypeSale, PaymentMethod: ledger.PaymentCash, Counterparty: "Toko Pak Budi", Date: base.Add(-3 * time.Minute)},
		{Type: ledger.TypeSale, PaymentMethod: ledger.PaymentCash, Counterparty: "Toko Pak Budi", Date: base.Add(-7 * time.Minute)},
	}

	findings := adv.AnalyzeBusinessHealth(context.Background(), txs, nil)

	assert.True(t, hasFinding(findings, advisor.SeverityHigh, "split"))
}

func TestRules_SpreadSalesNotFlagged(t *testing.T) {
	adv := advisor.NewRules()

	base := time.Now().UTC()

	txs := []ledger.Transaction{
		{Type: ledger.TypeSale, PaymentMethod: ledger.PaymentCash, Counterparty: "Toko Pak Budi", Date: base},
		{Type: ledger.TypeSale, PaymentMethod: ledger.PaymentCash, Counterparty: "Toko Pak Budi", Date: base.Add(-2 * time.Hour)},
		{Type: ledger.TypeSale, PaymentMethod: ledger.PaymentCash, Counterparty: "Toko Pak Budi", Date: base.Add(-4 * time.Hour)},
	}

	findings := adv.AnalyzeBusinessHealth(context.Background(), txs, nil)

	assert.False(t, hasFinding(findings, advisor.SeverityHigh, "split"))
}
