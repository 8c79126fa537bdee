package report_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lapakhq/lapak/internal/ledger"
	"github.com/lapakhq/lapak/internal/report"
	"github.com/lapakhq/lapak/internal/store"
	"github.com/lapakhq/lapak/internal/store/memory"
)

func seededService(t *testing.T) (*ledger.Service, *report.Service) {
	t.Helper()

	svc := ledger.NewService(store.New(memory.New()))

	return svc, report.NewService(svc)
}

func commitSale(t *testing.T, svc *ledger.Service, quantity int) *ledger.Transaction {
	t.Helper()

	products, err := svc.Products(context.Background())
	require.NoError(t, err)

	tx, err := svc.Commit(context.Background(), ledger.Draft{
		Type:          ledger.TypeSale,
		PaymentMethod: ledger.PaymentCash,
		Counterparty:  "Warung Bu Siti",
		Items:         []ledger.DraftItem{{ProductID: products[0].ID, Quantity: quantity}},
	})
	require.NoError(t, err)

	return tx
}

func TestService_WriteTransactionsCSV(t *testing.T) {
	svc, reports := seededService(t)

	tx := commitSale(t, svc, 2)

	var buf bytes.Buffer
	require.NoError(t, reports.WriteTransactionsCSV(context.Background(), &buf, ledger.ListFilter{}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "reference", rows[0][0])
	assert.Equal(t, tx.ReferenceNumber, rows[1][0])
	assert.Equal(t, "SALE", rows[1][2])
	assert.Equal(t, "Warung Bu Siti", rows[1][5])
	assert.Equal(t, "2", rows[1][7])
}

func TestService_WriteTransactionsCSV_Empty(t *testing.T) {
	_, reports := seededService(t)

	var buf bytes.Buffer
	require.NoError(t, reports.WriteTransactionsCSV(context.Background(), &buf, ledger.ListFilter{}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1) // header only
}

func TestService_SummaryText(t *testing.T) {
	svc, reports := seededService(t)

	commitSale(t, svc, 1)

	text, err := reports.SummaryText(context.Background())
	require.NoError(t, err)

	assert.Contains(t, text, "Revenue:     Rp 75.000")
	assert.Contains(t, text, "Profit:      Rp 75.000")
	assert.Contains(t, text, "Payables:    Rp 0")
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{75000, "Rp 75.000"},
		{1500000, "Rp 1.500.000"},
		{-25000, "-Rp 25.000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, report.FormatAmount(tt.amount))
	}
}
