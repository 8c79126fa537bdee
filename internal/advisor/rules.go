package advisor

import (
	"context"
	"fmt"
	"time"

	"github.com/lapakhq/lapak/internal/ledger"
)

// Rules is the offline heuristic advisor. It satisfies the same contract
// as the remote one and is used when no API key is configured.
type Rules struct{}

func NewRules() *Rules {
	return &Rules{}
}

const splitWindow = 10 * time.Minute

func (r *Rules) AnalyzeBusinessHealth(_ context.Context, txs []ledger.Transaction, products []ledger.Product) []Finding {
	now := time.Now().UTC()

	var findings []Finding

	add := func(severity Severity, message, recommendation string) {
		findings = append(findings, Finding{
			ID:             findingID(len(findings)),
			Timestamp:      now,
			Severity:       severity,
			Message:        message,
			Recommendation: recommendation,
		})
	}

	for _, p := range products {
		switch {
		case p.Stock == 0:
			add(SeverityHigh,
				fmt.Sprintf("%s is out of stock.", p.Name),
				fmt.Sprintf("Raise a purchase order for %s immediately; sales against it will be rejected.", p.Name))
		case p.BelowMinStock():
			add(SeverityMedium,
				fmt.Sprintf("%s is at or below its reorder point (%d %s left, minimum %d).", p.Name, p.Stock, p.Unit, p.MinStockLevel),
				fmt.Sprintf("Restock %s before it runs out.", p.Name))
		}
	}

	recentTxs := recent(txs)

	if overstocked := overstockPurchases(recentTxs, products); len(overstocked) > 0 {
		for _, name := range overstocked {
			add(SeverityMedium,
				fmt.Sprintf("Recent purchase of %s although stock is already well above the minimum level.", name),
				"Review purchasing cadence; capital is tied up in slow-moving stock.")
		}
	}

	if party, share := creditConcentration(recentTxs); share > 50 {
		add(SeverityHigh,
			fmt.Sprintf("%d%% of outstanding credit sales are concentrated on %s.", share, party),
			fmt.Sprintf("Check the settlement history of %s before extending further credit.", party))
	}

	if party := splitSales(recentTxs); party != "" {
		add(SeverityHigh,
			fmt.Sprintf("Multiple rapid sales to %s within %s look like a split transaction.", party, splitWindow),
			"Verify whether the sales were split to stay under an authorization threshold.")
	}

	if len(findings) == 0 {
		add(SeverityLow,
			"No anomalies detected in the recent ledger.",
			"Keep recording every sale and purchase as it happens so audits stay meaningful.")
	}

	return findings
}

// overstockPurchases reports product names bought recently while their
// current stock already sits at three times the reorder point or more.
func overstockPurchases(txs []ledger.Transaction, products []ledger.Product) []string {
	stocked := make(map[string]bool, len(products))

	for _, p := range products {
		if p.MinStockLevel > 0 && p.Stock >= 3*p.MinStockLevel {
			stocked[p.Name] = true
		}
	}

	seen := make(map[string]bool)

	var names []string

	for _, tx := range txs {
		if tx.Type != ledger.TypePurchase {
			continue
		}

		for _, it := range tx.Items {
			if stocked[it.ProductName] && !seen[it.ProductName] {
				seen[it.ProductName] = true

				names = append(names, it.ProductName)
			}
		}
	}

	return names
}

// creditConcentration returns the counterparty holding the largest share
// of credit sales and that share in percent. Zero share means no exposure.
func creditConcentration(txs []ledger.Transaction) (string, int) {
	totals := make(map[string]int64)

	var sum int64

	for _, tx := range txs {
		if tx.Type == ledger.TypeSale && tx.PaymentMethod == ledger.PaymentCredit {
			totals[tx.Counterparty] += tx.TotalAmount
			sum += tx.TotalAmount
		}
	}

	if sum == 0 || len(totals) < 2 {
		return "", 0
	}

	var top string

	var topAmount int64

	for party, amount := range totals {
		if amount > topAmount {
			top, topAmount = party, amount
		}
	}

	return top, int(topAmount * 100 / sum)
}

// splitSales returns a counterparty with three or more sales inside the
// split window, or an empty string.
func splitSales(txs []ledger.Transaction) string {
	var dates = make(map[string][]time.Time)

	for _, tx := range txs {
		if tx.Type == ledger.TypeSale {
			dates[tx.Counterparty] = append(dates[tx.Counterparty], tx.Date)
		}
	}

	for party, ts := range dates {
		if len(ts) < 3 {
			continue
		}

		// The ledger is newest first, so timestamps arrive descending.
		for i := 0; i+2 < len(ts); i++ {
			if ts[i].Sub(ts[i+2]) <= splitWindow {
				return party
			}
		}
	}

	return ""
}
