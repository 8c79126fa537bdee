package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parsePrice parses a catalog price cell into minor currency units.
// Accepts plain integers ("75000"), dotted thousands ("75.000") and an
// optional currency prefix ("Rp 75.000").
func parsePrice(s string) (int64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "Rp")
	clean = strings.TrimSpace(clean)
	clean = strings.ReplaceAll(clean, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, err
	}

	return d.Round(0).IntPart(), nil
}
