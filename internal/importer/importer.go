// Package importer reads product catalog CSV files and produces products
// ready to be upserted into the catalog. It auto-detects the column
// layout by matching headers against known profiles and decodes legacy
// charsets to UTF-8 first.
package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	enc "github.com/lapakhq/lapak/internal/encoding"
	"github.com/lapakhq/lapak/internal/ledger"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse reads a catalog CSV and returns products without IDs assigned;
// ID resolution (match by SKU or create) happens at apply time.
func (p *Parser) Parse(r io.Reader) ([]ledger.Product, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	br := bufio.NewReader(utf8r)

	reader := csv.NewReader(br)
	reader.Comma = detectComma(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching catalog format found: expected name, SKU, price and cost columns")
	}

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

// detectComma peeks at the first line and picks the more frequent of the
// two separators catalog exports use.
func detectComma(br *bufio.Reader) rune {
	peek, _ := br.Peek(1024)

	line := peek
	if i := bytes.IndexByte(peek, '\n'); i >= 0 {
		line = peek[:i]
	}

	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}

	return ','
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

func (c colIndex) value(row []string, col string) string {
	idx, ok := c[col]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// matchesProfile checks if all required columns of a profile are present.
func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts products from data rows using the matched profile.
// headerRowNum is the 0-based index of the header in the original file
// (for error messages).
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]ledger.Product, error) {
	var products []ledger.Product

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, skipping header

		name := cols.value(row, p.NameCol)
		sku := cols.value(row, p.SKUCol)

		// Blank lines and footer rows carry neither; skip them.
		if name == "" && sku == "" {
			continue
		}

		if name == "" || sku == "" {
			return nil, fmt.Errorf("row %d: product name and SKU are required", rowNum)
		}

		price, err := parsePrice(cols.value(row, p.PriceCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid price: %w", rowNum, err)
		}

		cost, err := parsePrice(cols.value(row, p.CostCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid cost: %w", rowNum, err)
		}

		if price < 0 || cost < 0 {
			return nil, fmt.Errorf("row %d: price and cost must be non-negative", rowNum)
		}

		stock, err := optionalInt(cols.value(row, p.StockCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid stock: %w", rowNum, err)
		}

		minStock, err := optionalInt(cols.value(row, p.MinStockCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid minimum stock: %w", rowNum, err)
		}

		unit := "pcs"
		if u := cols.value(row, p.UnitCol); u != "" {
			unit = u
		}

		products = append(products, ledger.Product{
			Name:          name,
			SKU:           sku,
			Price:         price,
			Cost:          cost,
			Stock:         stock,
			MinStockLevel: minStock,
			Unit:          unit,
		})
	}

	return products, nil
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}

	if n < 0 {
		return 0, fmt.Errorf("negative value %d", n)
	}

	return n, nil
}
