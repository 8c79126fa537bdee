package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lapakhq/lapak/internal/ledger"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiConfig configures the remote generative advisor.
type GeminiConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Gemini asks a remote generative model for audit findings. The model's
// reasoning is opaque; only the JSON findings contract matters here.
type Gemini struct {
	cfg GeminiConfig
}

func NewGemini(cfg GeminiConfig) *Gemini {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}

	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultGeminiBaseURL
	}

	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "gemini-2.5-flash"
	}

	return &Gemini{cfg: cfg}
}

// snapshot types keep the request payload compact: only the fields the
// auditor needs, not the full entities.
type snapshotItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"qty"`
	Price    int64  `json:"price"`
}

type snapshotTx struct {
	Date   time.Time      `json:"date"`
	Type   ledger.Type    `json:"type"`
	Total  int64          `json:"total"`
	Method string         `json:"method"`
	Ref    string         `json:"ref"`
	Items  []snapshotItem `json:"items"`
}

type snapshotProduct struct {
	Name     string `json:"name"`
	Stock    int    `json:"current_stock"`
	MinLevel int    `json:"min_level"`
	Cost     int64  `json:"cost"`
}

func (g *Gemini) AnalyzeBusinessHealth(ctx context.Context, txs []ledger.Transaction, products []ledger.Product) []Finding {
	if strings.TrimSpace(g.cfg.APIKey) == "" {
		return []Finding{{
			ID:             "error-key",
			Timestamp:      time.Now().UTC(),
			Severity:       SeverityLow,
			Message:        "Audit service is not configured.",
			Recommendation: "Set GEMINI_API_KEY to enable automated audits; until then only the built-in rule checks run.",
		}}
	}

	findings, err := g.analyze(ctx, txs, products)
	if err != nil {
		slog.Error("advisor analysis failed", "error", err)

		return []Finding{{
			ID:             "err-gen",
			Timestamp:      time.Now().UTC(),
			Severity:       SeverityMedium,
			Message:        "Could not analyze current transaction patterns.",
			Recommendation: "Check network connectivity and the configured API key, then run the audit again.",
		}}
	}

	return findings
}

func (g *Gemini) analyze(ctx context.Context, txs []ledger.Transaction, products []ledger.Product) ([]Finding, error) {
	dataContext, err := json.Marshal(buildSnapshot(recent(txs), products))
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}

	requestBody, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": auditPrompt(dataContext)}}},
		},
		"generationConfig": map[string]any{
			"responseMimeType": "application/json",
			"responseSchema":   findingsSchema,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.cfg.BaseURL, g.cfg.Model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(requestBody))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.cfg.APIKey)

	res, err := g.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("unexpected status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	var rawText string

	for _, c := range payload.Candidates {
		for _, p := range c.Content.Parts {
			if strings.TrimSpace(p.Text) != "" {
				rawText = p.Text
				break
			}
		}

		if rawText != "" {
			break
		}
	}

	if rawText == "" {
		return []Finding{}, nil
	}

	var results []struct {
		Severity       Severity `json:"severity"`
		Message        string   `json:"message"`
		Recommendation string   `json:"recommendation"`
	}

	if err := json.Unmarshal([]byte(rawText), &results); err != nil {
		return nil, fmt.Errorf("decoding findings: %w", err)
	}

	findings := make([]Finding, len(results))
	now := time.Now().UTC()

	for i, r := range results {
		findings[i] = Finding{
			ID:             findingID(i),
			Timestamp:      now,
			Severity:       r.Severity,
			Message:        r.Message,
			Recommendation: r.Recommendation,
		}
	}

	return findings, nil
}

func buildSnapshot(txs []ledger.Transaction, products []ledger.Product) map[string]any {
	snapTxs := make([]snapshotTx, len(txs))

	for i, tx := range txs {
		items := make([]snapshotItem, len(tx.Items))
		for j, it := range tx.Items {
			items[j] = snapshotItem{Name: it.ProductName, Quantity: it.Quantity, Price: it.PriceAtMoment}
		}

		snapTxs[i] = snapshotTx{
			Date:   tx.Date,
			Type:   tx.Type,
			Total:  tx.TotalAmount,
			Method: string(tx.PaymentMethod),
			Ref:    tx.ReferenceNumber,
			Items:  items,
		}
	}

	snapProducts := make([]snapshotProduct, len(products))
	for i, p := range products {
		snapProducts[i] = snapshotProduct{Name: p.Name, Stock: p.Stock, MinLevel: p.MinStockLevel, Cost: p.Cost}
	}

	return map[string]any{
		"recent_transactions": snapTxs,
		"inventory_status":    snapProducts,
	}
}

func auditPrompt(dataContext []byte) string {
	return `Role: you are the internal auditor and business analyst for a small retail business.
Goal: analyze the transaction data for information quality (managerial) and compliance (internal control).

Detection tasks:
1. EXPENDITURE CYCLE (purchasing):
   - Overstocking: purchases of goods whose stock is already far above the minimum level (capital inefficiency).
   - Unusual pricing: purchases priced suspiciously against the usual unit cost.
2. REVENUE CYCLE (sales):
   - Credit risk: large credit sales to a single party with no settlement history.
   - Unusual patterns: repeated transactions in a short window (split transactions) to dodge authorization.
3. INTERNAL CONTROL (fraud detection):
   - Indications of stock manipulation.
   - Whether cash flow is consistent with sales activity.

Input data (JSON):
` + string(dataContext) + `

Required output: a JSON array of audit findings.
Severity levels: 'HIGH' (fraud indication / major financial risk), 'MEDIUM' (operational inefficiency), 'LOW' (improvement suggestion).`
}

var findingsSchema = map[string]any{
	"type": "ARRAY",
	"items": map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"severity":       map[string]any{"type": "STRING", "enum": []string{"LOW", "MEDIUM", "HIGH"}},
			"message":        map[string]any{"type": "STRING", "description": "Finding summary for management"},
			"recommendation": map[string]any{"type": "STRING", "description": "Specific corrective action"},
		},
		"required": []string{"severity", "message", "recommendation"},
	},
}
