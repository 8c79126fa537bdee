package advisor_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lapakhq/lapak/internal/advisor"
	"github.com/lapakhq/lapak/internal/ledger"
)

func geminiResponse(t *testing.T, findings string) []byte {
	t.Helper()

	payload := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": findings}}}},
		},
	}

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	return body
}

func TestGemini_MissingKey(t *testing.T) {
	adv := advisor.NewGemini(advisor.GeminiConfig{})

	findings := adv.AnalyzeBusinessHealth(context.Background(), nil, nil)

	require.Len(t, findings, 1)
	assert.Equal(t, advisor.SeverityLow, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "not configured")
}

func TestGemini_Analyze(t *testing.T) {
	var gotPath, gotKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(geminiResponse(t, `[
			{"severity":"HIGH","message":"Credit exposure is concentrated.","recommendation":"Review settlement history."},
			{"severity":"LOW","message":"Ledger looks consistent.","recommendation":"Keep it up."}
		]`))
	}))
	defer srv.Close()

	adv := advisor.NewGemini(advisor.GeminiConfig{
		APIKey:  "test-key",
		Model:   "test-model",
		BaseURL: srv.URL,
	})

	findings := adv.AnalyzeBusinessHealth(context.Background(), []ledger.Transaction{}, []ledger.Product{})

	assert.Equal(t, "/models/test-model:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)

	require.Len(t, findings, 2)
	assert.Equal(t, advisor.SeverityHigh, findings[0].Severity)
	assert.Equal(t, "Credit exposure is concentrated.", findings[0].Message)
	assert.Equal(t, advisor.SeverityLow, findings[1].Severity)
	assert.NotEmpty(t, findings[0].ID)
	assert.False(t, findings[0].Timestamp.IsZero())
}

func TestGemini_ServerError_Degrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	adv := advisor.NewGemini(advisor.GeminiConfig{APIKey: "test-key", BaseURL: srv.URL})

	findings := adv.AnalyzeBusinessHealth(context.Background(), nil, nil)

	require.Len(t, findings, 1)
	assert.Equal(t, advisor.SeverityMedium, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "Could not analyze")
}

func TestGemini_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	adv := advisor.NewGemini(advisor.GeminiConfig{APIKey: "test-key", BaseURL: srv.URL})

	findings := adv.AnalyzeBusinessHealth(context.Background(), nil, nil)

	assert.Empty(t, findings)
}
