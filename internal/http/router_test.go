package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lapakhq/lapak/internal/advisor"
	apphttp "github.com/lapakhq/lapak/internal/http"
	"github.com/lapakhq/lapak/internal/http/audit"
	"github.com/lapakhq/lapak/internal/http/export"
	"github.com/lapakhq/lapak/internal/http/importcsv"
	"github.com/lapakhq/lapak/internal/http/products"
	"github.com/lapakhq/lapak/internal/http/transactions"
	"github.com/lapakhq/lapak/internal/importer"
	"github.com/lapakhq/lapak/internal/ledger"
	"github.com/lapakhq/lapak/internal/report"
	"github.com/lapakhq/lapak/internal/store"
	"github.com/lapakhq/lapak/internal/store/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	svc := ledger.NewService(store.New(memory.New()))

	handler := apphttp.New(
		transactions.NewHandler(svc),
		products.NewHandler(svc),
		audit.NewHandler(svc, advisor.NewRules()),
		importcsv.NewHandler(importer.NewParser(), svc),
		export.NewHandler(report.NewService(svc)),
	)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return srv
}

type productJSON struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	SKU   string    `json:"sku"`
	Stock int       `json:"stock"`
}

func listProducts(t *testing.T, srv *httptest.Server) []productJSON {
	t.Helper()

	res, err := http.Get(srv.URL + "/api/v1/products")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var got []productJSON
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))

	return got
}

func postJSON(t *testing.T, srv *httptest.Server, path string, body string) *http.Response {
	t.Helper()

	res, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })

	return res
}

func saleBody(productID uuid.UUID, quantity int) string {
	return fmt.Sprintf(`{
		"type": "SALE",
		"payment_method": "CASH",
		"counterparty": "Warung Bu Siti",
		"items": [{"product_id": %q, "quantity": %d}]
	}`, productID, quantity)
}

func TestRouter_CommitSale(t *testing.T) {
	srv := newTestServer(t)

	catalog := listProducts(t, srv)
	require.Len(t, catalog, 4)

	res := postJSON(t, srv, "/api/v1/transactions", saleBody(catalog[0].ID, 2))
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var tx struct {
		ReferenceNumber string `json:"reference_number"`
		TotalAmount     int64  `json:"total_amount"`
		Status          string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&tx))

	assert.True(t, strings.HasPrefix(tx.ReferenceNumber, "INV-"))
	assert.Equal(t, int64(150_000), tx.TotalAmount)
	assert.Equal(t, "COMPLETED", tx.Status)

	after := listProducts(t, srv)
	assert.Equal(t, catalog[0].Stock-2, after[0].Stock)
}

func TestRouter_CommitSale_InsufficientStock(t *testing.T) {
	srv := newTestServer(t)

	catalog := listProducts(t, srv)

	res := postJSON(t, srv, "/api/v1/transactions", saleBody(catalog[0].ID, catalog[0].Stock+1))
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	// Stock is untouched after the rejection.
	assert.Equal(t, catalog[0].Stock, listProducts(t, srv)[0].Stock)
}

func TestRouter_CommitPurchase_UnknownProduct(t *testing.T) {
	srv := newTestServer(t)

	body := fmt.Sprintf(`{
		"type": "PURCHASE",
		"payment_method": "CASH",
		"counterparty": "PT Sumber Rejeki",
		"items": [{"product_id": %q, "quantity": 5}]
	}`, uuid.New())

	res := postJSON(t, srv, "/api/v1/transactions", body)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
}

func TestRouter_CommitValidation(t *testing.T) {
	srv := newTestServer(t)

	catalog := listProducts(t, srv)

	tests := []struct {
		name string
		body string
	}{
		{
			name: "MissingCounterparty",
			body: fmt.Sprintf(`{"type":"SALE","payment_method":"CASH","items":[{"product_id":%q,"quantity":1}]}`, catalog[0].ID),
		},
		{
			name: "NoItems",
			body: `{"type":"SALE","payment_method":"CASH","counterparty":"Warung Bu Siti","items":[]}`,
		},
		{
			name: "BadType",
			body: fmt.Sprintf(`{"type":"REFUND","payment_method":"CASH","counterparty":"X","items":[{"product_id":%q,"quantity":1}]}`, catalog[0].ID),
		},
		{
			name: "NotJSON",
			body: `{{{`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := postJSON(t, srv, "/api/v1/transactions", tt.body)
			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		})
	}
}

func TestRouter_ContentTypeEnforced(t *testing.T) {
	srv := newTestServer(t)

	res, err := http.Post(srv.URL+"/api/v1/transactions", "text/plain", strings.NewReader("hi"))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusUnsupportedMediaType, res.StatusCode)
}

func TestRouter_Summary(t *testing.T) {
	srv := newTestServer(t)

	catalog := listProducts(t, srv)

	res := postJSON(t, srv, "/api/v1/transactions", saleBody(catalog[0].ID, 1))
	require.Equal(t, http.StatusCreated, res.StatusCode)

	sumRes, err := http.Get(srv.URL + "/api/v1/summary")
	require.NoError(t, err)
	defer sumRes.Body.Close()

	require.Equal(t, http.StatusOK, sumRes.StatusCode)

	var sum struct {
		Revenue     int64 `json:"revenue"`
		Expenses    int64 `json:"expenses"`
		Receivables int64 `json:"receivables"`
		Payables    int64 `json:"payables"`
	}
	require.NoError(t, json.NewDecoder(sumRes.Body).Decode(&sum))

	assert.Equal(t, int64(75_000), sum.Revenue)
	assert.Zero(t, sum.Expenses)
}

func TestRouter_SaveProduct(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/products", strings.NewReader(`{
		"name": "Teh Celup",
		"sku": "TEA-005",
		"price": 12000,
		"cost": 8000,
		"stock": 40,
		"min_stock_level": 10,
		"unit": "box"
	}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var saved productJSON
	require.NoError(t, json.NewDecoder(res.Body).Decode(&saved))
	assert.NotEqual(t, uuid.Nil, saved.ID)

	assert.Len(t, listProducts(t, srv), 5)
}

func TestRouter_LowStock(t *testing.T) {
	srv := newTestServer(t)

	res, err := http.Get(srv.URL + "/api/v1/products/low-stock")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var low []productJSON
	require.NoError(t, json.NewDecoder(res.Body).Decode(&low))
	require.Len(t, low, 1)
	assert.Equal(t, "MLK-004", low[0].SKU)
}

func TestRouter_Audit(t *testing.T) {
	srv := newTestServer(t)

	res := postJSON(t, srv, "/api/v1/audit", "{}")
	require.Equal(t, http.StatusOK, res.StatusCode)

	var got struct {
		Findings []struct {
			Severity string `json:"severity"`
			Message  string `json:"message"`
		} `json:"findings"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))

	// The seed catalog has one product below minimum, so the offline
	// advisor always has something to say.
	require.NotEmpty(t, got.Findings)
}

func TestRouter_ImportProducts(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", "catalog.csv")
	require.NoError(t, err)

	_, err = fw.Write([]byte("Name,SKU,Price,Cost,Stock\nKeripik Singkong,SNK-010,10000,6000,100\nKopi Arabika Premium,COF-001,80000,48000,60\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	res, err := http.Post(srv.URL+"/api/v1/import/products", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusCreated, res.StatusCode)

	var got struct {
		Created int `json:"created"`
		Updated int `json:"updated"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))

	assert.Equal(t, 1, got.Created)
	assert.Equal(t, 1, got.Updated)
}

func TestRouter_ImportProducts_BadFile(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", "notes.csv")
	require.NoError(t, err)

	_, err = fw.Write([]byte("just,some,random\nvalues,without,headers\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	res, err := http.Post(srv.URL+"/api/v1/import/products", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
}

func TestRouter_ExportTransactions(t *testing.T) {
	srv := newTestServer(t)

	catalog := listProducts(t, srv)

	res := postJSON(t, srv, "/api/v1/transactions", saleBody(catalog[0].ID, 1))
	require.Equal(t, http.StatusCreated, res.StatusCode)

	expRes, err := http.Get(srv.URL + "/api/v1/export/transactions")
	require.NoError(t, err)
	defer expRes.Body.Close()

	require.Equal(t, http.StatusOK, expRes.StatusCode)
	assert.Equal(t, "text/csv", expRes.Header.Get("Content-Type"))
	assert.Contains(t, expRes.Header.Get("Content-Disposition"), "attachment")

	var body bytes.Buffer
	_, err = body.ReadFrom(expRes.Body)
	require.NoError(t, err)

	assert.Contains(t, body.String(), "Kopi Arabika Premium")
}
