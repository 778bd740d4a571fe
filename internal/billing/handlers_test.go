package billing

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	validator "github.com/go-playground/validator/v10"
)

func quote(t *testing.T, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	h := &Handler{Validate: validator.New()}
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/transactions/lines/quote", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h.Quote(rec, req)
	return rec
}

func TestQuoteRentalLine(t *testing.T) {
	rec := quote(t, map[string]any{
		"quantity":       "2",
		"unitPrice":      "100.00",
		"rentalPeriod":   7,
		"discountAmount": "10.00",
		"taxAmount":      "32.40",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var payload struct {
		Data quoteLineResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got := payload.Data.Total.String(); got != "1422.4" {
		t.Fatalf("total = %s, want 1422.4", got)
	}
	if got := payload.Data.ExtendedPrice.String(); got != "1400" {
		t.Fatalf("extended = %s, want 1400", got)
	}
}

func TestQuoteWithTaxRate(t *testing.T) {
	rec := quote(t, map[string]any{
		"quantity":  "1",
		"unitPrice": "250.00",
		"taxRate":   "10",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var payload struct {
		Data quoteLineResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got := payload.Data.TaxAmount.String(); got != "25" {
		t.Fatalf("tax = %s, want 25", got)
	}
	if got := payload.Data.Total.String(); got != "275" {
		t.Fatalf("total = %s, want 275", got)
	}
}

func TestQuoteRejectsZeroQuantity(t *testing.T) {
	rec := quote(t, map[string]any{
		"quantity":  "0",
		"unitPrice": "10.00",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestQuoteRejectsMalformedAmount(t *testing.T) {
	rec := quote(t, map[string]any{
		"quantity":  "1",
		"unitPrice": "ten dollars",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}
