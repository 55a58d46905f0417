package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/toolscout/backend/metrics"
	"github.com/toolscout/backend/pricing"
	"github.com/toolscout/backend/stats"
)

func TestExtractPricingRecordsUsage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	storage, err := stats.NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	defer storage.Shutdown()

	extractor = pricing.New()
	collected = metrics.New()
	usageStats = storage

	r := gin.New()
	r.POST("/api/pricing/extract", extractPricing)

	body := `{"text": "Pricing details:\n\n**Free**\nPrice: $0\n\n**Pro**\nPrice: $29/month"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/pricing/extract", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}

	// The persisted monthly counter must move along with the Prometheus one.
	if got := storage.GetCurrentStats().Extractions; got != 1 {
		t.Errorf("persisted extractions = %d, want 1", got)
	}
}

func TestExtractPricingRejectsBadBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	extractor = pricing.New()
	collected = metrics.New()
	usageStats = nil

	r := gin.New()
	r.POST("/api/pricing/extract", extractPricing)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/pricing/extract", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
