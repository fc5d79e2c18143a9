package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nyckye/keyshop/internal/app"
	"github.com/nyckye/keyshop/internal/domain"
)

func TestHandlePurchase(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	successResult := app.PurchaseResult{
		Purchase: domain.Purchase{
			ID:        "purchase-123",
			UserID:    "u1",
			ProductID: "p1",
			CreatedAt: now,
		},
		Key:   "XXXX-YYYY",
		Price: 100,
	}

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			body:           `{"user_id":"u1","product_id":"p1"}`,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"key":"XXXX-YYYY"`,
		},
		{
			name:           "invalid json",
			body:           `{"user_id":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing user id",
			body:           `{"user_id":"","product_id":"p1"}`,
			serviceErr:     domain.ErrUserIDRequired,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid product id",
			body:           `{"user_id":"u1","product_id":"p1"}`,
			serviceErr:     domain.ErrInvalidID,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "product not found",
			body:           `{"user_id":"u1","product_id":"p1"}`,
			serviceErr:     domain.ErrProductNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "out of stock",
			body:           `{"user_id":"u1","product_id":"p1"}`,
			serviceErr:     domain.ErrOutOfStock,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"code":"out_of_stock"`,
		},
		{
			name:           "store busy",
			body:           `{"user_id":"u1","product_id":"p1"}`,
			serviceErr:     domain.ErrStoreBusy,
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name:           "invariant violation",
			body:           `{"user_id":"u1","product_id":"p1"}`,
			serviceErr:     fmt.Errorf("purchase for key k1: %w", domain.ErrInvariantViolation),
			expectedStatus: http.StatusInternalServerError,
			expectedSubstr: `"code":"invariant_violation"`,
		},
		{
			name:           "internal error",
			body:           `{"user_id":"u1","product_id":"p1"}`,
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubPurchaser{
				result: successResult,
				err:    tt.serviceErr,
			}
			req := httptest.NewRequest(http.MethodPost, "/purchases", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			handler := HandlePurchase(svc, nil)
			handler.ServeHTTP(rec, req)

			res := rec.Result()
			if res.StatusCode != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, res.StatusCode)
			}
			if tt.expectedSubstr != "" {
				body := rec.Body.String()
				if !strings.Contains(body, tt.expectedSubstr) {
					t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, body)
				}
			}
		})
	}
}

func TestHandlePurchaseHistory(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	svc := &stubPurchaser{
		history: []domain.Purchase{
			{ID: "pur-2", ProductID: "p1", ProductName: "Game A", Price: 120, CreatedAt: now.Add(time.Hour)},
			{ID: "pur-1", ProductID: "p1", ProductName: "Game A", Price: 100, CreatedAt: now},
		},
	}

	router := NewRouter(Services{Purchases: svc}, nil)
	req := httptest.NewRequest(http.MethodGet, "/users/u1/purchases", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"id":"pur-2"`) || !strings.Contains(body, `"product_name":"Game A"`) {
		t.Fatalf("unexpected body: %s", body)
	}
	if strings.Index(body, "pur-2") > strings.Index(body, "pur-1") {
		t.Fatalf("expected most recent first: %s", body)
	}
}

type stubPurchaser struct {
	result  app.PurchaseResult
	history []domain.Purchase
	err     error
}

func (s *stubPurchaser) Purchase(_ context.Context, _ app.PurchaseInput) (app.PurchaseResult, error) {
	if s.err != nil {
		return app.PurchaseResult{}, s.err
	}
	return s.result, nil
}

func (s *stubPurchaser) History(_ context.Context, _ string) ([]domain.Purchase, error) {
	return s.history, s.err
}
