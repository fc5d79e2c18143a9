package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nyckye/keyshop/internal/app"
	"github.com/nyckye/keyshop/internal/domain"
)

// Purchaser is the minimal interface needed by the purchase endpoints.
type Purchaser interface {
	Purchase(ctx context.Context, in app.PurchaseInput) (app.PurchaseResult, error)
	History(ctx context.Context, userID string) ([]domain.Purchase, error)
}

// HandlePurchase returns an HTTP handler that sells one key to a user.
func HandlePurchase(svc Purchaser, logger *slog.Logger) http.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req purchaseRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		res, err := svc.Purchase(r.Context(), app.PurchaseInput{
			UserID:    req.UserID,
			ProductID: req.ProductID,
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUserIDRequired):
				writeError(w, http.StatusBadRequest, codeUserIDRequired, err.Error())
			case errors.Is(err, domain.ErrInvalidID):
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case errors.Is(err, domain.ErrProductNotFound):
				writeError(w, http.StatusNotFound, codeProductNotFound, err.Error())
			case errors.Is(err, domain.ErrOutOfStock):
				writeError(w, http.StatusConflict, codeOutOfStock, err.Error())
			case errors.Is(err, domain.ErrStoreBusy):
				writeError(w, http.StatusServiceUnavailable, codeStoreBusy, err.Error())
			case errors.Is(err, domain.ErrInvariantViolation):
				logger.Error("purchase invariant violation",
					slog.String("user_id", req.UserID),
					slog.String("product_id", req.ProductID),
					slog.String("error", err.Error()),
				)
				writeError(w, http.StatusInternalServerError, codeInvariantViolation, "invariant violation")
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, purchaseResponse{
			PurchaseID: res.Purchase.ID,
			ProductID:  res.Purchase.ProductID,
			Key:        res.Key,
			Price:      res.Price,
			CreatedAt:  res.Purchase.CreatedAt,
		})
	}
}

// HandlePurchaseHistory returns an HTTP handler listing a user's purchases,
// most recent first.
func HandlePurchaseHistory(svc Purchaser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		purchases, err := svc.History(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUserIDRequired):
				writeError(w, http.StatusBadRequest, codeUserIDRequired, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		resp := make([]purchaseHistoryEntry, 0, len(purchases))
		for _, p := range purchases {
			resp = append(resp, purchaseHistoryEntry{
				ID:          p.ID,
				ProductID:   p.ProductID,
				ProductName: p.ProductName,
				Price:       p.Price,
				CreatedAt:   p.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type purchaseRequest struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
}

type purchaseResponse struct {
	PurchaseID string    `json:"purchase_id"`
	ProductID  string    `json:"product_id"`
	Key        string    `json:"key"`
	Price      int64     `json:"price"`
	CreatedAt  time.Time `json:"created_at"`
}

type purchaseHistoryEntry struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Price       int64     `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}
