package app

import (
	"context"
	"time"

	"github.com/nyckye/keyshop/internal/clock"
	"github.com/nyckye/keyshop/internal/domain"
)

type PurchaseRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetProductForUpdate(ctx context.Context, productID string) (domain.Product, error)
	EnsureUser(ctx context.Context, user domain.User) error
	ReserveKey(ctx context.Context, productID string) (domain.ProductKey, error)
	CreatePurchase(ctx context.Context, purchase domain.Purchase) error
	ListPurchasesByUser(ctx context.Context, userID string) ([]domain.Purchase, error)
}

// PurchaseService coordinates a sale: reserving a key and recording it in the
// ledger happen in one transaction, so no observer ever sees a sold key
// without a matching ledger row or vice versa.
type PurchaseService struct {
	repo   PurchaseRepository
	clock  clock.Clock
	txWait time.Duration
}

const defaultTxWait = 2 * time.Second

func NewPurchaseService(repo PurchaseRepository, clk clock.Clock, opts ...PurchaseServiceOption) *PurchaseService {
	svc := &PurchaseService{
		repo:   repo,
		clock:  clock.NewMonotonic(clk),
		txWait: defaultTxWait,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type PurchaseServiceOption func(*PurchaseService)

// WithTxWait overrides the overall deadline for a purchase transaction.
func WithTxWait(d time.Duration) PurchaseServiceOption {
	return func(s *PurchaseService) {
		if d > 0 {
			s.txWait = d
		}
	}
}

type PurchaseInput struct {
	UserID    string
	ProductID string
}

type PurchaseResult struct {
	Purchase domain.Purchase
	Key      string
	Price    int64
}

// Purchase sells exactly one key of a product to a user. The transaction
// locks the product row (serializing against concurrent purchases and
// deletion of the same product), reserves the oldest unsold key, and appends
// the ledger row at the locked-in price. Any failure after the reservation
// aborts the transaction, which un-sells the key; the payload only reaches
// the caller once the commit succeeded, so a rolled-back key was never
// disclosed.
func (s *PurchaseService) Purchase(ctx context.Context, in PurchaseInput) (PurchaseResult, error) {
	if in.UserID == "" {
		return PurchaseResult{}, domain.ErrUserIDRequired
	}
	if in.ProductID == "" {
		return PurchaseResult{}, domain.ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, s.txWait)
	defer cancel()

	now := s.clock.Now()
	var result PurchaseResult

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		product, err := s.repo.GetProductForUpdate(txCtx, in.ProductID)
		if err != nil {
			return err
		}

		if err := s.repo.EnsureUser(txCtx, domain.User{ID: in.UserID, CreatedAt: now}); err != nil {
			return err
		}

		key, err := s.repo.ReserveKey(txCtx, in.ProductID)
		if err != nil {
			return err
		}

		purchase := domain.Purchase{
			ID:          newID(),
			UserID:      in.UserID,
			ProductID:   in.ProductID,
			KeyID:       key.ID,
			ProductName: product.Name,
			Price:       product.Price,
			CreatedAt:   now,
		}
		if err := s.repo.CreatePurchase(txCtx, purchase); err != nil {
			return err
		}

		result = PurchaseResult{
			Purchase: purchase,
			Key:      key.Payload,
			Price:    product.Price,
		}
		return nil
	})
	if err != nil {
		return PurchaseResult{}, err
	}
	return result, nil
}

// History lists a user's purchases, most recent first. Unknown users simply
// have no purchases.
func (s *PurchaseService) History(ctx context.Context, userID string) ([]domain.Purchase, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}
	return s.repo.ListPurchasesByUser(ctx, userID)
}
