package app

import (
	"context"
	"strings"

	"github.com/nyckye/keyshop/internal/clock"
	"github.com/nyckye/keyshop/internal/domain"
)

type InventoryRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetProductForUpdate(ctx context.Context, productID string) (domain.Product, error)
	InsertKey(ctx context.Context, key domain.ProductKey) error
	CountAvailable(ctx context.Context, productID string) (int, error)
}

type InventoryService struct {
	repo  InventoryRepository
	clock clock.Clock
}

func NewInventoryService(repo InventoryRepository, clk clock.Clock) *InventoryService {
	return &InventoryService{
		repo:  repo,
		clock: clk,
	}
}

// AddKeys appends one unsold key per non-blank payload and returns how many
// were inserted. Payloads are trimmed; blank lines from bulk paste are
// dropped silently. There is no deduplication: adding the same payload twice
// yields two keys.
func (s *InventoryService) AddKeys(ctx context.Context, productID string, payloads []string) (int, error) {
	if productID == "" {
		return 0, domain.ErrInvalidID
	}

	now := s.clock.Now()
	added := 0

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetProductForUpdate(txCtx, productID); err != nil {
			return err
		}
		for _, payload := range payloads {
			payload = strings.TrimSpace(payload)
			if payload == "" {
				continue
			}
			key := domain.ProductKey{
				ID:        newID(),
				ProductID: productID,
				Payload:   payload,
				CreatedAt: now,
			}
			if err := s.repo.InsertKey(txCtx, key); err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// Stock reports the number of unsold keys for a product.
func (s *InventoryService) Stock(ctx context.Context, productID string) (int, error) {
	if productID == "" {
		return 0, domain.ErrInvalidID
	}
	return s.repo.CountAvailable(ctx, productID)
}
