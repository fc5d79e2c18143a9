package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nyckye/keyshop/internal/clock"
	"github.com/nyckye/keyshop/internal/domain"
)

func TestInventoryService_AddKeys(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	makeSvc := func(productIDs ...string) (*InventoryService, *fakeInventoryRepo) {
		repo := newFakeInventoryRepo(productIDs...)
		return NewInventoryService(repo, clock.NewFixed(now)), repo
	}

	t.Run("adds one key per payload", func(t *testing.T) {
		svc, _ := makeSvc("prod-1")

		added, err := svc.AddKeys(context.Background(), "prod-1", []string{"k1", "k2", "k3"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if added != 3 {
			t.Fatalf("expected 3 added, got %d", added)
		}

		stock, err := svc.Stock(context.Background(), "prod-1")
		if err != nil {
			t.Fatalf("stock: %v", err)
		}
		if stock != 3 {
			t.Fatalf("expected stock 3, got %d", stock)
		}
	})

	t.Run("discards blank payloads", func(t *testing.T) {
		svc, repo := makeSvc("prod-1")

		added, err := svc.AddKeys(context.Background(), "prod-1", []string{"  k1  ", "", "   ", "\t", "k2"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if added != 2 {
			t.Fatalf("expected 2 added, got %d", added)
		}
		for _, k := range repo.keys {
			if k.Payload != "k1" && k.Payload != "k2" {
				t.Fatalf("expected trimmed payloads, got %q", k.Payload)
			}
		}
	})

	t.Run("no deduplication", func(t *testing.T) {
		svc, _ := makeSvc("prod-1")

		if _, err := svc.AddKeys(context.Background(), "prod-1", []string{"same", "same"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		stock, _ := svc.Stock(context.Background(), "prod-1")
		if stock != 2 {
			t.Fatalf("expected stock 2, got %d", stock)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		svc, _ := makeSvc()

		_, err := svc.AddKeys(context.Background(), "missing", []string{"k1"})
		if !errors.Is(err, domain.ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})

	t.Run("empty product id", func(t *testing.T) {
		svc, _ := makeSvc("prod-1")

		_, err := svc.AddKeys(context.Background(), "", []string{"k1"})
		if !errors.Is(err, domain.ErrInvalidID) {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})
}

type fakeInventoryRepo struct {
	products map[string]domain.Product
	keys     []domain.ProductKey
}

func newFakeInventoryRepo(productIDs ...string) *fakeInventoryRepo {
	products := make(map[string]domain.Product, len(productIDs))
	for _, id := range productIDs {
		products[id] = domain.Product{ID: id}
	}
	return &fakeInventoryRepo{products: products}
}

func (f *fakeInventoryRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	keys := append([]domain.ProductKey{}, f.keys...)
	if err := fn(ctx); err != nil {
		f.keys = keys
		return err
	}
	return nil
}

func (f *fakeInventoryRepo) GetProductForUpdate(_ context.Context, productID string) (domain.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeInventoryRepo) InsertKey(_ context.Context, key domain.ProductKey) error {
	f.keys = append(f.keys, key)
	return nil
}

func (f *fakeInventoryRepo) CountAvailable(_ context.Context, productID string) (int, error) {
	count := 0
	for _, k := range f.keys {
		if k.ProductID == productID && !k.Sold {
			count++
		}
	}
	return count, nil
}
