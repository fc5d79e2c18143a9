package app

import (
	"context"

	"github.com/nyckye/keyshop/internal/domain"
)

type StatsRepository interface {
	Totals(ctx context.Context) (domain.Stats, error)
}

type StatsService struct {
	repo StatsRepository
}

func NewStatsService(repo StatsRepository) *StatsService {
	return &StatsService{repo: repo}
}

func (s *StatsService) Totals(ctx context.Context) (domain.Stats, error) {
	return s.repo.Totals(ctx)
}
