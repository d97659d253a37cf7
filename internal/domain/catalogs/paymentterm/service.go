package paymentterm

import (
	"context"
	"time"

	"purchasing/internal/core/tx"
	"purchasing/internal/domain"
)

// Service provides business logic for the PaymentTerm catalog.
type Service struct {
	*domain.CatalogService[*PaymentTerm]
	repo Repository
}

// NewService creates a new PaymentTerm service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*PaymentTerm]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "payment term",
	})

	return &Service{
		CatalogService: base,
		repo:           repo,
	}
}

// DueDate calculates the due date for a term code and reference date.
func (s *Service) DueDate(ctx context.Context, code string, ref time.Time) (time.Time, error) {
	term, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return time.Time{}, err
	}
	return term.DueDate(ref), nil
}
