package supplier

import (
	"context"

	"purchasing/internal/core/apperror"
	"purchasing/internal/core/tx"
	"purchasing/internal/domain"
)

// Service provides business logic for the Supplier catalog.
type Service struct {
	*domain.CatalogService[*Supplier]
	repo Repository
}

// NewService creates a new Supplier service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Supplier]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "supplier",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().On(domain.BeforeCreate, svc.checkCodeUnique)

	return svc
}

func (s *Service) checkCodeUnique(ctx context.Context, sup *Supplier) error {
	exists, err := s.repo.ExistsByCode(ctx, sup.Code)
	if err != nil {
		return err
	}
	if exists {
		return apperror.NewDuplicate("supplier", "code", sup.Code)
	}
	return nil
}

// FindByTaxID retrieves supplier by tax registration number.
func (s *Service) FindByTaxID(ctx context.Context, taxID string) (*Supplier, error) {
	return s.repo.FindByTaxID(ctx, taxID)
}
