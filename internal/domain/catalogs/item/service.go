package item

import (
	"context"

	"purchasing/internal/core/apperror"
	"purchasing/internal/core/tx"
	"purchasing/internal/domain"
)

// Service provides business logic for the Item catalog.
type Service struct {
	*domain.CatalogService[*Item]
	repo Repository
}

// NewService creates a new Item service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Item]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "item",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().On(domain.BeforeCreate, svc.checkCodeUnique)

	return svc
}

func (s *Service) checkCodeUnique(ctx context.Context, it *Item) error {
	exists, err := s.repo.ExistsByCode(ctx, it.Code)
	if err != nil {
		return err
	}
	if exists {
		return apperror.NewDuplicate("item", "code", it.Code)
	}
	return nil
}

// FindByBarcode retrieves item by barcode.
func (s *Service) FindByBarcode(ctx context.Context, barcode string) (*Item, error) {
	return s.repo.FindByBarcode(ctx, barcode)
}
