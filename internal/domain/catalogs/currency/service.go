package currency

import (
	"context"

	"purchasing/internal/core/apperror"
	"purchasing/internal/core/id"
	"purchasing/internal/core/tx"
	"purchasing/internal/domain"
)

// Service provides business logic for the Currency catalog.
type Service struct {
	*domain.CatalogService[*Currency]
	repo Repository
}

// NewService creates a new Currency service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Currency]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "currency",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().On(domain.BeforeCreate, svc.prepare)
	base.Hooks().On(domain.BeforeUpdate, svc.prepare)
	base.Hooks().On(domain.BeforeDelete, svc.validateBeforeDelete)

	return svc
}

func (s *Service) prepare(ctx context.Context, curr *Currency) error {
	if curr.Code == "" {
		curr.Code = curr.ISOCode
	}

	if exists, _ := s.isoCodeTaken(ctx, curr.ISOCode, curr.ID); exists {
		return apperror.NewConflict("currency with this ISO code already exists").
			WithDetail("isoCode", curr.ISOCode)
	}

	// one local currency at a time
	if curr.IsLocal {
		if err := s.repo.ClearLocal(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) validateBeforeDelete(ctx context.Context, curr *Currency) error {
	if curr.IsLocal {
		return apperror.NewValidation("cannot delete local currency")
	}
	return nil
}

// FindByISOCode retrieves currency by ISO code.
func (s *Service) FindByISOCode(ctx context.Context, isoCode string) (*Currency, error) {
	return s.repo.FindByISOCode(ctx, isoCode)
}

// GetLocal retrieves the local currency.
func (s *Service) GetLocal(ctx context.Context) (*Currency, error) {
	return s.repo.GetLocal(ctx)
}

func (s *Service) isoCodeTaken(ctx context.Context, isoCode string, excludeID id.ID) (bool, error) {
	if isoCode == "" {
		return false, nil
	}
	existing, err := s.repo.FindByISOCode(ctx, isoCode)
	if err != nil {
		return false, nil
	}
	return existing.ID != excludeID, nil
}
