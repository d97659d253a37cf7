package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"purchasing/internal/core/apperror"
	"purchasing/internal/domain/catalogs/currency"
	"purchasing/internal/infrastructure/storage/postgres"
)

const currencyTable = "cat_currencies"

var _ currency.Repository = (*CurrencyRepo)(nil)

// CurrencyRepo implements currency.Repository.
type CurrencyRepo struct {
	*BaseCatalogRepo[*currency.Currency]
}

// NewCurrencyRepo creates a new currency repository.
func NewCurrencyRepo(txManager *postgres.TxManager) *CurrencyRepo {
	return &CurrencyRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			currencyTable,
			postgres.ExtractDBColumns[currency.Currency](),
			func() *currency.Currency { return &currency.Currency{} },
		),
	}
}

// FindByISOCode retrieves currency by ISO code.
func (r *CurrencyRepo) FindByISOCode(ctx context.Context, isoCode string) (*currency.Currency, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"iso_code": isoCode}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c currency.Currency
	if err := pgxscan.Get(ctx, r.querier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("currency", isoCode)
		}
		return nil, fmt.Errorf("find by iso code: %w", err)
	}
	return &c, nil
}

// GetLocal retrieves the local (base) currency.
func (r *CurrencyRepo) GetLocal(ctx context.Context) (*currency.Currency, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"is_local": true}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c currency.Currency
	if err := pgxscan.Get(ctx, r.querier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("currency", "local")
		}
		return nil, fmt.Errorf("get local currency: %w", err)
	}
	return &c, nil
}

// ClearLocal clears the local flag on all currencies.
func (r *CurrencyRepo) ClearLocal(ctx context.Context) error {
	sql, args, err := r.Builder().
		Update(currencyTable).
		Set("is_local", false).
		Where(squirrel.Eq{"is_local": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("clear local: %w", err)
	}
	return nil
}
