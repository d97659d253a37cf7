// Package refdata holds the per-session snapshot of reference data: the
// catalogs a document form needs plus the approval configuration.
//
// A snapshot is fetched once per session key and reused until the session
// ends. Staleness is an accepted tradeoff for everything here; the lifecycle
// guard's status check deliberately does NOT go through this cache because it
// must always see fresh data.
package refdata

import (
	"context"
	"sync"
	"time"

	"purchasing/internal/domain"
	"purchasing/internal/domain/approval"
	"purchasing/internal/domain/catalogs/currency"
	"purchasing/internal/domain/catalogs/item"
	"purchasing/internal/domain/catalogs/paymentterm"
	"purchasing/internal/domain/catalogs/supplier"
	"purchasing/internal/domain/catalogs/warehouse"
	"purchasing/pkg/logger"
)

// Snapshot is an immutable view of reference data for one session.
type Snapshot struct {
	Currencies   []*currency.Currency
	PaymentTerms []*paymentterm.PaymentTerm
	Suppliers    []*supplier.Supplier
	Items        []*item.Item
	Warehouses   []*warehouse.Warehouse

	ApprovalConfig *approval.Config

	LoadedAt time.Time
}

// Currency looks up a currency by ISO code within the snapshot.
func (s *Snapshot) Currency(isoCode string) (*currency.Currency, bool) {
	for _, c := range s.Currencies {
		if c.ISOCode == isoCode {
			return c, true
		}
	}
	return nil, false
}

// LocalCurrency returns the local currency of the snapshot.
func (s *Snapshot) LocalCurrency() (*currency.Currency, bool) {
	for _, c := range s.Currencies {
		if c.IsLocal {
			return c, true
		}
	}
	return nil, false
}

// PaymentTerm looks up a payment term by code within the snapshot.
func (s *Snapshot) PaymentTerm(code string) (*paymentterm.PaymentTerm, bool) {
	for _, p := range s.PaymentTerms {
		if p.Code == code {
			return p, true
		}
	}
	return nil, false
}

// LoadFunc produces a snapshot for a session key.
type LoadFunc func(ctx context.Context, key string) (*Snapshot, error)

type cacheEntry struct {
	ready    chan struct{}
	snapshot *Snapshot
	err      error
}

// Cache deduplicates concurrent loads per key and serves the loaded snapshot
// for the rest of the session. Failed loads are not cached, the next Get
// retries.
type Cache struct {
	load LoadFunc

	mu      sync.Mutex
	entries map[string]*cacheEntry
}

// NewCache creates a snapshot cache around a load function.
func NewCache(load LoadFunc) *Cache {
	return &Cache{
		load:    load,
		entries: make(map[string]*cacheEntry),
	}
}

// Get returns the snapshot for key, loading it on first use. Concurrent
// callers for the same key share one load.
func (c *Cache) Get(ctx context.Context, key string) (*Snapshot, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &cacheEntry{ready: make(chan struct{})}
		c.entries[key] = e
		c.mu.Unlock()

		e.snapshot, e.err = c.load(ctx, key)
		if e.err != nil {
			c.mu.Lock()
			delete(c.entries, key)
			c.mu.Unlock()
		}
		close(e.ready)
		return e.snapshot, e.err
	}
	c.mu.Unlock()

	select {
	case <-e.ready:
		return e.snapshot, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate drops the snapshot for key, forcing a reload on next Get.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// ApprovalConfigSource provides the approval configuration for a module.
type ApprovalConfigSource interface {
	GetConfig(ctx context.Context, moduleCode string) (*approval.Config, error)
}

// Loader builds snapshots from the catalog services.
type Loader struct {
	ModuleCode string

	Currencies   *currency.Service
	PaymentTerms *paymentterm.Service
	Suppliers    *supplier.Service
	Items        *item.Service
	Warehouses   *warehouse.Service
	Approvals    ApprovalConfigSource
}

// snapshotLimit bounds each reference list in a snapshot.
const snapshotLimit = 10000

// Load fetches all reference lists and the approval configuration.
func (l *Loader) Load(ctx context.Context, key string) (*Snapshot, error) {
	f := domain.DefaultListFilter()
	f.Limit = snapshotLimit

	s := &Snapshot{LoadedAt: time.Now().UTC()}

	currencies, err := l.Currencies.List(ctx, f)
	if err != nil {
		return nil, err
	}
	s.Currencies = currencies.Items

	terms, err := l.PaymentTerms.List(ctx, f)
	if err != nil {
		return nil, err
	}
	s.PaymentTerms = terms.Items

	suppliers, err := l.Suppliers.List(ctx, f)
	if err != nil {
		return nil, err
	}
	s.Suppliers = suppliers.Items

	items, err := l.Items.List(ctx, f)
	if err != nil {
		return nil, err
	}
	s.Items = items.Items

	warehouses, err := l.Warehouses.List(ctx, f)
	if err != nil {
		return nil, err
	}
	s.Warehouses = warehouses.Items

	cfg, err := l.Approvals.GetConfig(ctx, l.ModuleCode)
	if err != nil {
		return nil, err
	}
	s.ApprovalConfig = cfg

	logger.Debug(ctx, "reference data snapshot loaded",
		"key", key,
		"currencies", len(s.Currencies),
		"suppliers", len(s.Suppliers),
		"items", len(s.Items))

	return s, nil
}
