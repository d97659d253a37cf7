package purchase_order

import (
	"context"
	"time"

	"purchasing/internal/core/id"
	"purchasing/internal/domain"
	"purchasing/internal/domain/lifecycle"
)

// Repository defines persistence operations for purchase orders.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *PurchaseOrder) error
	GetByID(ctx context.Context, docID id.ID) (*PurchaseOrder, error)
	GetByRunNo(ctx context.Context, runNo int64) (*PurchaseOrder, error)
	GetByNumber(ctx context.Context, number string) (*PurchaseOrder, error)
	Update(ctx context.Context, doc *PurchaseOrder) error

	// Cancel sets the cancelled record status without touching anything else.
	Cancel(ctx context.Context, runNo int64) error

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseOrder], error)

	// GetStatusSnapshot reads the current status fields directly from
	// storage. Never served from a cache: the lifecycle guard requires a
	// fresh read.
	GetStatusSnapshot(ctx context.Context, runNo int64) (lifecycle.StatusSnapshot, error)

	// SetApprovalStatus writes the status code for one approval level.
	SetApprovalStatus(ctx context.Context, runNo int64, level int, status, comment, userName string) error

	// GetApprovalStatuses reads the raw per-level status codes.
	GetApprovalStatuses(ctx context.Context, runNo int64) ([]string, error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*PurchaseOrder, error)
}

// ListFilter for filtering purchase orders.
type ListFilter struct {
	domain.ListFilter

	SupplierID   *id.ID
	WarehouseID  *id.ID
	RecordStatus *int
	DateFrom     *time.Time
	DateTo       *time.Time
}
