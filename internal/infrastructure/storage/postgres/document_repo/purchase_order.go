// Package document_repo provides PostgreSQL implementations for document
// repositories.
package document_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"purchasing/internal/core/apperror"
	"purchasing/internal/core/id"
	"purchasing/internal/domain"
	"purchasing/internal/domain/documents/purchase_order"
	"purchasing/internal/domain/lifecycle"
	"purchasing/internal/infrastructure/storage/postgres"
)

const (
	purchaseOrdersTable        = "doc_purchase_orders"
	purchaseOrderLinesTable    = "doc_purchase_order_lines"
	purchaseOrderApprovalTable = "doc_purchase_order_approvals"
)

var lineColumns = []string{
	"line_id", "line_no", "item_id", "description", "unit",
	"quantity", "unit_price", "discount", "vat_excluded",
	"line_amount", "discount_amount", "amount_after_discount",
	"line_amount_local", "amount_after_discount_local",
}

var _ purchase_order.Repository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implements purchase_order.Repository.
type PurchaseOrderRepo struct {
	txManager  *postgres.TxManager
	selectCols []string
}

// NewPurchaseOrderRepo creates a new purchase order repository.
func NewPurchaseOrderRepo(txManager *postgres.TxManager) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{
		txManager:  txManager,
		selectCols: postgres.ExtractDBColumns[purchase_order.PurchaseOrder](),
	}
}

// Builder returns a new squirrel builder.
func (r *PurchaseOrderRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *PurchaseOrderRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

func (r *PurchaseOrderRepo) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(purchaseOrdersTable)
}

// Create inserts a new purchase order header.
func (r *PurchaseOrderRepo) Create(ctx context.Context, doc *purchase_order.PurchaseOrder) error {
	data := postgres.StructToMap(doc)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	sql, args, err := r.Builder().
		Insert(purchaseOrdersTable).
		SetMap(filteredData).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", purchaseOrdersTable, err)
	}
	return nil
}

// Update updates the header with optimistic locking.
func (r *PurchaseOrderRepo) Update(ctx context.Context, doc *purchase_order.PurchaseOrder) error {
	data := postgres.StructToMap(doc)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	entityID, ok := data["id"]
	if !ok {
		return fmt.Errorf("entity has no 'id' field")
	}

	version, ok := data["version"].(int)
	if !ok {
		return fmt.Errorf("entity has no 'version' field or it is not an int")
	}

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		// run_no and number are assigned once at creation
		if col == "id" || col == "run_no" || col == "number" || col == "created_at" || col == "created_by" {
			continue
		}
		if col == "version" || col == "updated_at" {
			continue
		}
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	sql, args, err := r.Builder().
		Update(purchaseOrdersTable).
		SetMap(filteredData).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": entityID}).
		Where(squirrel.Eq{"version": version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", purchaseOrdersTable, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(purchaseOrdersTable, entityID)
	}
	return nil
}

// Cancel sets the cancelled record status without touching anything else.
func (r *PurchaseOrderRepo) Cancel(ctx context.Context, runNo int64) error {
	sql, args, err := r.Builder().
		Update(purchaseOrdersTable).
		Set("rec_status", lifecycle.RecordStatusCancelled).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"run_no": runNo}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build cancel: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("cancel %s: %w", purchaseOrdersTable, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(purchaseOrdersTable, runNo)
	}
	return nil
}

// GetByID retrieves a purchase order by ID.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, docID id.ID) (*purchase_order.PurchaseOrder, error) {
	return r.getOne(ctx, squirrel.Eq{"id": docID}, docID.String())
}

// GetByRunNo retrieves a purchase order by run number.
func (r *PurchaseOrderRepo) GetByRunNo(ctx context.Context, runNo int64) (*purchase_order.PurchaseOrder, error) {
	return r.getOne(ctx, squirrel.Eq{"run_no": runNo}, runNo)
}

// GetByNumber retrieves a purchase order by formatted document number.
func (r *PurchaseOrderRepo) GetByNumber(ctx context.Context, number string) (*purchase_order.PurchaseOrder, error) {
	return r.getOne(ctx, squirrel.Eq{"number": number}, number)
}

func (r *PurchaseOrderRepo) getOne(ctx context.Context, cond squirrel.Eq, ref any) (*purchase_order.PurchaseOrder, error) {
	sql, args, err := r.baseSelect().Where(cond).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var doc purchase_order.PurchaseOrder
	if err := pgxscan.Get(ctx, r.querier(ctx), &doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("purchase order", ref)
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	return &doc, nil
}

// GetForUpdate retrieves a purchase order with a row lock.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, docID id.ID) (*purchase_order.PurchaseOrder, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"id": docID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var doc purchase_order.PurchaseOrder
	if err := pgxscan.Get(ctx, r.querier(ctx), &doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("purchase order", docID.String())
		}
		return nil, fmt.Errorf("get for update: %w", err)
	}
	return &doc, nil
}

// GetLines retrieves lines ordered by line number.
func (r *PurchaseOrderRepo) GetLines(ctx context.Context, docID id.ID) ([]purchase_order.Line, error) {
	sql, args, err := r.Builder().
		Select(lineColumns...).
		From(purchaseOrderLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []purchase_order.Line
	if err := pgxscan.Select(ctx, r.querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	return lines, nil
}

// SaveLines replaces the line table of a document.
func (r *PurchaseOrderRepo) SaveLines(ctx context.Context, docID id.ID, lines []purchase_order.Line) error {
	querier := r.querier(ctx)

	deleteSQL := "DELETE FROM " + purchaseOrderLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(purchaseOrderLinesTable).
		Columns(append([]string{"document_id"}, lineColumns...)...)

	for _, line := range lines {
		q = q.Values(
			docID,
			line.LineID, line.LineNo, line.ItemID, line.Description, line.Unit,
			line.Quantity, line.UnitPrice, line.Discount, line.VATExcluded,
			line.LineAmount, line.DiscountAmount, line.AmountAfterDiscount,
			line.LineAmountLocal, line.AmountAfterDiscountLocal,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}
	return nil
}

// List retrieves purchase orders with filtering.
func (r *PurchaseOrderRepo) List(ctx context.Context, f purchase_order.ListFilter) (domain.ListResult[*purchase_order.PurchaseOrder], error) {
	result := domain.ListResult[*purchase_order.PurchaseOrder]{
		Limit:  f.Limit,
		Offset: f.Offset,
	}

	q := r.baseSelect()

	if !f.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if f.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *f.SupplierID})
	}

	if f.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *f.WarehouseID})
	}

	if f.RecordStatus != nil {
		q = q.Where(squirrel.Eq{"rec_status": *f.RecordStatus})
	}

	if f.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *f.DateFrom})
	}

	if f.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *f.DateTo})
	}

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": pattern},
			squirrel.ILike{"comment": pattern},
		})
	}

	countSQL, countArgs, err := r.Builder().Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy := "date DESC"
	if f.OrderBy != "" {
		orderBy = f.OrderBy
	}
	q = q.OrderBy(orderBy)

	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select: %w", err)
	}
	return result, nil
}

// GetStatusSnapshot reads the current status fields directly from storage.
// Always a fresh read; the lifecycle guard must never see cached state.
func (r *PurchaseOrderRepo) GetStatusSnapshot(ctx context.Context, runNo int64) (lifecycle.StatusSnapshot, error) {
	var snap lifecycle.StatusSnapshot

	sql, args, err := r.Builder().
		Select("rec_status", "delivery_status", "delivery_complete").
		From(purchaseOrdersTable).
		Where(squirrel.Eq{"run_no": runNo}).
		Limit(1).
		ToSql()
	if err != nil {
		return snap, fmt.Errorf("build query: %w", err)
	}

	err = r.querier(ctx).QueryRow(ctx, sql, args...).
		Scan(&snap.RecordStatus, &snap.DeliveryStatus, &snap.DeliveryComplete)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return snap, apperror.NewNotFound("purchase order", runNo)
		}
		return snap, fmt.Errorf("get status snapshot: %w", err)
	}

	statuses, err := r.GetApprovalStatuses(ctx, runNo)
	if err != nil {
		return snap, err
	}
	snap.ApprovalStatuses = statuses

	return snap, nil
}

// GetApprovalStatuses reads the raw per-level status codes. The returned
// slice is indexed by level-1 and sized to the highest recorded level.
func (r *PurchaseOrderRepo) GetApprovalStatuses(ctx context.Context, runNo int64) ([]string, error) {
	sql, args, err := r.Builder().
		Select("level", "status").
		From(purchaseOrderApprovalTable).
		Where(squirrel.Eq{"run_no": runNo}).
		OrderBy("level").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.querier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("get approval statuses: %w", err)
	}
	defer rows.Close()

	var statuses []string
	for rows.Next() {
		var level int
		var status string
		if err := rows.Scan(&level, &status); err != nil {
			return nil, fmt.Errorf("scan approval status: %w", err)
		}
		for len(statuses) < level {
			statuses = append(statuses, "")
		}
		statuses[level-1] = status
	}
	return statuses, rows.Err()
}

// SetApprovalStatus writes the status code for one approval level.
func (r *PurchaseOrderRepo) SetApprovalStatus(ctx context.Context, runNo int64, level int, status, comment, userName string) error {
	sql := `
		INSERT INTO doc_purchase_order_approvals (run_no, level, status, comment, user_name, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (run_no, level)
		DO UPDATE SET status = $3, comment = $4, user_name = $5, updated_at = NOW()
	`

	if _, err := r.querier(ctx).Exec(ctx, sql, runNo, level, status, comment, userName); err != nil {
		return fmt.Errorf("set approval status: %w", err)
	}
	return nil
}
