package purchase_order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purchasing/internal/core/apperror"
	"purchasing/internal/core/id"
	"purchasing/internal/domain"
	"purchasing/internal/domain/approval"
	"purchasing/internal/domain/catalogs/currency"
	"purchasing/internal/domain/catalogs/paymentterm"
	"purchasing/internal/domain/catalogs/supplier"
	"purchasing/internal/domain/lifecycle"
	"purchasing/internal/domain/refdata"
	"purchasing/pkg/numerator"
)

// --- Test doubles ---

type stubTx struct{}

func (stubTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (stubTx) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type seqRow struct{ val int64 }

func (r *seqRow) Scan(dest ...any) error {
	if p, ok := dest[0].(*int64); ok {
		*p = r.val
	}
	return nil
}

type seqQuerier struct {
	mu  sync.Mutex
	seq map[string]int64
}

func (q *seqQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.seq == nil {
		q.seq = make(map[string]int64)
	}
	key := args[0].(string)
	q.seq[key]++
	return &seqRow{val: q.seq[key]}
}

type approvalCall struct {
	runNo  int64
	level  int
	status string
}

type mockRepo struct {
	mu          sync.Mutex
	created     *PurchaseOrder
	updated     *PurchaseOrder
	savedLines  []Line
	cancelled   []int64
	approvals   []approvalCall
	snapshot    lifecycle.StatusSnapshot
	snapshotErr error

	// statusBlock, when non-nil, blocks GetStatusSnapshot until closed
	statusBlock   chan struct{}
	statusEntered chan struct{}

	docs map[int64]*PurchaseOrder
}

func (r *mockRepo) Create(ctx context.Context, doc *PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = doc
	return nil
}

func (r *mockRepo) GetByID(ctx context.Context, docID id.ID) (*PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.docs {
		if d.ID == docID {
			return d, nil
		}
	}
	return nil, apperror.NewNotFound("purchase order", docID)
}

func (r *mockRepo) GetByRunNo(ctx context.Context, runNo int64) (*PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.docs[runNo]; ok {
		return d, nil
	}
	return nil, apperror.NewNotFound("purchase order", runNo)
}

func (r *mockRepo) GetByNumber(ctx context.Context, number string) (*PurchaseOrder, error) {
	return nil, apperror.NewNotFound("purchase order", number)
}

func (r *mockRepo) Update(ctx context.Context, doc *PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updated = doc
	return nil
}

func (r *mockRepo) Cancel(ctx context.Context, runNo int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = append(r.cancelled, runNo)
	return nil
}

func (r *mockRepo) GetLines(ctx context.Context, docID id.ID) ([]Line, error) {
	return nil, nil
}

func (r *mockRepo) SaveLines(ctx context.Context, docID id.ID, lines []Line) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.savedLines = lines
	return nil
}

func (r *mockRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseOrder], error) {
	return domain.ListResult[*PurchaseOrder]{}, nil
}

func (r *mockRepo) GetStatusSnapshot(ctx context.Context, runNo int64) (lifecycle.StatusSnapshot, error) {
	if r.statusBlock != nil {
		close(r.statusEntered)
		<-r.statusBlock
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot, r.snapshotErr
}

func (r *mockRepo) SetApprovalStatus(ctx context.Context, runNo int64, level int, status, comment, userName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.approvals = append(r.approvals, approvalCall{runNo: runNo, level: level, status: status})
	return nil
}

func (r *mockRepo) GetApprovalStatuses(ctx context.Context, runNo int64) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot.ApprovalStatuses, nil
}

func (r *mockRepo) GetForUpdate(ctx context.Context, docID id.ID) (*PurchaseOrder, error) {
	return r.GetByID(ctx, docID)
}

type mockAudit struct {
	mu      sync.Mutex
	actions []string
}

func (a *mockAudit) Record(ctx context.Context, entityType string, entityID id.ID, action string, payload any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
	return nil
}

// --- Fixture ---

type fixture struct {
	svc      *Service
	repo     *mockRepo
	audit    *mockAudit
	supplier *supplier.Supplier
	cfg      *approval.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	sup := supplier.NewSupplier("S001", "Acme Industrial")

	thb := currency.NewCurrency("THB", "Thai Baht")
	thb.IsLocal = true
	usd := currency.NewCurrency("USD", "US Dollar")
	usd.ExchangeRate = m("35")

	net30 := paymentterm.NewPaymentTerm("N30", "Net 30", 30)

	cfg := &approval.Config{
		ModuleCode: ModuleCode,
		Levels: []approval.Level{
			{Number: 1, Actions: []approval.Action{
				{Value: "Y", Label: "Approve", Type: approval.ActionComplete},
				{Value: "N", Label: "Reject", Type: approval.ActionUnComplete},
			}},
			{Number: 2, Actions: []approval.Action{
				{Value: "Y", Label: "Final Approve", Type: approval.ActionComplete},
			}},
		},
	}

	cache := refdata.NewCache(func(ctx context.Context, key string) (*refdata.Snapshot, error) {
		return &refdata.Snapshot{
			Currencies:     []*currency.Currency{thb, usd},
			PaymentTerms:   []*paymentterm.PaymentTerm{net30},
			Suppliers:      []*supplier.Supplier{sup},
			ApprovalConfig: cfg,
			LoadedAt:       time.Now(),
		}, nil
	})

	repo := &mockRepo{docs: make(map[int64]*PurchaseOrder)}
	audit := &mockAudit{}
	svc := NewService(repo, numerator.New(&seqQuerier{}), stubTx{}, cache, audit)

	return &fixture{svc: svc, repo: repo, audit: audit, supplier: sup, cfg: cfg}
}

func (f *fixture) newOrder() *PurchaseOrder {
	doc := New("C01", f.supplier.ID)
	doc.Currency = "USD"
	doc.VATRate = m("7")
	doc.Date = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	doc.AddLine(Line{ItemID: id.New(), Quantity: m("10"), UnitPrice: m("100"), Discount: "10%"})
	return doc
}

// --- Tests ---

func TestCreateAssignsNumberAndComputesTotals(t *testing.T) {
	f := newFixture(t)
	doc := f.newOrder()
	doc.PaymentTermCode = "N30"

	require.NoError(t, f.svc.Create(context.Background(), doc))

	assert.Equal(t, int64(1), doc.RunNo)
	assert.Equal(t, "PO-2026-00001", doc.Number)
	eq(t, "35", doc.ExchangeRate)
	eq(t, "1000", doc.TotalAmount)
	eq(t, "900", doc.Lines[0].AmountAfterDiscount)

	require.NotNil(t, doc.DueDate)
	assert.Equal(t, time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC), *doc.DueDate)

	assert.Same(t, doc, f.repo.created)
	assert.Len(t, f.repo.savedLines, 1)
	assert.Equal(t, []string{"create"}, f.audit.actions)
}

func TestCreateRejectsUnknownCurrency(t *testing.T) {
	f := newFixture(t)
	doc := f.newOrder()
	doc.Currency = "XXX"

	err := f.svc.Create(context.Background(), doc)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Nil(t, f.repo.created)
}

func TestCreateRejectsBlockedSupplier(t *testing.T) {
	f := newFixture(t)
	f.supplier.Blocked = true
	doc := f.newOrder()

	err := f.svc.Create(context.Background(), doc)
	require.Error(t, err)
	assert.Nil(t, f.repo.created)
}

func TestUpdateDeniedWhenCancelled(t *testing.T) {
	f := newFixture(t)
	f.repo.snapshot = lifecycle.StatusSnapshot{RecordStatus: lifecycle.RecordStatusCancelled}

	doc := f.newOrder()
	doc.RunNo = 7

	err := f.svc.Update(context.Background(), doc)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDocumentCancelled, appErr.Code)
	assert.Nil(t, f.repo.updated)
}

func TestUpdateDeniedAfterApproval(t *testing.T) {
	f := newFixture(t)
	f.repo.snapshot = lifecycle.StatusSnapshot{ApprovalStatuses: []string{"Y"}}

	doc := f.newOrder()
	doc.RunNo = 7

	err := f.svc.Update(context.Background(), doc)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDocumentApproved, appErr.Code)
}

func TestUpdateStatusCheckFailureIsNotADenial(t *testing.T) {
	f := newFixture(t)
	f.repo.snapshotErr = errors.New("connection refused")

	doc := f.newOrder()
	doc.RunNo = 7

	err := f.svc.Update(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, apperror.IsStatusCheckFailed(err))
	assert.Nil(t, f.repo.updated)
}

func TestUpdateSucceedsWithPendingRequestWarning(t *testing.T) {
	f := newFixture(t)
	f.repo.snapshot = lifecycle.StatusSnapshot{ApprovalStatuses: []string{"R"}}

	doc := f.newOrder()
	doc.RunNo = 7

	require.NoError(t, f.svc.Update(context.Background(), doc))
	assert.Same(t, doc, f.repo.updated)
}

func TestCancelDeniedAfterDelivery(t *testing.T) {
	f := newFixture(t)
	f.repo.snapshot = lifecycle.StatusSnapshot{DeliveryStatus: lifecycle.DeliveryPartial}

	err := f.svc.Cancel(context.Background(), 7)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDocumentDelivered, appErr.Code)
	assert.Empty(t, f.repo.cancelled)
}

func TestCancelSuccess(t *testing.T) {
	f := newFixture(t)
	doc := f.newOrder()
	doc.RunNo = 7
	f.repo.docs[7] = doc

	require.NoError(t, f.svc.Cancel(context.Background(), 7))
	assert.Equal(t, []int64{7}, f.repo.cancelled)
	assert.Equal(t, []string{"cancel"}, f.audit.actions)
}

func TestSubmitApprovalRejectsUnconfiguredActionLocally(t *testing.T) {
	f := newFixture(t)

	err := f.svc.SubmitApproval(context.Background(), 7, 1, "X", "")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeApprovalNotAllowed, appErr.Code)
	assert.Empty(t, f.repo.approvals)
}

func TestSubmitApprovalOutOfSequence(t *testing.T) {
	f := newFixture(t)
	f.repo.snapshot = lifecycle.StatusSnapshot{ApprovalStatuses: []string{"", ""}}

	err := f.svc.SubmitApproval(context.Background(), 7, 2, "Y", "")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeApprovalOutOfSequence, appErr.Code)
	assert.Empty(t, f.repo.approvals)
}

func TestSubmitApprovalSuccess(t *testing.T) {
	f := newFixture(t)
	f.repo.snapshot = lifecycle.StatusSnapshot{ApprovalStatuses: []string{"Y", ""}}
	doc := f.newOrder()
	doc.RunNo = 7
	f.repo.docs[7] = doc

	require.NoError(t, f.svc.SubmitApproval(context.Background(), 7, 2, "Y", "looks good"))
	require.Len(t, f.repo.approvals, 1)
	assert.Equal(t, approvalCall{runNo: 7, level: 2, status: "Y"}, f.repo.approvals[0])
}

func TestSubmitApprovalSkipsNonApplicableLowerLevel(t *testing.T) {
	f := newFixture(t)
	// level 1 only applies to large documents; this one totals zero
	f.cfg.Levels[0].ApplyWhen = `grand_total_local >= 1000000.0`
	f.repo.snapshot = lifecycle.StatusSnapshot{ApprovalStatuses: []string{"", ""}}

	doc := f.newOrder()
	doc.RunNo = 7
	f.repo.docs[7] = doc

	require.NoError(t, f.svc.SubmitApproval(context.Background(), 7, 2, "Y", ""))
	require.Len(t, f.repo.approvals, 1)
	assert.Equal(t, approvalCall{runNo: 7, level: 2, status: "Y"}, f.repo.approvals[0])
}

func TestSubmitApprovalRejectsNonApplicableLevel(t *testing.T) {
	f := newFixture(t)
	f.cfg.Levels[1].ApplyWhen = `grand_total_local >= 1000000.0`
	f.repo.snapshot = lifecycle.StatusSnapshot{ApprovalStatuses: []string{"Y", ""}}

	doc := f.newOrder()
	doc.RunNo = 7
	f.repo.docs[7] = doc

	err := f.svc.SubmitApproval(context.Background(), 7, 2, "Y", "")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeApprovalNotAllowed, appErr.Code)
	assert.Empty(t, f.repo.approvals)
}

func TestSubmitApprovalDeniedOnCancelledDocument(t *testing.T) {
	f := newFixture(t)
	f.repo.snapshot = lifecycle.StatusSnapshot{RecordStatus: lifecycle.RecordStatusCancelled}

	err := f.svc.SubmitApproval(context.Background(), 7, 1, "Y", "")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDocumentCancelled, appErr.Code)
}

func TestSecondOperationWhileInFlightIsSuppressed(t *testing.T) {
	f := newFixture(t)
	f.repo.statusBlock = make(chan struct{})
	f.repo.statusEntered = make(chan struct{})

	doc := f.newOrder()
	doc.RunNo = 7
	f.repo.docs[7] = doc

	done := make(chan error, 1)
	go func() {
		done <- f.svc.Update(context.Background(), doc)
	}()

	<-f.repo.statusEntered

	err := f.svc.Cancel(context.Background(), 7)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeOperationInFlight, appErr.Code)

	close(f.repo.statusBlock)
	require.NoError(t, <-done)
}
