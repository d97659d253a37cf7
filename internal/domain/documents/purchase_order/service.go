package purchase_order

import (
	"context"
	"fmt"
	"sync"

	"purchasing/internal/core/apperror"
	"purchasing/internal/core/entity"
	"purchasing/internal/core/id"
	"purchasing/internal/core/session"
	"purchasing/internal/core/tx"
	"purchasing/internal/domain"
	"purchasing/internal/domain/approval"
	"purchasing/internal/domain/lifecycle"
	"purchasing/internal/domain/refdata"
	"purchasing/pkg/logger"
	"purchasing/pkg/numerator"
)

// AuditRecorder records document mutations to the audit trail.
type AuditRecorder interface {
	Record(ctx context.Context, entityType string, entityID id.ID, action string, payload any) error
}

// Service orchestrates purchase order operations: calculation, lifecycle
// guard checks, numbering, persistence, and approval submission.
type Service struct {
	repo       Repository
	numerator  *numerator.Service
	txManager  tx.Manager
	refdata    *refdata.Cache
	audit      AuditRecorder
	hooks      *domain.HookRegistry[*PurchaseOrder]
	conditions *approval.ConditionEvaluator

	// inflight tracks outstanding mutating operations per run number. A
	// second request while one is outstanding is rejected, not queued.
	mu       sync.Mutex
	inflight map[int64]string
}

// NewService creates a new purchase order service. audit may be nil.
func NewService(
	repo Repository,
	num *numerator.Service,
	txManager tx.Manager,
	refCache *refdata.Cache,
	audit AuditRecorder,
) *Service {
	return &Service{
		repo:       repo,
		numerator:  num,
		txManager:  txManager,
		refdata:    refCache,
		audit:      audit,
		hooks:      domain.NewHookRegistry[*PurchaseOrder](),
		conditions: approval.MustConditionEvaluator(),
		inflight:   make(map[int64]string),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*PurchaseOrder] {
	return s.hooks
}

// --- In-flight suppression ---

func (s *Service) acquire(runNo int64, op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, busy := s.inflight[runNo]; busy {
		return apperror.NewOperationInFlight(fmt.Sprintf("runNo=%d", runNo)).
			WithDetail("operation", current)
	}
	s.inflight[runNo] = op
	return nil
}

func (s *Service) release(runNo int64) {
	s.mu.Lock()
	delete(s.inflight, runNo)
	s.mu.Unlock()
}

// --- Reference data ---

func (s *Service) snapshot(ctx context.Context) (*refdata.Snapshot, error) {
	return s.refdata.Get(ctx, session.CompanyCode(ctx))
}

// applyReferenceData resolves currency precision, exchange rate defaults and
// the payment due date from the session snapshot, and checks the supplier
// can receive orders.
func (s *Service) applyReferenceData(ctx context.Context, doc *PurchaseOrder) error {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return err
	}

	curr, ok := snap.Currency(doc.Currency)
	if !ok {
		return apperror.NewValidation("unknown currency").
			WithDetail("field", "currency").
			WithDetail("value", doc.Currency)
	}
	doc.TotalDigits = curr.DecimalPlaces
	doc.PriceDigits = curr.DecimalPlaces
	if curr.IsLocal {
		doc.SetCurrency(curr.ISOCode, doc.ExchangeRate, true)
	} else if doc.ExchangeRate.Sign() <= 0 {
		doc.ExchangeRate = curr.ExchangeRate
	}

	if local, ok := snap.LocalCurrency(); ok {
		doc.LocalDigits = local.DecimalPlaces
	}

	for _, sup := range snap.Suppliers {
		if sup.ID == doc.SupplierID {
			if err := sup.CanOrder(); err != nil {
				return err
			}
			break
		}
	}

	if doc.PaymentTermCode != "" {
		term, ok := snap.PaymentTerm(doc.PaymentTermCode)
		if !ok {
			return apperror.NewValidation("unknown payment term").
				WithDetail("field", "paymentTermCode").
				WithDetail("value", doc.PaymentTermCode)
		}
		due := term.DueDate(doc.Date)
		doc.DueDate = &due
	}

	return nil
}

// --- Operations ---

// Create validates, computes and persists a new purchase order, assigning
// its run number and document number.
func (s *Service) Create(ctx context.Context, doc *PurchaseOrder) error {
	if err := s.hooks.Run(ctx, domain.BeforeCreate, doc); err != nil {
		return err
	}

	if err := s.applyReferenceData(ctx, doc); err != nil {
		return err
	}

	doc.Recalculate()

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if doc.Number == "" {
		cfg := numerator.DefaultConfig(NumberPrefix)
		runNo, number, err := s.numerator.GetNext(ctx, cfg,
			&numerator.Options{Strategy: NumeratorStrategy}, doc.Date)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.RunNo = runNo
		doc.Number = number
	}

	if doc.CreatedBy == "" {
		doc.CreatedBy = session.UserName(ctx)
		doc.UpdatedBy = doc.CreatedBy
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.recordAudit(ctx, doc.ID, "create", doc)

	if err := s.hooks.Run(ctx, domain.AfterCreate, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "purchase order created",
		"id", doc.ID,
		"number", doc.Number,
		"runNo", doc.RunNo)

	return nil
}

// Update persists changes to an existing purchase order. The lifecycle guard
// runs against a fresh status snapshot first; a denial is a business error,
// a snapshot fetch failure is a retryable error.
func (s *Service) Update(ctx context.Context, doc *PurchaseOrder) error {
	if err := s.acquire(doc.RunNo, "update"); err != nil {
		return err
	}
	defer s.release(doc.RunNo)

	decision, err := s.CheckStatus(ctx, doc.RunNo, lifecycle.ModeEdit)
	if err != nil {
		return err
	}
	if !decision.CanProceed {
		return s.denialError(decision)
	}

	if err := s.hooks.Run(ctx, domain.BeforeUpdate, doc); err != nil {
		return err
	}

	if err := s.applyReferenceData(ctx, doc); err != nil {
		return err
	}

	doc.Recalculate()

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	doc.UpdatedBy = session.UserName(ctx)

	// an edit invalidates any approval still in progress; the requester has
	// to re-submit against the changed document
	resetLevels := s.inProgressLevels(ctx, decision.Snapshot)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		for _, lv := range resetLevels {
			if err := s.repo.SetApprovalStatus(ctx, doc.RunNo, lv, "", "reset by edit", doc.UpdatedBy); err != nil {
				return fmt.Errorf("reset approval level %d: %w", lv, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.recordAudit(ctx, doc.ID, "update", doc)

	if err := s.hooks.Run(ctx, domain.AfterUpdate, doc); err != nil {
		logger.Warn(ctx, "after-update hook failed", "error", err)
	}

	return nil
}

// Cancel marks a purchase order cancelled after a fresh guard check.
func (s *Service) Cancel(ctx context.Context, runNo int64) error {
	if err := s.acquire(runNo, "cancel"); err != nil {
		return err
	}
	defer s.release(runNo)

	decision, err := s.CheckStatus(ctx, runNo, lifecycle.ModeCancel)
	if err != nil {
		return err
	}
	if !decision.CanProceed {
		return s.denialError(decision)
	}

	doc, err := s.repo.GetByRunNo(ctx, runNo)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Cancel(ctx, runNo)
	})
	if err != nil {
		return err
	}

	s.recordAudit(ctx, doc.ID, "cancel", map[string]any{"runNo": runNo})

	logger.Info(ctx, "purchase order cancelled", "runNo", runNo, "number", doc.Number)
	return nil
}

// CheckStatus fetches a fresh status snapshot and evaluates the lifecycle
// guard for the requested mode. A fetch failure returns an error distinct
// from a denial; callers must never treat it as permission either way.
func (s *Service) CheckStatus(ctx context.Context, runNo int64, mode lifecycle.Mode) (lifecycle.Decision, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return lifecycle.Decision{}, apperror.NewStatusCheckFailed(err)
	}

	status, err := s.repo.GetStatusSnapshot(ctx, runNo)
	if err != nil {
		if apperror.IsNotFound(err) {
			return lifecycle.Decision{}, err
		}
		return lifecycle.Decision{}, apperror.NewStatusCheckFailed(err)
	}

	guard := lifecycle.NewGuard(snap.ApprovalConfig)
	return guard.Evaluate(status, mode), nil
}

// SubmitApproval validates the action against the configured level and
// writes the approval status. Validation failures never reach storage.
func (s *Service) SubmitApproval(ctx context.Context, runNo int64, level int, actionValue, comment string) error {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return err
	}

	if err := snap.ApprovalConfig.ValidateAction(level, actionValue); err != nil {
		return err
	}

	if err := s.acquire(runNo, "approval"); err != nil {
		return err
	}
	defer s.release(runNo)

	status, err := s.repo.GetStatusSnapshot(ctx, runNo)
	if err != nil {
		if apperror.IsNotFound(err) {
			return err
		}
		return apperror.NewStatusCheckFailed(err)
	}
	if status.RecordStatus == lifecycle.RecordStatusCancelled {
		return apperror.NewBusinessRule(apperror.CodeDocumentCancelled,
			"Cannot approve a cancelled document.")
	}

	applies, err := s.applicableLevels(ctx, snap, runNo)
	if err != nil {
		return err
	}
	if !applies[level] {
		return apperror.NewBusinessRule(apperror.CodeApprovalNotAllowed,
			fmt.Sprintf("Level %d does not apply to this document.", level)).
			WithDetail("level", level)
	}

	// lower applicable levels must carry a Complete-type status first
	for lv := 1; lv < level; lv++ {
		if !applies[lv] {
			continue
		}
		code := ""
		if lv-1 < len(status.ApprovalStatuses) {
			code = status.ApprovalStatuses[lv-1]
		}
		if code == "" || snap.ApprovalConfig.StatusType(lv, code) != approval.ActionComplete {
			return apperror.NewBusinessRule(apperror.CodeApprovalOutOfSequence,
				fmt.Sprintf("Level %d must be approved before level %d.", lv, level)).
				WithDetail("level", level)
		}
	}

	userName := session.UserName(ctx)
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.SetApprovalStatus(ctx, runNo, level, actionValue, comment, userName)
	})
	if err != nil {
		return err
	}

	doc, getErr := s.repo.GetByRunNo(ctx, runNo)
	if getErr == nil {
		s.recordAudit(ctx, doc.ID, "approval", map[string]any{
			"runNo":  runNo,
			"level":  level,
			"action": actionValue,
		})
	}

	logger.Info(ctx, "approval submitted",
		"runNo", runNo,
		"level", level,
		"action", actionValue)

	return nil
}

// GetByID retrieves a purchase order with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*PurchaseOrder, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	return s.withLines(ctx, doc)
}

// State derives the display lifecycle state for a status snapshot.
func (s *Service) State(ctx context.Context, status lifecycle.StatusSnapshot) (lifecycle.State, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return "", err
	}
	return lifecycle.NewGuard(snap.ApprovalConfig).State(status), nil
}

// GetByNumber retrieves a purchase order by document number with lines.
func (s *Service) GetByNumber(ctx context.Context, number string) (*PurchaseOrder, error) {
	doc, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return s.withLines(ctx, doc)
}

// GetByRunNo retrieves a purchase order by run number with lines.
func (s *Service) GetByRunNo(ctx context.Context, runNo int64) (*PurchaseOrder, error) {
	doc, err := s.repo.GetByRunNo(ctx, runNo)
	if err != nil {
		return nil, err
	}
	return s.withLines(ctx, doc)
}

// List retrieves purchase orders with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseOrder], error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) withLines(ctx context.Context, doc *PurchaseOrder) (*PurchaseOrder, error) {
	lines, err := s.repo.GetLines(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines
	return doc, nil
}

// applicableLevels evaluates per-level ApplyWhen conditions against the
// document and returns which level numbers apply. The document is fetched
// only when some level actually carries a condition.
func (s *Service) applicableLevels(ctx context.Context, snap *refdata.Snapshot, runNo int64) (map[int]bool, error) {
	cfg := snap.ApprovalConfig
	applies := make(map[int]bool, len(cfg.Levels))
	conditional := false
	for _, lv := range cfg.Levels {
		applies[lv.Number] = true
		if lv.ApplyWhen != "" {
			conditional = true
		}
	}
	if !conditional {
		return applies, nil
	}

	doc, err := s.GetByRunNo(ctx, runNo)
	if err != nil {
		return nil, err
	}

	supplierCode := ""
	for _, sup := range snap.Suppliers {
		if sup.ID == doc.SupplierID {
			supplierCode = sup.Code
			break
		}
	}

	grandTotal, _ := doc.GrandTotal.Float64()
	grandTotalLocal, _ := doc.GrandTotalLocal.Float64()
	levels, err := s.conditions.ApplicableLevels(cfg, approval.Vars{
		GrandTotal:      grandTotal,
		GrandTotalLocal: grandTotalLocal,
		Currency:        doc.Currency,
		SupplierCode:    supplierCode,
		CompanyCode:     doc.CompanyCode,
	})
	if err != nil {
		return nil, err
	}

	for n := range applies {
		applies[n] = false
	}
	for _, lv := range levels {
		applies[lv.Number] = true
	}
	return applies, nil
}

// inProgressLevels returns the levels carrying a Request or Process status.
func (s *Service) inProgressLevels(ctx context.Context, status lifecycle.StatusSnapshot) []int {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil
	}
	var levels []int
	for i, code := range status.ApprovalStatuses {
		if code == "" {
			continue
		}
		switch snap.ApprovalConfig.StatusType(i+1, code) {
		case approval.ActionRequest, approval.ActionProcess:
			levels = append(levels, i+1)
		}
	}
	return levels
}

func (s *Service) denialError(decision lifecycle.Decision) error {
	code := apperror.CodeBusinessRule
	switch {
	case decision.Snapshot.RecordStatus == entity.RecordStatusCancelled:
		code = apperror.CodeDocumentCancelled
	case decision.Snapshot.Delivered():
		code = apperror.CodeDocumentDelivered
	default:
		code = apperror.CodeDocumentApproved
	}
	return apperror.NewBusinessRule(code, decision.Message)
}

func (s *Service) recordAudit(ctx context.Context, docID id.ID, action string, payload any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, "purchase_order", docID, action, payload); err != nil {
		logger.Warn(ctx, "audit record failed", "action", action, "error", err)
	}
}
