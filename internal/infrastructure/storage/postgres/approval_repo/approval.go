// Package approval_repo loads approval workflow configuration from PostgreSQL.
package approval_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"purchasing/internal/domain/approval"
	"purchasing/internal/domain/refdata"
	"purchasing/internal/infrastructure/storage/postgres"
)

const (
	approvalLevelsTable  = "sys_approval_levels"
	approvalActionsTable = "sys_approval_actions"
)

var _ refdata.ApprovalConfigSource = (*ApprovalConfigRepo)(nil)

// ApprovalConfigRepo implements refdata.ApprovalConfigSource.
type ApprovalConfigRepo struct {
	txManager *postgres.TxManager
}

// NewApprovalConfigRepo creates a new approval configuration repository.
func NewApprovalConfigRepo(txManager *postgres.TxManager) *ApprovalConfigRepo {
	return &ApprovalConfigRepo{txManager: txManager}
}

// Builder returns a new squirrel builder.
func (r *ApprovalConfigRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// GetConfig assembles the approval configuration for a module from the level
// and action tables. A module without configured levels gets an empty config,
// which the workflow treats as "no approval required".
func (r *ApprovalConfigRepo) GetConfig(ctx context.Context, moduleCode string) (*approval.Config, error) {
	querier := r.txManager.GetQuerier(ctx)

	levelSQL, levelArgs, err := r.Builder().
		Select("level_no", "columns", "apply_when").
		From(approvalLevelsTable).
		Where(squirrel.Eq{"module_code": moduleCode}).
		OrderBy("level_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build levels query: %w", err)
	}

	rows, err := querier.Query(ctx, levelSQL, levelArgs...)
	if err != nil {
		return nil, fmt.Errorf("query approval levels: %w", err)
	}
	defer rows.Close()

	cfg := &approval.Config{ModuleCode: moduleCode}
	byNumber := make(map[int]int)

	for rows.Next() {
		var lv approval.Level
		if err := rows.Scan(&lv.Number, &lv.Columns, &lv.ApplyWhen); err != nil {
			return nil, fmt.Errorf("scan approval level: %w", err)
		}
		byNumber[lv.Number] = len(cfg.Levels)
		cfg.Levels = append(cfg.Levels, lv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read approval levels: %w", err)
	}

	actionSQL, actionArgs, err := r.Builder().
		Select("level_no", "action_value", "action_label", "action_type").
		From(approvalActionsTable).
		Where(squirrel.Eq{"module_code": moduleCode}).
		OrderBy("level_no", "sort_order").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build actions query: %w", err)
	}

	actionRows, err := querier.Query(ctx, actionSQL, actionArgs...)
	if err != nil {
		return nil, fmt.Errorf("query approval actions: %w", err)
	}
	defer actionRows.Close()

	for actionRows.Next() {
		var levelNo int
		var a approval.Action
		if err := actionRows.Scan(&levelNo, &a.Value, &a.Label, &a.Type); err != nil {
			return nil, fmt.Errorf("scan approval action: %w", err)
		}
		idx, ok := byNumber[levelNo]
		if !ok {
			// action row for an unconfigured level, skip
			continue
		}
		cfg.Levels[idx].Actions = append(cfg.Levels[idx].Actions, a)
	}
	if err := actionRows.Err(); err != nil {
		return nil, fmt.Errorf("read approval actions: %w", err)
	}

	return cfg, nil
}
