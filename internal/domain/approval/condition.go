package approval

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// ConditionEvaluator evaluates level ApplyWhen expressions against document
// variables. Expressions are CEL, e.g.
//
//	grand_total_local > 100000.0 && currency != "THB"
//
// Compiled programs are cached per expression; the configuration is a
// session-scoped snapshot so the cache never needs invalidation.
type ConditionEvaluator struct {
	env *cel.Env

	mu       sync.RWMutex
	programs map[string]cel.Program
}

// Vars holds the document variables visible to ApplyWhen expressions.
type Vars struct {
	GrandTotal      float64
	GrandTotalLocal float64
	Currency        string
	SupplierCode    string
	CompanyCode     string
}

func (v Vars) activation() map[string]any {
	return map[string]any{
		"grand_total":       v.GrandTotal,
		"grand_total_local": v.GrandTotalLocal,
		"currency":          v.Currency,
		"supplier_code":     v.SupplierCode,
		"company_code":      v.CompanyCode,
	}
}

// NewConditionEvaluator creates the evaluator with the document variable set.
func NewConditionEvaluator() (*ConditionEvaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("grand_total", cel.DoubleType),
		cel.Variable("grand_total_local", cel.DoubleType),
		cel.Variable("currency", cel.StringType),
		cel.Variable("supplier_code", cel.StringType),
		cel.Variable("company_code", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}
	return &ConditionEvaluator{
		env:      env,
		programs: make(map[string]cel.Program),
	}, nil
}

// MustConditionEvaluator is NewConditionEvaluator for wiring at startup. The
// variable set is static, so construction cannot fail at runtime.
func MustConditionEvaluator() *ConditionEvaluator {
	e, err := NewConditionEvaluator()
	if err != nil {
		panic(err)
	}
	return e
}

// Applies reports whether the level applies to a document. Levels without a
// condition always apply. A malformed or non-boolean condition is a
// configuration error, not a skip.
func (e *ConditionEvaluator) Applies(level *Level, vars Vars) (bool, error) {
	if level.ApplyWhen == "" {
		return true, nil
	}

	prg, err := e.program(level.ApplyWhen)
	if err != nil {
		return false, err
	}

	out, _, err := prg.Eval(vars.activation())
	if err != nil {
		return false, fmt.Errorf("evaluate condition for level %d: %w", level.Number, err)
	}

	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("condition for level %d is not boolean: %q", level.Number, level.ApplyWhen)
	}
	return b, nil
}

// ApplicableLevels filters the configured levels down to those whose
// conditions hold for the document.
func (e *ConditionEvaluator) ApplicableLevels(cfg *Config, vars Vars) ([]Level, error) {
	levels := make([]Level, 0, len(cfg.Levels))
	for i := range cfg.Levels {
		ok, err := e.Applies(&cfg.Levels[i], vars)
		if err != nil {
			return nil, err
		}
		if ok {
			levels = append(levels, cfg.Levels[i])
		}
	}
	return levels, nil
}

func (e *ConditionEvaluator) program(expr string) (cel.Program, error) {
	e.mu.RLock()
	prg, ok := e.programs[expr]
	e.mu.RUnlock()
	if ok {
		return prg, nil
	}

	ast, iss := e.env.Compile(expr)
	if iss.Err() != nil {
		return nil, fmt.Errorf("compile condition %q: %w", expr, iss.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build condition program %q: %w", expr, err)
	}

	e.mu.Lock()
	e.programs[expr] = prg
	e.mu.Unlock()
	return prg, nil
}
