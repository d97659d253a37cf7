package approval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purchasing/internal/core/apperror"
)

func testConfig() *Config {
	return &Config{
		ModuleCode: "PO",
		Levels: []Level{
			{
				Number:  1,
				Columns: []string{"docNo", "supplier", "grandTotal"},
				Actions: []Action{
					{Value: "Y", Label: "Approve", Type: ActionComplete},
					{Value: "N", Label: "Reject", Type: ActionUnComplete},
				},
			},
			{
				Number: 2,
				Actions: []Action{
					{Value: "Y", Label: "Final Approve", Type: ActionComplete},
					{Value: "N", Label: "Final Reject", Type: ActionUnComplete},
					{Value: "P", Label: "Hold", Type: ActionProcess},
				},
				ApplyWhen: `grand_total_local > 100000.0`,
			},
		},
	}
}

func TestValidateAction(t *testing.T) {
	cfg := testConfig()

	assert.NoError(t, cfg.ValidateAction(1, "Y"))
	assert.NoError(t, cfg.ValidateAction(2, "P"))

	err := cfg.ValidateAction(1, "X")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeApprovalNotAllowed, appErr.Code)

	err = cfg.ValidateAction(5, "Y")
	require.Error(t, err)
}

func TestStatusDisplayConfiguredAction(t *testing.T) {
	cfg := testConfig()

	d := cfg.StatusDisplay(1, "Y")
	assert.Equal(t, "Approve", d.Label)
	assert.Equal(t, ActionComplete, d.Type)

	d = cfg.StatusDisplay(2, "P")
	assert.Equal(t, "Hold", d.Label)
	assert.Equal(t, ActionProcess, d.Type)
}

func TestStatusDisplayFallback(t *testing.T) {
	cfg := testConfig()

	// "R" is not configured at level 1, fallback mapping applies
	d := cfg.StatusDisplay(1, "R")
	assert.Equal(t, "Requested", d.Label)
	assert.Equal(t, ActionRequest, d.Type)

	// level without any configuration uses the fallback too
	d = cfg.StatusDisplay(4, "N")
	assert.Equal(t, "Rejected", d.Label)
	assert.Equal(t, ActionUnComplete, d.Type)

	// unknown code renders as itself
	d = cfg.StatusDisplay(1, "Z")
	assert.Equal(t, "Z", d.Label)
}

func TestMaxLevel(t *testing.T) {
	assert.Equal(t, 2, testConfig().MaxLevel())
	assert.Equal(t, 0, (&Config{}).MaxLevel())
}

func TestConditionEvaluator(t *testing.T) {
	cfg := testConfig()
	ev, err := NewConditionEvaluator()
	require.NoError(t, err)

	small := Vars{GrandTotalLocal: 50000, Currency: "THB"}
	large := Vars{GrandTotalLocal: 250000, Currency: "USD"}

	lv2, _ := cfg.Level(2)

	ok, err := ev.Applies(lv2, small)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = ev.Applies(lv2, large)
	require.NoError(t, err)
	assert.True(t, ok)

	levels, err := ev.ApplicableLevels(cfg, small)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, 1, levels[0].Number)

	levels, err = ev.ApplicableLevels(cfg, large)
	require.NoError(t, err)
	assert.Len(t, levels, 2)
}

func TestConditionEvaluatorMalformed(t *testing.T) {
	ev, err := NewConditionEvaluator()
	require.NoError(t, err)

	_, err = ev.Applies(&Level{Number: 1, ApplyWhen: `grand_total >`}, Vars{})
	assert.Error(t, err)

	_, err = ev.Applies(&Level{Number: 1, ApplyWhen: `currency`}, Vars{Currency: "THB"})
	assert.Error(t, err)
}
