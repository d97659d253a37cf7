package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"purchasing/internal/domain/approval"
)

func testGuard() *Guard {
	return NewGuard(&approval.Config{
		ModuleCode: "PO",
		Levels: []approval.Level{
			{Number: 1, Actions: []approval.Action{
				{Value: "Y", Label: "Approve", Type: approval.ActionComplete},
				{Value: "N", Label: "Reject", Type: approval.ActionUnComplete},
			}},
			{Number: 2, Actions: []approval.Action{
				{Value: "Y", Label: "Final Approve", Type: approval.ActionComplete},
				{Value: "N", Label: "Final Reject", Type: approval.ActionUnComplete},
			}},
		},
	})
}

func TestEvaluateCancelledDeniesBothModes(t *testing.T) {
	g := testGuard()
	snapshot := StatusSnapshot{RecordStatus: RecordStatusCancelled}

	for _, mode := range []Mode{ModeEdit, ModeCancel} {
		d := g.Evaluate(snapshot, mode)
		assert.False(t, d.CanProceed, "mode %s", mode)
		assert.NotEmpty(t, d.Message, "mode %s", mode)
	}
}

func TestEvaluateEditDeniedAfterApproval(t *testing.T) {
	g := testGuard()
	snapshot := StatusSnapshot{ApprovalStatuses: []string{"Y", ""}}

	d := g.Evaluate(snapshot, ModeEdit)
	assert.False(t, d.CanProceed)
	assert.Contains(t, d.Message, "level 1")

	// cancel of an approved but undelivered document is still allowed
	d = g.Evaluate(snapshot, ModeCancel)
	assert.True(t, d.CanProceed)
}

func TestEvaluateEditDeniedByFallbackStatus(t *testing.T) {
	// level 5 has no configuration; "Y" classifies through the fallback
	g := testGuard()
	snapshot := StatusSnapshot{ApprovalStatuses: []string{"", "", "", "", "Y"}}

	d := g.Evaluate(snapshot, ModeEdit)
	assert.False(t, d.CanProceed)
	assert.Contains(t, d.Message, "level 5")
}

func TestEvaluateCancelDeniedAfterDelivery(t *testing.T) {
	g := testGuard()

	for _, snapshot := range []StatusSnapshot{
		{DeliveryStatus: DeliveryPartial},
		{DeliveryStatus: DeliveryFull},
		{DeliveryComplete: true},
	} {
		d := g.Evaluate(snapshot, ModeCancel)
		assert.False(t, d.CanProceed)
		assert.NotEmpty(t, d.Message)

		// delivery blocks cancel, not edit
		d = g.Evaluate(snapshot, ModeEdit)
		assert.True(t, d.CanProceed)
	}
}

func TestEvaluateEditWarnsOnPendingRequest(t *testing.T) {
	g := testGuard()
	snapshot := StatusSnapshot{ApprovalStatuses: []string{"R"}}

	d := g.Evaluate(snapshot, ModeEdit)
	assert.True(t, d.CanProceed)
	assert.Empty(t, d.Message)
	assert.NotEmpty(t, d.WarningMessage)

	d = g.Evaluate(snapshot, ModeCancel)
	assert.True(t, d.CanProceed)
	assert.Empty(t, d.WarningMessage)
}

func TestEvaluateOpenDocument(t *testing.T) {
	g := testGuard()
	snapshot := StatusSnapshot{}

	for _, mode := range []Mode{ModeEdit, ModeCancel} {
		d := g.Evaluate(snapshot, mode)
		assert.True(t, d.CanProceed)
		assert.Empty(t, d.Message)
		assert.Empty(t, d.WarningMessage)
	}
}

func TestStateDerivation(t *testing.T) {
	g := testGuard()

	tests := []struct {
		name     string
		snapshot StatusSnapshot
		want     State
	}{
		{"open", StatusSnapshot{}, StateOpen},
		{"cancelled", StatusSnapshot{RecordStatus: RecordStatusCancelled}, StateCancelled},
		{"requested", StatusSnapshot{ApprovalStatuses: []string{"R"}}, StatePendingApproval},
		{"rejected", StatusSnapshot{ApprovalStatuses: []string{"N"}}, StateRejected},
		{"first level approved", StatusSnapshot{ApprovalStatuses: []string{"Y", ""}}, StatePendingApproval},
		{"fully approved", StatusSnapshot{ApprovalStatuses: []string{"Y", "Y"}}, StateApproved},
		{"partially delivered", StatusSnapshot{DeliveryStatus: DeliveryPartial}, StatePartiallyDelivered},
		{"fully delivered", StatusSnapshot{DeliveryComplete: true}, StateFullyDelivered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.State(tt.snapshot))
		})
	}
}
