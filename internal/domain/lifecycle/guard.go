// Package lifecycle implements the document lifecycle guard: the pre-action
// legality check that runs before a document is edited or cancelled.
//
// The guard itself is pure. Fetching the current status snapshot is the
// caller's job and must happen freshly before every evaluation; a snapshot
// cached from an earlier page load may be stale because another session can
// mutate the document at any time. A fetch failure is reported as an error,
// never as a denial, so the caller can always distinguish "denied by business
// rule" from "could not determine".
package lifecycle

import (
	"fmt"

	"purchasing/internal/domain/approval"
)

// Mode is the action the guard evaluates.
type Mode int

const (
	ModeEdit Mode = iota
	ModeCancel
)

func (m Mode) String() string {
	switch m {
	case ModeCancel:
		return "cancel"
	default:
		return "edit"
	}
}

// Record status values.
const (
	RecordStatusActive    = 0
	RecordStatusCancelled = 1
)

// Delivery status codes.
const (
	DeliveryNone    = ""
	DeliveryPartial = "P"
	DeliveryFull    = "F"
)

// StatusSnapshot is the set of server-reported status fields the guard
// consults. The fields are stored independently; the guard interprets their
// combination.
type StatusSnapshot struct {
	RecordStatus int `json:"recStatus" db:"rec_status"`

	// ApprovalStatuses holds the raw status code per level, index 0 is
	// level 1. Empty string means the level has not been touched.
	ApprovalStatuses []string `json:"approvalStatuses"`

	DeliveryStatus   string `json:"deliveryStatus" db:"delivery_status"`
	DeliveryComplete bool   `json:"deliveryComplete" db:"delivery_complete"`
}

// Delivered reports whether any goods receipt has been posted against the
// document.
func (s StatusSnapshot) Delivered() bool {
	return s.DeliveryComplete || s.DeliveryStatus == DeliveryPartial || s.DeliveryStatus == DeliveryFull
}

// State is the interpreted lifecycle state, used for display.
type State string

const (
	StateOpen               State = "Open"
	StatePendingApproval    State = "PendingApproval"
	StateApproved           State = "Approved"
	StateRejected           State = "Rejected"
	StateCancelled          State = "Cancelled"
	StatePartiallyDelivered State = "PartiallyDelivered"
	StateFullyDelivered     State = "FullyDelivered"
)

// Decision is the outcome of a guard evaluation. CanProceed false comes with
// a blocking Message. CanProceed true may still carry a WarningMessage; the
// caller must obtain explicit user confirmation either way before the
// mutating action fires.
type Decision struct {
	CanProceed     bool           `json:"canProceed"`
	Message        string         `json:"message,omitempty"`
	WarningMessage string         `json:"warningMessage,omitempty"`
	Snapshot       StatusSnapshot `json:"currentStatus"`
}

// Guard evaluates edit and cancel legality against a status snapshot.
// Approval status codes are classified through the approval configuration,
// with the built-in fallback for codes that predate it.
type Guard struct {
	cfg *approval.Config
}

// NewGuard creates a guard bound to the session's approval configuration.
func NewGuard(cfg *approval.Config) *Guard {
	return &Guard{cfg: cfg}
}

// Evaluate interprets the snapshot for the requested mode.
func (g *Guard) Evaluate(snapshot StatusSnapshot, mode Mode) Decision {
	d := Decision{Snapshot: snapshot}

	if snapshot.RecordStatus == RecordStatusCancelled {
		d.Message = "Document has been cancelled and can no longer be modified."
		return d
	}

	switch mode {
	case ModeCancel:
		if snapshot.Delivered() {
			d.Message = "Document has deliveries posted against it and cannot be cancelled."
			return d
		}
	default:
		if level, ok := g.completedLevel(snapshot); ok {
			d.Message = fmt.Sprintf("Document is approved at level %d and can no longer be edited.", level)
			return d
		}
	}

	d.CanProceed = true
	if mode == ModeEdit {
		if level, ok := g.inProgressLevel(snapshot); ok {
			d.WarningMessage = fmt.Sprintf(
				"An approval request is in progress at level %d. Editing will invalidate it.", level)
		}
	}
	return d
}

// State derives the display state from a snapshot.
func (g *Guard) State(snapshot StatusSnapshot) State {
	switch {
	case snapshot.RecordStatus == RecordStatusCancelled:
		return StateCancelled
	case snapshot.DeliveryComplete || snapshot.DeliveryStatus == DeliveryFull:
		return StateFullyDelivered
	case snapshot.DeliveryStatus == DeliveryPartial:
		return StatePartiallyDelivered
	}

	for i, code := range snapshot.ApprovalStatuses {
		switch g.cfg.StatusType(i+1, code) {
		case approval.ActionUnComplete:
			return StateRejected
		case approval.ActionRequest, approval.ActionProcess:
			if code != "" {
				return StatePendingApproval
			}
		}
	}
	if level, ok := g.completedLevel(snapshot); ok && level == g.cfg.MaxLevel() {
		return StateApproved
	}
	if _, ok := g.completedLevel(snapshot); ok {
		return StatePendingApproval
	}
	return StateOpen
}

// completedLevel returns the highest level carrying a Complete-type status.
func (g *Guard) completedLevel(snapshot StatusSnapshot) (int, bool) {
	found := 0
	for i, code := range snapshot.ApprovalStatuses {
		if code == "" {
			continue
		}
		if g.cfg.StatusType(i+1, code) == approval.ActionComplete {
			found = i + 1
		}
	}
	return found, found > 0
}

// inProgressLevel returns the first level with a Request or Process status.
func (g *Guard) inProgressLevel(snapshot StatusSnapshot) (int, bool) {
	for i, code := range snapshot.ApprovalStatuses {
		if code == "" {
			continue
		}
		switch g.cfg.StatusType(i+1, code) {
		case approval.ActionRequest, approval.ActionProcess:
			return i + 1, true
		}
	}
	return 0, false
}
