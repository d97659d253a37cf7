package paymentterm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDueDate(t *testing.T) {
	net30 := NewPaymentTerm("N30", "Net 30", 30)
	assert.Equal(t, date(2026, 2, 14), net30.DueDate(date(2026, 1, 15)))

	cod := NewPaymentTerm("COD", "Cash on delivery", 0)
	assert.Equal(t, date(2026, 1, 15), cod.DueDate(date(2026, 1, 15)))
}

func TestDueDateEndOfMonth(t *testing.T) {
	term := NewPaymentTerm("30EOM", "30 days end of month", 30)
	term.EndOfMonth = true

	// 15 Jan + 30d = 14 Feb, shifted to end of February
	assert.Equal(t, date(2026, 2, 28), term.DueDate(date(2026, 1, 15)))

	// leap year
	assert.Equal(t, date(2028, 2, 29), term.DueDate(date(2028, 1, 15)))
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	term := NewPaymentTerm("N30", "Net 30", 30)
	assert.NoError(t, term.Validate(ctx))

	term.CreditDays = -1
	assert.Error(t, term.Validate(ctx))

	term = NewPaymentTerm("X", "", 10)
	assert.Error(t, term.Validate(ctx))
}
