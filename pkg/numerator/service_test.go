package numerator

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRow struct {
	val int64
	err error
}

func (r *mockRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if p, ok := dest[0].(*int64); ok {
		*p = r.val
	}
	return nil
}

type mockQuerier struct {
	seq   map[string]int64
	calls int
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{seq: make(map[string]int64)}
}

func (q *mockQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.calls++
	key := args[0].(string)
	inc := int64(1)
	if len(args) > 1 {
		inc = args[1].(int64)
	}
	q.seq[key] += inc
	return &mockRow{val: q.seq[key]}
}

func TestGetNextStrict(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	cfg := DefaultConfig("PO")
	period := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	num, formatted, err := svc.GetNext(context.Background(), cfg, nil, period)
	require.NoError(t, err)
	assert.Equal(t, int64(1), num)
	assert.Equal(t, "PO-2026-00001", formatted)

	num, formatted, err = svc.GetNext(context.Background(), cfg, nil, period)
	require.NoError(t, err)
	assert.Equal(t, int64(2), num)
	assert.Equal(t, "PO-2026-00002", formatted)

	assert.Equal(t, 2, q.calls)
}

func TestGetNextCached(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	cfg := DefaultConfig("PO")
	opts := &Options{Strategy: StrategyCached, RangeSize: 10}
	period := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := int64(1); i <= 10; i++ {
		num, _, err := svc.GetNext(context.Background(), cfg, opts, period)
		require.NoError(t, err)
		assert.Equal(t, i, num)
	}

	// one DB round trip reserved the whole range
	assert.Equal(t, 1, q.calls)

	num, _, err := svc.GetNext(context.Background(), cfg, opts, period)
	require.NoError(t, err)
	assert.Equal(t, int64(11), num)
	assert.Equal(t, 2, q.calls)
}

func TestBuildKeyResetPeriods(t *testing.T) {
	svc := New(newMockQuerier())
	period := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "PO_2026", svc.buildKey(Config{Prefix: "PO", ResetPeriod: "year"}, period))
	assert.Equal(t, "PO_2026_07", svc.buildKey(Config{Prefix: "PO", ResetPeriod: "month"}, period))
	assert.Equal(t, "PO", svc.buildKey(Config{Prefix: "PO", ResetPeriod: "never"}, period))
}

func TestFormatNumber(t *testing.T) {
	svc := New(newMockQuerier())
	period := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "PO-2026-00042",
		svc.formatNumber(Config{Prefix: "PO", IncludeYear: true, PadWidth: 5}, period, 42))
	assert.Equal(t, "REQ-007",
		svc.formatNumber(Config{Prefix: "REQ", PadWidth: 3}, period, 7))
	assert.Equal(t, "PO-2026-00001",
		svc.formatNumber(Config{Prefix: "PO", IncludeYear: true}, period, 1))
}

func TestSetNextNumber(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	cfg := DefaultConfig("PO")
	period := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// warm the cache, then reset
	opts := &Options{Strategy: StrategyCached, RangeSize: 10}
	_, _, err := svc.GetNext(context.Background(), cfg, opts, period)
	require.NoError(t, err)

	require.NoError(t, svc.SetNextNumber(context.Background(), cfg, period, 100))

	svc.cacheMu.Lock()
	_, cached := svc.ranges["PO_2026"]
	svc.cacheMu.Unlock()
	assert.False(t, cached, "cached range must be invalidated after reset")
}
