package refdata

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purchasing/internal/domain/catalogs/currency"
)

func TestCacheLoadsOnce(t *testing.T) {
	var loads int32
	cache := NewCache(func(ctx context.Context, key string) (*Snapshot, error) {
		atomic.AddInt32(&loads, 1)
		return &Snapshot{}, nil
	})

	ctx := context.Background()
	s1, err := cache.Get(ctx, "C01")
	require.NoError(t, err)
	s2, err := cache.Get(ctx, "C01")
	require.NoError(t, err)

	assert.Same(t, s1, s2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))

	_, err = cache.Get(ctx, "C02")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&loads))
}

func TestCacheConcurrentGetsShareOneLoad(t *testing.T) {
	var loads int32
	started := make(chan struct{})
	release := make(chan struct{})

	cache := NewCache(func(ctx context.Context, key string) (*Snapshot, error) {
		atomic.AddInt32(&loads, 1)
		close(started)
		<-release
		return &Snapshot{}, nil
	})

	ctx := context.Background()
	var wg sync.WaitGroup
	results := make([]*Snapshot, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := cache.Get(ctx, "C01")
			assert.NoError(t, err)
			results[i] = s
		}(i)
	}

	<-started
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
	for i := 1; i < 5; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestCacheDoesNotCacheFailures(t *testing.T) {
	var loads int32
	cache := NewCache(func(ctx context.Context, key string) (*Snapshot, error) {
		if atomic.AddInt32(&loads, 1) == 1 {
			return nil, errors.New("network down")
		}
		return &Snapshot{}, nil
	})

	ctx := context.Background()
	_, err := cache.Get(ctx, "C01")
	require.Error(t, err)

	s, err := cache.Get(ctx, "C01")
	require.NoError(t, err)
	assert.NotNil(t, s)
	assert.Equal(t, int32(2), atomic.LoadInt32(&loads))
}

func TestCacheInvalidate(t *testing.T) {
	var loads int32
	cache := NewCache(func(ctx context.Context, key string) (*Snapshot, error) {
		atomic.AddInt32(&loads, 1)
		return &Snapshot{}, nil
	})

	ctx := context.Background()
	_, err := cache.Get(ctx, "C01")
	require.NoError(t, err)

	cache.Invalidate("C01")
	_, err = cache.Get(ctx, "C01")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&loads))
}

func TestSnapshotLookups(t *testing.T) {
	thb := currency.NewCurrency("THB", "Thai Baht")
	thb.IsLocal = true
	usd := currency.NewCurrency("USD", "US Dollar")

	s := &Snapshot{Currencies: []*currency.Currency{thb, usd}}

	got, ok := s.Currency("USD")
	require.True(t, ok)
	assert.Equal(t, "USD", got.ISOCode)

	local, ok := s.LocalCurrency()
	require.True(t, ok)
	assert.Equal(t, "THB", local.ISOCode)

	_, ok = s.Currency("EUR")
	assert.False(t, ok)
}
