// internal/chat/cache/memory_test.go
package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "Show Me The AUM", "show me the aum"},
		{"leading and trailing space", "  hello  ", "hello"},
		{"internal runs collapse", "a   b\t\tc", "a b c"},
		{"already normal", "plain query", "plain query"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestMemory_HitEquivalence(t *testing.T) {
	m := NewMemory(5*time.Minute, 100)
	ctx := context.Background()

	m.Put(ctx, "What is my AUM?", "answer")

	got, ok := m.Get(ctx, "  what IS   my aum?  ")
	require.True(t, ok)
	assert.Equal(t, "answer", got)
}

func TestMemory_TTLExpiry(t *testing.T) {
	m := NewMemory(5*time.Minute, 100)
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }
	m.Put(ctx, "q", "answer")

	// Just below the TTL the entry is still live.
	m.now = func() time.Time { return base.Add(5*time.Minute - time.Millisecond) }
	_, ok := m.Get(ctx, "q")
	assert.True(t, ok)

	// At exactly the TTL the entry is gone.
	m.now = func() time.Time { return base.Add(5 * time.Minute) }
	_, ok = m.Get(ctx, "q")
	assert.False(t, ok)
}

func TestMemory_CapacityEviction(t *testing.T) {
	m := NewMemory(5*time.Minute, 100)
	ctx := context.Background()

	for i := 0; i < 101; i++ {
		m.Put(ctx, fmt.Sprintf("query %d", i), fmt.Sprintf("answer %d", i))
	}

	assert.Equal(t, 100, m.Len())

	// The oldest entry was evicted, the rest survive.
	_, ok := m.Get(ctx, "query 0")
	assert.False(t, ok)

	got, ok := m.Get(ctx, "query 1")
	require.True(t, ok)
	assert.Equal(t, "answer 1", got)

	got, ok = m.Get(ctx, "query 100")
	require.True(t, ok)
	assert.Equal(t, "answer 100", got)
}

func TestMemory_OverwriteKeepsPosition(t *testing.T) {
	m := NewMemory(5*time.Minute, 2)
	ctx := context.Background()

	m.Put(ctx, "a", "1")
	m.Put(ctx, "b", "2")
	m.Put(ctx, "a", "1-updated")

	// "a" kept its original slot, so filling capacity evicts it first.
	m.Put(ctx, "c", "3")

	_, ok := m.Get(ctx, "a")
	assert.False(t, ok)

	got, ok := m.Get(ctx, "b")
	require.True(t, ok)
	assert.Equal(t, "2", got)
}

func TestMemory_Clear(t *testing.T) {
	m := NewMemory(5*time.Minute, 100)
	ctx := context.Background()

	m.Put(ctx, "a", "1")
	m.Put(ctx, "b", "2")
	m.Clear(ctx)

	assert.Equal(t, 0, m.Len())
	_, ok := m.Get(ctx, "a")
	assert.False(t, ok)
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	m := NewMemory(5*time.Minute, 100)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("query %d", n%5)
			m.Put(ctx, key, "answer")
			m.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, m.Len(), 5)
}
