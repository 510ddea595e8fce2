package vacancy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vakansdata/vakansdata-go/internal/dateutil"
)

func month(t *testing.T, s string) dateutil.Month {
	t.Helper()
	m, err := dateutil.ParseMonth(s)
	require.NoError(t, err)
	return m
}

func TestMonthCachePutGet(t *testing.T) {
	c := NewMonthCache(30*24*time.Hour, nil)
	m := month(t, "2024-06")

	_, ok := c.Get(m, "stockholms", "")
	assert.False(t, ok)

	c.Put(m, "stockholms", "", 1234)

	count, ok := c.Get(m, "stockholms", "")
	require.True(t, ok)
	assert.Equal(t, 1234, count)

	// Different filter tuples are distinct entries.
	_, ok = c.Get(m, "skane", "")
	assert.False(t, ok)
	_, ok = c.Get(m, "stockholms", "mjukvaru-och-systemutvecklare")
	assert.False(t, ok)
}

func TestMonthCacheZeroCountIsCacheable(t *testing.T) {
	c := NewMonthCache(30*24*time.Hour, nil)
	m := month(t, "2024-06")

	c.Put(m, "", "", 0)

	count, ok := c.Get(m, "", "")
	require.True(t, ok)
	assert.Equal(t, 0, count)
}

func TestMonthCacheExpiry(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	c := NewMonthCache(30*24*time.Hour, nil)
	c.now = func() time.Time { return now }
	m := month(t, "2024-06")

	c.Put(m, "", "", 42)

	now = now.Add(29 * 24 * time.Hour)
	_, ok := c.Get(m, "", "")
	assert.True(t, ok)

	now = now.Add(2 * 24 * time.Hour)
	_, ok = c.Get(m, "", "")
	assert.False(t, ok)

	// The expired entry was removed on read.
	assert.Equal(t, 0, c.Len())
}

func TestMonthCacheSweep(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	c := NewMonthCache(24*time.Hour, nil)
	c.now = func() time.Time { return now }

	c.Put(month(t, "2024-04"), "", "", 1)
	c.Put(month(t, "2024-05"), "", "", 2)
	require.Equal(t, 2, c.Len())

	assert.Equal(t, 0, c.Sweep())

	now = now.Add(25 * time.Hour)
	assert.Equal(t, 2, c.Sweep())
	assert.Equal(t, 0, c.Len())
}

func TestMonthCacheOverwrite(t *testing.T) {
	c := NewMonthCache(time.Hour, nil)
	m := month(t, "2024-06")

	c.Put(m, "", "", 10)
	c.Put(m, "", "", 20)

	count, ok := c.Get(m, "", "")
	require.True(t, ok)
	assert.Equal(t, 20, count)
	assert.Equal(t, 1, c.Len())
}
