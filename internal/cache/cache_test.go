package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_StableAndNamespaced(t *testing.T) {
	text := "Hemoglobin: 13.2 g/dL\nGlucose: 98 mg/dL"

	assert.Equal(t, Key("extract", text), Key("extract", text))
	assert.NotEqual(t, Key("extract", text), Key("quality", text))
	assert.NotEqual(t, Key("extract", text), Key("extract", text+" "))
}

func TestResultCache_SetGet(t *testing.T) {
	c := New(time.Minute)

	key := Key("extract", "some report text")
	_, found := c.Get(key)
	assert.False(t, found)

	c.Set(key, "result")
	got, found := c.Get(key)
	require.True(t, found)
	assert.Equal(t, "result", got)
	assert.Equal(t, 1, c.Len())
}

func TestResultCache_Expiry(t *testing.T) {
	c := New(10 * time.Millisecond)

	c.Set("k", 42)
	time.Sleep(30 * time.Millisecond)

	_, found := c.Get("k")
	assert.False(t, found)
}

func TestResultCache_DefaultTTL(t *testing.T) {
	c := New(0)
	assert.Equal(t, DefaultTTL, c.ttl)
}

func TestResultCache_Flush(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	require.Equal(t, 2, c.Len())

	c.Flush()
	assert.Equal(t, 0, c.Len())
}
