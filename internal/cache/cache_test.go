package cache

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	c, err := Open(t.TempDir(), time.Hour)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Put("primary", "disc-1", []byte("hello")))
	payload, ok, err := c.Get("primary", "disc-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("hello"), payload)
}

func TestGetMissingIsNotFound(t *testing.T) {
	c, err := Open(t.TempDir(), time.Hour)
	require.NoError(t, err)
	defer c.Close()

	_, ok, err := c.Get("primary", "nope")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestGetExpiredIsNotFound(t *testing.T) {
	c, err := Open(t.TempDir(), time.Nanosecond)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Put("primary", "disc-1", []byte("hello")))
	time.Sleep(time.Millisecond)
	_, ok, err := c.Get("primary", "disc-1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFetchCachesResult(t *testing.T) {
	c, err := Open(t.TempDir(), time.Hour)
	require.NoError(t, err)
	defer c.Close()

	var calls int32
	fn := func() ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte("fresh"), nil
	}

	v1, err := c.Fetch("primary", "disc-1", fn)
	require.NoError(t, err)
	require.Equal(t, []byte("fresh"), v1)

	v2, err := c.Fetch("primary", "disc-1", fn)
	require.NoError(t, err)
	require.Equal(t, []byte("fresh"), v2)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}
