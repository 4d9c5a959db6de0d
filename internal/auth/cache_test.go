package auth

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionCachePutGetDrop(t *testing.T) {
	cache := newSessionCache(10, time.Minute)

	_, ok := cache.get("t1")
	require.False(t, ok)

	cache.put("t1", User{ID: "u1", Email: "a@b.c"})
	user, ok := cache.get("t1")
	require.True(t, ok)
	require.Equal(t, "u1", user.ID)

	cache.drop("t1")
	_, ok = cache.get("t1")
	require.False(t, ok)
}

func TestSessionCacheExpiry(t *testing.T) {
	cache := newSessionCache(10, time.Millisecond)

	cache.put("t1", User{ID: "u1"})
	time.Sleep(5 * time.Millisecond)

	_, ok := cache.get("t1")
	require.False(t, ok)
}

func TestSessionCacheCapacityEviction(t *testing.T) {
	cache := newSessionCache(2, time.Hour)

	for i := 0; i < 3; i++ {
		cache.put(fmt.Sprintf("t%d", i), User{ID: fmt.Sprintf("u%d", i)})
	}

	_, ok := cache.get("t0")
	require.False(t, ok)
	_, ok = cache.get("t2")
	require.True(t, ok)
}
