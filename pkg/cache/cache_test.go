package cache

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true}`))
	})
}

func TestNilClientPassesThrough(t *testing.T) {
	c := NewResponseCache(nil, "catalog", 0)
	calls := 0
	h := c.Middleware(countingHandler(&calls))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
		assert.Equal(t, `{"success":true}`, rec.Body.String())
	}

	assert.Equal(t, 2, calls)
	assert.False(t, c.Enabled())
	assert.NoError(t, c.Invalidate(context.Background()))
}

func TestUnreachableRedisDegradesToPassThrough(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewResponseCache(client, "catalog", time.Second)
	calls := 0
	rec := httptest.NewRecorder()
	c.Middleware(countingHandler(&calls)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)
	assert.Error(t, c.Invalidate(context.Background()))
}

func TestKeyDependsOnQuery(t *testing.T) {
	c := NewResponseCache(nil, "catalog", 0)
	a := c.Key(httptest.NewRequest(http.MethodGet, "/api/products?sort=asc", nil), 0)
	b := c.Key(httptest.NewRequest(http.MethodGet, "/api/products?sort=desc", nil), 0)
	a2 := c.Key(httptest.NewRequest(http.MethodGet, "/api/products?sort=asc", nil), 1)

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, a2)
	assert.Regexp(t, `^catalog:g0:[0-9a-f]{64}$`, a)
}

func TestCachedResponsesUntilInvalidated(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	c := NewResponseCache(client, "catalog", time.Minute)
	require.NoError(t, c.Ping(ctx))

	calls := 0
	h := c.Middleware(countingHandler(&calls))
	get := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products?sort=asc", nil))
		return rec
	}

	assert.Equal(t, "MISS", get().Header().Get("X-Cache"))
	rec := get()
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, `{"success":true}`, rec.Body.String())
	assert.Equal(t, 1, calls)

	require.NoError(t, client.Set(ctx, "other:key", "x", 0).Err())
	require.NoError(t, c.Invalidate(ctx))
	assert.True(t, mr.Exists("other:key"))

	assert.Equal(t, "MISS", get().Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestWriteDuringRequestDropsItsReply(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	c := NewResponseCache(client, "catalog", time.Minute)

	stock := 50
	first := true
	h := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		body := fmt.Sprintf(`{"stock":%d}`, stock)
		if first {
			// an order lands after this read and before the reply is stored
			first = false
			stock = 48
			require.NoError(t, c.Invalidate(ctx))
		}
		w.Write([]byte(body))
	}))
	get := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
		return rec
	}

	rec := get()
	assert.Equal(t, `{"stock":50}`, rec.Body.String())

	rec = get()
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, `{"stock":48}`, rec.Body.String())

	rec = get()
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, `{"stock":48}`, rec.Body.String())
}
