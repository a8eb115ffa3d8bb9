package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "yieldscope-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"value": 42}`))
	}))
	defer srv.Close()

	c := New(Config{UserAgent: "yieldscope-test"}, nil)
	var out struct {
		Value int `json:"value"`
	}
	err := c.GetJSON(context.Background(), srv.URL, url.Values{"page": {"2"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, 42, out.Value)
}

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, New(Config{}, nil).PostJSON(context.Background(), srv.URL, map[string]string{"q": "x"}, &out))
	assert.True(t, out.OK)
}

func TestStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	err := New(Config{}, nil).GetJSON(context.Background(), srv.URL, nil, &struct{}{})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Equal(t, "slow down", statusErr.Body)
}

func TestMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	err := New(Config{}, nil).GetJSON(context.Background(), srv.URL, nil, &struct{}{})
	assert.ErrorContains(t, err, "decode response")
}

func TestDelaySpacesRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(Config{Delay: 50 * time.Millisecond}, nil)
	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, c.GetJSON(context.Background(), srv.URL, nil, nil))
	}
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	b := NewBreaker("test", 2, nil)
	boom := errors.New("boom")

	assert.ErrorIs(t, b.Do(func() error { return boom }), boom)
	assert.False(t, b.Open())
	assert.ErrorIs(t, b.Do(func() error { return boom }), boom)
	assert.True(t, b.Open())

	called := false
	err := b.Do(func() error { called = true; return nil })
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.False(t, called)
}

func TestNilBreakerPassesThrough(t *testing.T) {
	var b *Breaker
	assert.NoError(t, b.Do(func() error { return nil }))
	assert.False(t, b.Open())
}
