package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"llmcheck/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(url string, retries int) config.Config {
	return config.Config{
		APIURL:        url,
		BearerToken:   "secret-token",
		Timeout:       2 * time.Second,
		RetryAttempts: retries,
		RetryDelay:    time.Millisecond,
	}
}

func TestSend_Success(t *testing.T) {
	var gotBody []byte
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotHeaders = r.Header.Clone()
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"ok\":true}"}}]}`))
	}))
	defer srv.Close()

	exec := New(testConfig(srv.URL, 3))
	resp, err := exec.Send(context.Background(), json.RawMessage(`{"model":"m"}`))
	require.NoError(t, err)

	assert.JSONEq(t, `{"model":"m"}`, string(gotBody))
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "Bearer secret-token", gotHeaders.Get("Authorization"))
	assert.NotEmpty(t, gotHeaders.Get("X-Request-Id"))
	assert.Contains(t, string(resp), "choices")
}

func TestSend_RetriesUntilExhausted(t *testing.T) {
	tests := []struct {
		name         string
		retries      int
		wantAttempts int32
	}{
		{"no retries means a single attempt", 0, 1},
		{"one retry", 1, 2},
		{"three retries", 3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer srv.Close()

			var hooked []int
			exec := New(testConfig(srv.URL, tt.retries), WithAttemptHook(func(attempt int) {
				hooked = append(hooked, attempt)
			}))
			_, err := exec.Send(context.Background(), json.RawMessage(`{}`))
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
			assert.Equal(t, "API error: 500 - Internal Server Error", err.Error())
			assert.Equal(t, tt.wantAttempts, calls.Load())
			assert.Len(t, hooked, int(tt.wantAttempts))
		})
	}
}

func TestSend_RecoversAfterTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	resp, err := New(testConfig(srv.URL, 3)).Send(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(resp))
	assert.Equal(t, int32(3), calls.Load())
}

func TestSend_MalformedBodyIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	_, err := New(testConfig(srv.URL, 3)).Send(context.Background(), json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSend_AttemptTimeoutIsRetried(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	cfg := testConfig(srv.URL, 1)
	cfg.Timeout = 50 * time.Millisecond

	_, err := New(cfg).Send(context.Background(), json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed after 2 attempt(s)")
	assert.Equal(t, int32(2), calls.Load())
}

func TestSend_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL, 5)
	cfg.RetryDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := New(cfg).Send(ctx, json.RawMessage(`{}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSend_UnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(testConfig(url, 1)).Send(context.Background(), json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed after 2 attempt(s)")
}
