// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlms/zoom-sync-service/internal/domain"
)

const testScopes = "meeting:read:admin meeting:write:admin user:read:admin report:read:admin"

// memLimitStore is an in-memory LimitStore for tests.
type memLimitStore struct {
	mu       sync.Mutex
	resumeAt time.Time
}

func (s *memLimitStore) GetAPILimitResumeAt(_ context.Context) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resumeAt, nil
}

func (s *memLimitStore) SetAPILimitResumeAt(_ context.Context, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resumeAt = t
	return nil
}

func newAuthServer(t *testing.T, scopes string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		user, _, ok := r.BasicAuth()
		require.True(t, ok, "token exchange must use basic auth")
		require.Equal(t, "test-client", user)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"token_type":   "bearer",
			"expires_in":   3599,
			"scope":        scopes,
		})
	}))
}

type testClientOptions struct {
	scopes     string
	limitStore LimitStore
	sleeps     *[]time.Duration
	now        func() time.Time
}

func newTestClient(t *testing.T, handler http.Handler, opts testClientOptions) (*Client, func()) {
	t.Helper()

	if opts.scopes == "" {
		opts.scopes = testScopes
	}
	authServer := newAuthServer(t, opts.scopes)
	apiServer := httptest.NewServer(handler)

	config := Config{
		AccountID:    "test-account",
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		BaseURL:      apiServer.URL,
		AuthURL:      authServer.URL,
		Sleep: func(_ context.Context, d time.Duration) error {
			if opts.sleeps != nil {
				*opts.sleeps = append(*opts.sleeps, d)
			}
			return nil
		},
		Now: opts.now,
	}

	client := NewClient(config, opts.limitStore)
	return client, func() {
		authServer.Close()
		apiServer.Close()
	}
}

func TestCallSuccess(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 123, "topic": "Weekly standup"}`))
	})

	client, cleanup := newTestClient(t, handler, testClientOptions{})
	defer cleanup()

	meeting, err := client.GetMeeting(context.Background(), 123, false)
	require.NoError(t, err)
	assert.Equal(t, int64(123), meeting.ID)
	assert.Equal(t, "Weekly standup", meeting.Topic)
}

func TestCallBadRequest(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code": 300, "message": "Invalid meeting topic"}`))
	})

	client, cleanup := newTestClient(t, handler, testClientOptions{})
	defer cleanup()

	_, err := client.GetMeeting(context.Background(), 123, false)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindBadRequest, domain.GetErrorKind(err))

	var wsErr *domain.WSError
	require.ErrorAs(t, err, &wsErr)
	assert.Equal(t, 300, wsErr.RemoteCode)
	assert.Contains(t, wsErr.RemoteMessage, "Invalid meeting topic")
}

func TestCallNotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code": 3001, "message": "Meeting does not exist"}`))
	})

	client, cleanup := newTestClient(t, handler, testClientOptions{})
	defer cleanup()

	_, err := client.GetMeeting(context.Background(), 123, false)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindNotFound, domain.GetErrorKind(err))
}

func TestCallUnparseableErrorBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	client, cleanup := newTestClient(t, handler, testClientOptions{})
	defer cleanup()

	_, err := client.GetMeeting(context.Background(), 123, false)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindGeneric, domain.GetErrorKind(err))
	assert.Contains(t, err.Error(), "502")
}

func TestRetryCeilingExhaustion(t *testing.T) {
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"code": 429, "message": "Too many requests"}`))
	})

	var sleeps []time.Duration
	client, cleanup := newTestClient(t, handler, testClientOptions{sleeps: &sleeps})
	defer cleanup()

	_, err := client.GetMeeting(context.Background(), 123, false)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindRetryFailed, domain.GetErrorKind(err))
	assert.Contains(t, err.Error(), fmt.Sprintf("%d", DefaultMaxRetries))

	// Exactly maxRetries backoff waits before giving up.
	assert.Len(t, sleeps, DefaultMaxRetries)
	assert.Equal(t, DefaultMaxRetries+1, calls)
}

func TestDailyLimitPersistsResumeTime(t *testing.T) {
	now := time.Date(2026, 5, 1, 22, 0, 0, 0, time.UTC)
	resumeAt := now.Add(2 * time.Hour)

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", resumeAt.Format(http.TimeFormat))
		w.Header().Set("X-RateLimit-Type", "Daily")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"code": 429, "message": "Daily limit reached"}`))
	})

	store := &memLimitStore{}
	client, cleanup := newTestClient(t, handler, testClientOptions{
		limitStore: store,
		now:        func() time.Time { return now },
	})
	defer cleanup()

	_, err := client.GetMeeting(context.Background(), 123, false)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindAPILimit, domain.GetErrorKind(err))
	assert.Equal(t, resumeAt, domain.ResumeAfter(err).UTC())

	stored, _ := store.GetAPILimitResumeAt(context.Background())
	assert.Equal(t, resumeAt, stored.UTC())
}

func TestDailyLimitFailsFastBeforeCalling(t *testing.T) {
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})

	now := time.Date(2026, 5, 1, 22, 0, 0, 0, time.UTC)
	store := &memLimitStore{resumeAt: now.Add(time.Hour)}
	client, cleanup := newTestClient(t, handler, testClientOptions{
		limitStore: store,
		now:        func() time.Time { return now },
	})
	defer cleanup()

	_, err := client.GetMeeting(context.Background(), 123, false)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindAPILimit, domain.GetErrorKind(err))
	assert.Zero(t, calls, "no HTTP call may be attempted while the daily limit is in effect")
}

func TestDailyLimitSelfClears(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": 123}`))
	})

	now := time.Date(2026, 5, 2, 1, 0, 0, 0, time.UTC)
	store := &memLimitStore{resumeAt: now.Add(-time.Minute)} // already elapsed
	client, cleanup := newTestClient(t, handler, testClientOptions{
		limitStore: store,
		now:        func() time.Time { return now },
	})
	defer cleanup()

	_, err := client.GetMeeting(context.Background(), 123, false)
	assert.NoError(t, err)
}

func TestMissingRequiredScopes(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	client, cleanup := newTestClient(t, handler, testClientOptions{
		scopes: "meeting:read:admin", // missing meeting:write:admin and user:read:admin
	})
	defer cleanup()

	_, err := client.GetMeeting(context.Background(), 123, false)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindConfiguration, domain.GetErrorKind(err))
	assert.Contains(t, err.Error(), "meeting:write:admin")
}

func TestHasScope(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	client, cleanup := newTestClient(t, handler, testClientOptions{})
	defer cleanup()

	// Lazily acquires the token on first use.
	ok, err := client.HasScope(context.Background(), "report:read:admin", "dashboard_meetings:read:admin")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.HasScope(context.Background(), "dashboard_meetings:read:admin")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecideBackoff(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		attempt      int
		headers      map[string]string
		path         string
		expectedKind backoffKind
		expectedWait time.Duration
	}{
		{
			name:         "ceiling exceeded",
			attempt:      DefaultMaxRetries + 1,
			path:         "/meetings/123",
			expectedKind: backoffRetryExceeded,
		},
		{
			name:         "QPS limit on dashboard path waits for the next minute window",
			attempt:      1,
			headers:      map[string]string{"X-RateLimit-Type": "QPS"},
			path:         "/metrics/meetings",
			expectedKind: backoffWait,
			expectedWait: 60 * time.Second,
		},
		{
			name:         "QPS limit on non-dashboard path uses the default backoff",
			attempt:      1,
			headers:      map[string]string{"X-RateLimit-Type": "QPS"},
			path:         "/meetings/123",
			expectedKind: backoffWait,
			expectedWait: time.Second,
		},
		{
			name:    "retry-after with remaining quota",
			attempt: 1,
			headers: map[string]string{
				"Retry-After":           "30",
				"X-RateLimit-Remaining": "42",
			},
			path:         "/meetings/123",
			expectedKind: backoffWait,
			expectedWait: 30 * time.Second,
		},
		{
			name:    "retry-after with zero remaining quota is a daily limit",
			attempt: 1,
			headers: map[string]string{
				"Retry-After":           "7200",
				"X-RateLimit-Remaining": "0",
			},
			path:         "/meetings/123",
			expectedKind: backoffDailyLimit,
		},
		{
			name:         "no headers defaults to one second",
			attempt:      1,
			path:         "/meetings/123",
			expectedKind: backoffWait,
			expectedWait: time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			for k, v := range tt.headers {
				header.Set(k, v)
			}

			decision := decideBackoff(tt.attempt, DefaultMaxRetries, header, tt.path, now)
			assert.Equal(t, tt.expectedKind, decision.kind)
			if tt.expectedKind == backoffWait {
				assert.Equal(t, tt.expectedWait, decision.wait)
			}
			if tt.expectedKind == backoffDailyLimit {
				assert.Equal(t, now.Add(7200*time.Second), decision.resumeAt)
			}
		})
	}
}

func TestDecideBackoffHeaderCaseInsensitive(t *testing.T) {
	now := time.Now()
	header := http.Header{}
	header.Set("x-ratelimit-type", "qps")

	decision := decideBackoff(1, DefaultMaxRetries, header, "/metrics/webinars", now)
	assert.Equal(t, backoffWait, decision.kind)
	assert.Equal(t, 60*time.Second, decision.wait)
}

func TestPaginatedCallNextPageToken(t *testing.T) {
	var pages int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		assert.Equal(t, "300", r.URL.Query().Get("page_size"))
		switch r.URL.Query().Get("next_page_token") {
		case "":
			_, _ = w.Write([]byte(`{"next_page_token": "tok2", "users": [{"id": "u1"}, {"id": "u2"}]}`))
		case "tok2":
			_, _ = w.Write([]byte(`{"next_page_token": "", "users": [{"id": "u3"}]}`))
		default:
			t.Fatalf("unexpected page token %q", r.URL.Query().Get("next_page_token"))
		}
	})

	client, cleanup := newTestClient(t, handler, testClientOptions{})
	defer cleanup()

	users, err := client.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, pages)
	require.Len(t, users, 3)
	assert.Equal(t, "u3", users[2].ID)
}

func TestPaginatedCallPageNumber(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page_number") {
		case "", "1":
			_, _ = w.Write([]byte(`{"page_number": 1, "page_count": 2, "users": [{"id": "u1"}]}`))
		case "2":
			_, _ = w.Write([]byte(`{"page_number": 2, "page_count": 2, "users": [{"id": "u2"}]}`))
		default:
			t.Fatalf("unexpected page number %q", r.URL.Query().Get("page_number"))
		}
	})

	client, cleanup := newTestClient(t, handler, testClientOptions{})
	defer cleanup()

	users, err := client.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u2", users[1].ID)
}

func TestEncodeMeetingUUID(t *testing.T) {
	tests := []struct {
		name     string
		uuid     string
		expected string
	}{
		{
			name:     "leading slash is double encoded",
			uuid:     "/u2F0gUNSqqC7DT+08xKrw==",
			expected: "%252Fu2F0gUNSqqC7DT%252B08xKrw%253D%253D",
		},
		{
			name:     "double slash is double encoded",
			uuid:     "ab//cd==",
			expected: "ab%252F%252Fcd%253D%253D",
		},
		{
			name:     "plain uuid is unchanged",
			uuid:     "u2F0gUNSqqC7DT+08xKrw==",
			expected: "u2F0gUNSqqC7DT+08xKrw==",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EncodeMeetingUUID(tt.uuid))
		})
	}
}
