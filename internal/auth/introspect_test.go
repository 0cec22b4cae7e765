package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/meridian-api/meridian/internal/auth"
	"github.com/meridian-api/meridian/internal/platform/httpx"
	_ "github.com/meridian-api/meridian/testing"
)

func newProvider(t *testing.T, activeToken string, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		user, _, ok := r.BasicAuth()
		if !ok || user != "client-id" {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if r.PostFormValue("token") == activeToken {
			_, _ = w.Write([]byte(`{"active":true}`))
			return
		}
		_, _ = w.Write([]byte(`{"active":false}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestIntrospectionVerdicts(t *testing.T) {
	var hits atomic.Int64
	provider := newProvider(t, "live-token", &hits)
	verifier := auth.NewIntrospectionVerifier(provider.URL, "client-id", "client-secret", nil, time.Minute, nil)

	if err := verifier.Verify(context.Background(), "live-token"); err != nil {
		t.Fatalf("expected active token accepted, got %v", err)
	}

	err := verifier.Verify(context.Background(), "revoked-token")
	if !errors.Is(err, httpx.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for inactive token, got %v", err)
	}
}

func TestIntrospectionCachesVerdict(t *testing.T) {
	var hits atomic.Int64
	provider := newProvider(t, "live-token", &hits)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	verifier := auth.NewIntrospectionVerifier(provider.URL, "client-id", "client-secret", redisClient, time.Minute, nil)

	for i := 0; i < 3; i++ {
		if err := verifier.Verify(context.Background(), "live-token"); err != nil {
			t.Fatalf("verify %d: %v", i, err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("expected a single upstream call, got %d", got)
	}

	// Negative verdicts are cached too.
	for i := 0; i < 2; i++ {
		err := verifier.Verify(context.Background(), "revoked-token")
		if !errors.Is(err, httpx.ErrUnauthorized) {
			t.Fatalf("verify %d: expected ErrUnauthorized, got %v", i, err)
		}
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("expected one upstream call per distinct token, got %d", got)
	}
}

func TestIntrospectionProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	verifier := auth.NewIntrospectionVerifier(server.URL, "client-id", "client-secret", nil, time.Minute, nil)

	err := verifier.Verify(context.Background(), "any-token")
	if err == nil {
		t.Fatalf("expected error for provider failure")
	}
	if errors.Is(err, httpx.ErrUnauthorized) {
		t.Fatalf("provider failure must not masquerade as an auth verdict: %v", err)
	}
}
