package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meridian-api/meridian/internal/auth"
	"github.com/meridian-api/meridian/internal/platform/httpx"
	_ "github.com/meridian-api/meridian/testing"
)

type stubVerifier struct {
	accept string
	calls  int
}

func (s *stubVerifier) Verify(ctx context.Context, token string) error {
	s.calls++
	if token == s.accept {
		return nil
	}
	return httpx.ErrUnauthorized
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestGuardRejectsMissingHeader(t *testing.T) {
	guard := auth.Guard{Verifier: &stubVerifier{accept: "good"}}
	handler := guard.Require()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
}

func TestGuardRejectsMalformedHeader(t *testing.T) {
	verifier := &stubVerifier{accept: "good"}
	guard := auth.Guard{Verifier: verifier}
	handler := guard.Require()(okHandler())

	for _, header := range []string{"good", "Basic good", "Bearer ", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		req.Header.Set("Authorization", header)
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		if res.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, res.Code)
		}
	}
	if verifier.calls != 0 {
		t.Fatalf("verifier should not run for malformed headers, got %d calls", verifier.calls)
	}
}

func TestGuardRejectsInvalidToken(t *testing.T) {
	guard := auth.Guard{Verifier: &stubVerifier{accept: "good"}}
	handler := guard.Require()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	req.Header.Set("Authorization", "Bearer bad")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
}

func TestGuardAcceptsValidToken(t *testing.T) {
	guard := auth.Guard{Verifier: &stubVerifier{accept: "good"}}
	handler := guard.Require()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	req.Header.Set("Authorization", "Bearer good")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
}

func TestGuardSchemeIsCaseInsensitive(t *testing.T) {
	guard := auth.Guard{Verifier: &stubVerifier{accept: "good"}}
	handler := guard.Require()(okHandler())

	for _, header := range []string{"bearer good", "BEARER good", "Bearer good"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		req.Header.Set("Authorization", header)
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		if res.Code != http.StatusOK {
			t.Fatalf("header %q: expected 200, got %d", header, res.Code)
		}
	}
}

func TestWhenDisabledSkipsGuard(t *testing.T) {
	guard := auth.Guard{Verifier: &stubVerifier{accept: "good"}}
	handler := auth.When(false, guard.Require())(okHandler())

	// No Authorization header at all.
	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 with guard disabled, got %d", res.Code)
	}
}

func TestWhenEnabledAppliesGuard(t *testing.T) {
	guard := auth.Guard{Verifier: &stubVerifier{accept: "good"}}
	handler := auth.When(true, guard.Require())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with guard enabled, got %d", res.Code)
	}
}

func TestAllowAllAcceptsAnything(t *testing.T) {
	guard := auth.Guard{Verifier: auth.AllowAll{}}
	handler := guard.Require()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	req.Header.Set("Authorization", "Bearer anything-at-all")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
}
