package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/meridian-api/meridian/internal/platform/httpx"
)

const bearerScheme = "Bearer"

// Guard wires bearer-token authorization for HTTP handlers.
type Guard struct {
	Verifier TokenVerifier
	Logger   *slog.Logger
}

// Require ensures the request carries a bearer token the verifier accepts.
// Unauthenticated requests are rejected before reaching the handler.
func (g Guard) Require() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Auth scheme names are case-insensitive (RFC 7235).
			scheme, rest, ok := strings.Cut(r.Header.Get("Authorization"), " ")
			if !ok || !strings.EqualFold(scheme, bearerScheme) {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer credential")
				return
			}
			token := strings.TrimSpace(rest)
			if token == "" {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer credential")
				return
			}
			if err := g.Verifier.Verify(r.Context(), token); err != nil {
				if !errors.Is(err, httpx.ErrUnauthorized) && g.Logger != nil {
					g.Logger.Error("token verification", slog.Any("error", err))
				}
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid bearer credential")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
