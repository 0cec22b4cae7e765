// Package auth gates HTTP routes behind bearer-token verification.
//
// Credential validation itself is delegated: the guard only consumes the
// pass/fail verdict of a TokenVerifier. Which verifier is bound (remote
// introspection, local JWT, or the test-mode allow-all) is decided at the
// composition root.
package auth

import "context"

// TokenVerifier decides whether a bearer token is acceptable.
//
// A rejected token yields httpx.ErrUnauthorized (possibly wrapped). Any
// other error is an infrastructure failure; the guard still refuses the
// request but logs the cause.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) error
}
