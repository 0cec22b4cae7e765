package auth

import "net/http"

// When returns mw if cond holds, otherwise a middleware that leaves the
// handler chain untouched. The predicate is evaluated once, at route
// registration time, so route declarations stay unconditional.
func When(cond bool, mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if cond {
		return mw
	}
	return func(next http.Handler) http.Handler {
		return next
	}
}
