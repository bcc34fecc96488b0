package httpx

import "net/http"

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain wraps h with mw so that the first middleware listed runs first:
//
//	Chain(h, Authn(v), RequireStaff, RateLimitByUser(cfg))
//
// authenticates, then checks staff, then rate limits, then calls h.
func Chain(h http.Handler, mw ...Middleware) http.Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}
