package http

import (
	"net/http"
	"net/http/httputil"
	"net/url"
)

// newServiceProxy builds a reverse proxy to a backend service. The validated
// identity travels as headers the backend trusts only from the gateway.
func newServiceProxy(target *url.URL) http.Handler {
	proxy := httputil.NewSingleHostReverseProxy(target)

	director := proxy.Director
	proxy.Director = func(r *http.Request) {
		director(r)
		r.Host = target.Host

		if identity, ok := identityFromContext(r.Context()); ok {
			r.Header.Set("X-User-Id", identity.UserID.String())
			r.Header.Set("X-User-Role", identity.Role)
			r.Header.Set("X-User-Name", identity.Username)
		}
		if reqID := requestIDFromContext(r.Context()); reqID != "" {
			r.Header.Set("X-Request-Id", reqID)
		}
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logHTTPOperationError(r.Context(), "proxy_request", http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "backend unreachable", err)
		writeError(w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "backend service unavailable")
	}

	return proxy
}

// rewritePath swaps the request path before proxying. It is used for
// caller-relative routes like /reward-requests/me.
func rewritePath(next http.Handler, rewrite func(r *http.Request) string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = rewrite(r)
		r.URL.RawPath = ""
		next.ServeHTTP(w, r)
	})
}
