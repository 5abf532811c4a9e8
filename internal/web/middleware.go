package web

import (
	"net/http"
	"strings"
)

// HTTPProtocolMiddleware prevents HTTP/3 QUIC protocol issues in cloud environments.
// Browsers that negotiate HTTP/3 through complex proxy setups drop SSE
// connections, so HTTP/3 advertising is disabled globally and the event
// endpoint is pinned to HTTP/1.1 semantics.
func HTTPProtocolMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Disable HTTP/3 QUIC protocol advertising globally
		w.Header().Set("Alt-Svc", "clear")

		// For SSE endpoints, add additional headers to ensure stable connections
		if strings.HasPrefix(r.URL.Path, "/events") {
			w.Header().Set("Connection", "keep-alive")
			w.Header().Set("X-Accel-Buffering", "no")
		}

		next.ServeHTTP(w, r)
	})
}

// WrapMuxWithMiddleware wraps an HTTP mux with the protocol middleware
func WrapMuxWithMiddleware(mux *http.ServeMux) http.Handler {
	return HTTPProtocolMiddleware(mux)
}
