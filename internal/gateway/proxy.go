package gateway

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/phrazzld/taskhub-api/internal/api/shared"
)

// newProxy builds a reverse proxy for one backing service. Transport errors
// (connection refused, timeout) surface as 503 with the shared error shape
// rather than the proxy's default bare 502. A backend that accepts the
// connection but never responds trips the response header timeout instead of
// holding the client connection open.
func newProxy(rawURL string, timeout time.Duration, logger *slog.Logger) (*httputil.ReverseProxy, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL %q: %w", rawURL, err)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	if timeout > 0 {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.ResponseHeaderTimeout = timeout
		proxy.Transport = transport
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Error("backend unreachable",
			"backend", target.Host,
			"path", r.URL.Path,
			"error", err,
		)
		shared.RespondWithError(w, r, http.StatusServiceUnavailable, "Service unavailable")
	}

	return proxy, nil
}
