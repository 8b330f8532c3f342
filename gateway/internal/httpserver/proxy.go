package httpserver

import (
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	echo "github.com/labstack/echo/v4"

	"github.com/mkravets/socialnet/gateway/internal/middleware"
	"github.com/mkravets/socialnet/gateway/internal/obs"
	"github.com/mkravets/socialnet/pkg/middleware/identity"
)

const (
	gatewayPrefix  = "/v1"
	upstreamPrefix = "/api"
)

type proxyOptions struct {
	// service labels logs and metrics; never exposed to callers.
	service string

	// injectIdentity forwards the verified caller id as the trusted header.
	injectIdentity bool

	// preserveMultipart keeps multipart bodies intact instead of forcing the
	// JSON content type; used by the upload route group.
	preserveMultipart bool
}

// newProxy dispatches a route group to one upstream. The Director resolves the
// upstream path and decorates outbound headers. Any transport failure answers
// uniformly with 502 and never leaks the upstream address to the caller.
func newProxy(target string, opts proxyOptions, log *slog.Logger) (echo.HandlerFunc, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}

	baseTransport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		MaxIdleConns:          200,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	p := httputil.NewSingleHostReverseProxy(u)
	p.Transport = baseTransport
	p.FlushInterval = 100 * time.Millisecond

	origDirector := p.Director
	p.Director = func(req *http.Request) {
		originalHost := req.Host
		originalProto := "http"
		if req.TLS != nil {
			originalProto = "https"
		} else if xf := req.Header.Get("X-Forwarded-Proto"); xf != "" {
			originalProto = xf
		}

		origDirector(req)

		if strings.HasPrefix(req.URL.Path, gatewayPrefix) {
			req.URL.Path = upstreamPrefix + strings.TrimPrefix(req.URL.Path, gatewayPrefix)
			if rp := req.URL.RawPath; rp != "" && strings.HasPrefix(rp, gatewayPrefix) {
				req.URL.RawPath = upstreamPrefix + strings.TrimPrefix(rp, gatewayPrefix)
			}
		}

		ct := req.Header.Get("Content-Type")
		if !(opts.preserveMultipart && strings.HasPrefix(ct, "multipart/")) {
			req.Header.Set("Content-Type", "application/json")
		}

		if req.Header.Get("X-Forwarded-Proto") == "" {
			req.Header.Set("X-Forwarded-Proto", originalProto)
		}
		if req.Header.Get("X-Forwarded-Host") == "" && originalHost != "" {
			req.Header.Set("X-Forwarded-Host", originalHost)
		}
	}

	p.ModifyResponse = func(res *http.Response) error {
		log.Info("upstream response", "service", opts.service, "status", res.StatusCode)
		return nil
	}

	p.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Error("upstream unreachable", "service", opts.service, "error", err)
		obs.UpstreamError(opts.service)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"success":false,"message":"upstream service unavailable"}`))
	}

	return func(c echo.Context) error {
		req := c.Request()

		// The trust header is gateway-owned: whatever the client sent is
		// dropped, and only verified identities are forwarded.
		req.Header.Del(identity.Header)
		if opts.injectIdentity {
			if uid, ok := c.Get(middleware.CtxUserID).(string); ok && uid != "" {
				req.Header.Set(identity.Header, uid)
			}
		}

		p.ServeHTTP(c.Response(), req)
		return nil
	}, nil
}
