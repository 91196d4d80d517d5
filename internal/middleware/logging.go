package middleware

import (
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// secretParams are query parameters never written to the log.
var secretParams = []string{"appid"}

// LoggingTransport logs every outbound request and its outcome at debug level.
func LoggingTransport(next http.RoundTripper, logger *zap.SugaredLogger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		target := redactURL(req.URL)
		logger.Debugw("outbound request", "method", req.Method, "url", target)

		start := time.Now()
		resp, err := next.RoundTrip(req)
		latency := time.Since(start)
		if err != nil {
			logger.Warnw("outbound request failed", "method", req.Method, "url", target, "latency", latency, "error", err)
			return nil, err
		}
		logger.Debugw("outbound response", "method", req.Method, "url", target, "status", resp.StatusCode, "latency", latency)
		return resp, nil
	})
}

func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	redacted := *u
	q := redacted.Query()
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, "REDACTED")
		}
	}
	redacted.RawQuery = q.Encode()
	return redacted.String()
}
