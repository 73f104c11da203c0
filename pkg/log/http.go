package log

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// HTTPLogger records GitHub API traffic through logrus. It satisfies the
// github.com/ernesto-jimenez/httplogger.HTTPLogger interface so it can be
// mounted on any compatible logging transport.
type HTTPLogger struct {
	logger *log.Logger
}

// NewHTTPLogger creates a new HTTPLogger instance
func NewHTTPLogger(logger *log.Logger) *HTTPLogger {
	return &HTTPLogger{
		logger: logger,
	}
}

// LogRequest logs an outgoing API request
func (l *HTTPLogger) LogRequest(req *http.Request) {
	l.logger.WithFields(log.Fields{
		"method": req.Method,
		"url":    req.URL.String(),
	}).Debug("api request")
}

// LogResponse logs the response, or the transport error, for a request
func (l *HTTPLogger) LogResponse(req *http.Request, res *http.Response, err error, duration time.Duration) {
	fields := log.Fields{
		"method":     req.Method,
		"url":        req.URL.String(),
		"durationMs": duration.Milliseconds(),
	}

	if err != nil {
		fields["error"] = err.Error()
		l.logger.WithFields(fields).Error("api response error")
		return
	}

	fields["status"] = res.StatusCode
	l.logger.WithFields(fields).Debug("api response")
}

// NewLoggingTransport wraps rt so every request/response pair is passed
// to l. A nil rt falls back to http.DefaultTransport.
func NewLoggingTransport(rt http.RoundTripper, l *HTTPLogger) http.RoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	return &loggingTransport{rt: rt, logger: l}
}

type loggingTransport struct {
	rt     http.RoundTripper
	logger *HTTPLogger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	t.logger.LogRequest(req)
	res, err := t.rt.RoundTrip(req)
	t.logger.LogResponse(req, res, err, time.Since(start))
	return res, err
}
