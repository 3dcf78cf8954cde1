// Package telemetry initializes Sentry error reporting from a resolved
// parameter set and provides the HTTP middleware that reports panics.
//
// Init is a one-shot call made by bootstrap.  When Params.Enabled is false
// nothing is initialized and the DSN is expected to be unresolved.
package telemetry

import (
	"errors"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
)

// Params is the concrete telemetry configuration.
type Params struct {
	DSN         string
	Enabled     bool
	Release     string
	Environment string
}

// Init configures the global Sentry hub.  It is a no-op when disabled.
func Init(p Params) error {
	if !p.Enabled {
		return nil
	}
	if p.DSN == "" {
		return errors.New("telemetry: enabled without a DSN")
	}
	return sentry.Init(sentry.ClientOptions{
		Dsn:         p.DSN,
		Release:     p.Release,
		Environment: p.Environment,
	})
}

// Middleware reports panics in h to Sentry and re-panics so the server's
// own recovery still applies.  Without an initialized client it only adds
// a hub to the request context.
func Middleware(h http.Handler) http.Handler {
	return sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle(h)
}

// Flush waits up to timeout for buffered events.  Call on shutdown.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}
