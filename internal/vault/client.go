// internal/vault/client.go
//
// Secret resolution client with a process-lifetime cache.
//
// Context
// -------
//   - One Client per process.  Construct it during bootstrap and pass the
//     pointer to whoever needs to resolve references.  There is no package
//     level instance.
//   - Resolve checks the cache first.  On a miss it performs exactly one
//     Backend round trip, bounded by the client timeout, and caches the
//     value only when it is non-empty.
//   - Concurrent misses for the same reference are collapsed with
//     singleflight, so the vault sees one request.  A waiter whose context
//     ends returns early; the shared request keeps running for the others.
//   - Entries never expire.  A restart is the only invalidation.
//   - Logs carry the reference name, never the value.
//
// Public workflow
// ---------------
//  1. cli, err := vault.Open(ctx, opts, log)      // during boot.
//  2. pw,  err := cli.Resolve(ctx, "db-password") // anywhere after.
package vault

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/AdeptTravel/vaultboot/internal/metrics"
)

// DefaultTimeout bounds one backend round trip when none is configured.
const DefaultTimeout = 10 * time.Second

// Backend is the remote secret store.  GetSecret returns ("", nil) or an
// error wrapping ErrNotFound when the secret is absent; any other error is
// treated as the vault being unavailable.
type Backend interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

//
// SECTION 1.  Public façade
//

// Client is safe for concurrent use.  Zero value is invalid.
type Client struct {
	backend Backend
	log     *zap.SugaredLogger
	timeout time.Duration

	cacheMu sync.RWMutex
	cache   map[string]string // reference → resolved value.
	sfg     singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for resolution failures.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithTimeout bounds each backend call.  Non-positive values keep
// DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient wraps b with a cache.
func NewClient(b Backend, opts ...Option) *Client {
	c := &Client{
		backend: b,
		log:     zap.NewNop().Sugar(),
		timeout: DefaultTimeout,
		cache:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve exchanges reference for its value.  Errors are
// *SecretNotFoundError, *UnavailableError, or the caller's context error.
func (c *Client) Resolve(ctx context.Context, reference string) (string, error) {
	if reference == "" {
		return "", &SecretNotFoundError{}
	}

	if val, ok := c.lookup(reference); ok {
		metrics.SecretResolveTotal.WithLabelValues(metrics.OutcomeHit).Inc()
		return val, nil
	}

	ch := c.sfg.DoChan(reference, func() (any, error) {
		// Double-check after the singleflight barrier.
		if val, ok := c.lookup(reference); ok {
			return val, nil
		}
		return c.fetch(context.WithoutCancel(ctx), reference)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

//
// SECTION 2.  Cache and round trip
//

func (c *Client) lookup(reference string) (string, bool) {
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()
	val, ok := c.cache[reference]
	return val, ok
}

func (c *Client) fetch(ctx context.Context, reference string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	val, err := c.backend.GetSecret(ctx, reference)
	metrics.VaultRequestDuration.Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, ErrNotFound), err == nil && val == "":
		metrics.SecretResolveTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
		c.log.Warnw("vault secret missing or empty", "secret", reference)
		return "", &SecretNotFoundError{Reference: reference}
	case err != nil:
		metrics.SecretResolveTotal.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		c.log.Errorw("vault request failed", "secret", reference, "err", err)
		return "", &UnavailableError{Reference: reference, Err: err}
	}

	c.cacheMu.Lock()
	c.cache[reference] = val
	c.cacheMu.Unlock()

	metrics.SecretResolveTotal.WithLabelValues(metrics.OutcomeMiss).Inc()
	c.log.Debugw("vault secret resolved", "secret", reference)
	return val, nil
}
