// internal/vault/hashicorp.go
//
// HashiCorp Vault backend (KV v2).
//
// Context
// -------
//   - A reference names a KV v2 secret path under the configured mount.
//     The value is read from one field of that secret, `value` by default.
//   - The token comes from VAULT_TOKEN (or ~/.vault-token via the SDK's
//     environment handling).  Renew keeps it alive in the background.
//   - Follows the same comment style as the rest of internal/: header
//     block, section underlines, two spaces after periods, no m-dash.
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	vaultapi "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

//
// SECTION 1.  Backend
//

// HashiCorp reads secrets from a KV v2 mount.
type HashiCorp struct {
	api   *vaultapi.Client
	mount string
	field string
}

// NewHashiCorp builds a KV v2 backend for the server at addr.
func NewHashiCorp(addr, mount, field string) (*HashiCorp, error) {
	cfg := vaultapi.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}
	cfg.Address = addr

	apiCli, err := vaultapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		apiCli.SetToken(tok)
	}

	if mount == "" {
		mount = "secret"
	}
	if field == "" {
		field = "value"
	}
	return &HashiCorp{api: apiCli, mount: mount, field: field}, nil
}

// GetSecret implements Backend.
func (h *HashiCorp) GetSecret(ctx context.Context, name string) (string, error) {
	sec, err := h.api.KVv2(h.mount).Get(ctx, name)
	if errors.Is(err, vaultapi.ErrSecretNotFound) {
		return "", fmt.Errorf("%w: %s/%s", ErrNotFound, h.mount, name)
	}
	if err != nil {
		return "", fmt.Errorf("vault get %s/%s: %w", h.mount, name, err)
	}

	raw, ok := sec.Data[h.field]
	if !ok || raw == nil {
		return "", nil
	}
	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q of %s is not a string", ErrNotFound, h.field, name)
	}
	return sval, nil
}

//
// SECTION 2.  Background token renewal
//

// Renew keeps the client token alive until ctx ends.  Run it in its own
// goroutine.
func (h *HashiCorp) Renew(ctx context.Context, log *zap.SugaredLogger) {
	for ctx.Err() == nil {
		sec, err := h.api.Auth().Token().RenewSelfWithContext(ctx, 0)
		if err != nil {
			log.Warnw("vault token renew-self failed", "err", err)
			backoff(ctx, 30*time.Second)
			continue
		}
		if sec == nil || sec.Auth == nil || !sec.Auth.Renewable {
			log.Infow("vault token is not renewable, sleeping")
			backoff(ctx, time.Hour)
			continue
		}

		if err := h.watch(ctx, sec, log); err != nil {
			log.Warnw("vault token renewal stopped", "err", err)
		}
		backoff(ctx, 15*time.Second)
	}
}

// watch drives one lifetime watcher until it finishes or ctx ends.
func (h *HashiCorp) watch(ctx context.Context, sec *vaultapi.Secret, log *zap.SugaredLogger) error {
	w, err := h.api.NewLifetimeWatcher(&vaultapi.LifetimeWatcherInput{Secret: sec})
	if err != nil {
		return fmt.Errorf("lifetime watcher: %w", err)
	}
	go w.Start()
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-w.DoneCh():
			return err
		case ev := <-w.RenewCh():
			if ev != nil && ev.Secret != nil && ev.Secret.Auth != nil {
				log.Debugw("vault token renewed", "ttl_seconds", ev.Secret.Auth.LeaseDuration)
			}
		}
	}
}

func backoff(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
