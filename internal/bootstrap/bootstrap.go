// internal/bootstrap/bootstrap.go
//
// Startup orchestration: settings → domains → secrets → consumers.
//
/*
Context
--------
Run is the only path from raw settings to live consumers:

  1. Locate the settings file from APP_ENV and load all six domains.
  2. Open the vault client from the SecretVault domain.
  3. Resolve the Database references (host, user, password, name) and,
     when telemetry is enabled, the Sentry DSN.  Consumers resolve
     concurrently; the errgroup context abandons the rest on the first
     failure.
  4. Hand each complete parameter set to its consumer hook, once.  Hooks
     run only after every set is complete, so no consumer ever sees a
     partial configuration.  If a later hook fails, CloseDatabase undoes
     a database connection that already succeeded.
  5. In development, publish the API documentation.

Logs name secret references and never resolved values.

Any failure is returned wrapped; errors.As finds the typed cause
(*config.ConfigurationError, *vault.SecretNotFoundError,
*vault.UnavailableError).  The caller must not listen on a port unless Run
returned a Runtime.
*/
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AdeptTravel/vaultboot/internal/apidocs"
	"github.com/AdeptTravel/vaultboot/internal/config"
	"github.com/AdeptTravel/vaultboot/internal/database"
	"github.com/AdeptTravel/vaultboot/internal/envfile"
	"github.com/AdeptTravel/vaultboot/internal/metrics"
	"github.com/AdeptTravel/vaultboot/internal/telemetry"
	"github.com/AdeptTravel/vaultboot/internal/vault"
)

// Stage labels for metrics.BootstrapFailuresTotal.
const (
	stageConfig   = "config"
	stageVault    = "vault"
	stageResolve  = "resolve"
	stageConsumer = "consumer"
)

// Resolver exchanges a secret reference for its value.  *vault.Client
// satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, reference string) (string, error)
}

// Options wires the orchestrator.  Nil consumer hooks are skipped.
type Options struct {
	EnvDir  string // directory holding <env>.env and .env
	Release string // telemetry release when SENTRY_RELEASE is unset

	// NewResolver builds the resolver from the loaded vault settings.
	// Defaults to vault.Open.
	NewResolver func(ctx context.Context, sv config.SecretVault) (Resolver, error)

	ConnectDatabase func(ctx context.Context, p database.Params) error
	CloseDatabase   func()
	InitTelemetry   func(p telemetry.Params) error
	PublishDocs     func(s apidocs.Spec) error

	// DocOperations are the documented endpoints, supplied by the HTTP
	// layer.
	DocOperations []apidocs.Operation

	Log *zap.SugaredLogger
}

// Runtime is the fully resolved startup state.
type Runtime struct {
	Environment  envfile.Environment
	SettingsFile string
	Config       *config.Domains
	Resolver     Resolver
	Database     database.Params
	Telemetry    telemetry.Params
	Docs         *apidocs.Spec // nil outside development
}

// Bootstrapper runs the startup sequence once.
type Bootstrapper struct {
	o   Options
	log *zap.SugaredLogger
}

// New returns a Bootstrapper for o.
func New(o Options) *Bootstrapper {
	log := o.Log
	if log == nil {
		log = zap.S()
	}
	if o.NewResolver == nil {
		o.NewResolver = func(ctx context.Context, sv config.SecretVault) (Resolver, error) {
			return vault.Open(ctx, vault.Options{
				URL:      sv.URL,
				Provider: sv.Provider,
				Mount:    sv.Mount,
				Field:    sv.Field,
				Timeout:  sv.Timeout(),
			}, log)
		}
	}
	return &Bootstrapper{o: o, log: log}
}

// Run executes the startup sequence.
func (b *Bootstrapper) Run(ctx context.Context) (*Runtime, error) {
	start := time.Now()

	//
	// ── 1.  Settings file and domains ──────────────────────────────────
	//
	name, err := envfile.ParseEnvironment(os.Getenv("APP_ENV"))
	if err != nil {
		return nil, b.fail(stageConfig, &config.ConfigurationError{
			Domain: config.DomainApp,
			Key:    "APP_ENV",
			Reason: "unknown environment",
			Err:    err,
		})
	}
	path := envfile.Locate(b.o.EnvDir, name.String())
	b.log.Infow("settings file selected", "file", path)

	domains, err := config.LoadAll(config.Source{Path: path})
	if err != nil {
		return nil, b.fail(stageConfig, err)
	}
	env := domains.App.Environment()

	//
	// ── 2.  Vault client ───────────────────────────────────────────────
	//
	resolver, err := b.o.NewResolver(ctx, domains.SecretVault)
	if err != nil {
		return nil, b.fail(stageVault, fmt.Errorf("vault client: %w", err))
	}

	//
	// ── 3.  Resolve every consumer's parameter set ─────────────────────
	//
	rt := &Runtime{Environment: env, SettingsFile: path, Config: domains, Resolver: resolver}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		rt.Database, err = resolveDatabase(gctx, resolver, domains.Database)
		return
	})
	g.Go(func() (err error) {
		rt.Telemetry, err = resolveTelemetry(gctx, resolver, domains.Telemetry, b.release(domains.Telemetry), env)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, b.fail(stageResolve, err)
	}

	//
	// ── 4.  Hand parameter sets to consumers ───────────────────────────
	//
	connected := false
	abort := func(err error) error {
		if connected && b.o.CloseDatabase != nil {
			b.o.CloseDatabase()
		}
		return b.fail(stageConsumer, err)
	}

	if b.o.ConnectDatabase != nil {
		if err := b.o.ConnectDatabase(ctx, rt.Database); err != nil {
			return nil, b.fail(stageConsumer, fmt.Errorf("database: %w", err))
		}
		connected = true
		b.log.Infow("database online",
			"driver", rt.Database.Driver,
			"port", rt.Database.Port,
			"refs", domains.Database.References())
	}
	if b.o.InitTelemetry != nil {
		if err := b.o.InitTelemetry(rt.Telemetry); err != nil {
			return nil, abort(fmt.Errorf("telemetry: %w", err))
		}
		b.log.Infow("telemetry initialized", "enabled", rt.Telemetry.Enabled, "release", rt.Telemetry.Release)
	}

	//
	// ── 5.  Development-only API documentation ─────────────────────────
	//
	if env.IsDevelopment() {
		spec, err := docSpec(domains.App, domains.Documentation, b.o.DocOperations)
		if err != nil {
			if connected && b.o.CloseDatabase != nil {
				b.o.CloseDatabase()
			}
			return nil, b.fail(stageConfig, err)
		}
		rt.Docs = &spec
		if b.o.PublishDocs != nil {
			if err := b.o.PublishDocs(spec); err != nil {
				return nil, abort(fmt.Errorf("docs: %w", err))
			}
			b.log.Infow("api docs published", "path", "/"+spec.Path)
		}
	}

	metrics.BootstrapDuration.Set(time.Since(start).Seconds())
	b.log.Infow("bootstrap complete", "env", env, "elapsed", time.Since(start).Truncate(time.Millisecond))
	return rt, nil
}

func (b *Bootstrapper) release(t config.Telemetry) string {
	if t.Release != "" {
		return t.Release
	}
	return b.o.Release
}

func (b *Bootstrapper) fail(stage string, err error) error {
	metrics.BootstrapFailuresTotal.WithLabelValues(stage).Inc()
	b.log.Errorw("bootstrap failed", "stage", stage, "err", err)
	return fmt.Errorf("bootstrap: %w", err)
}
