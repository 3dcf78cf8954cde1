package bootstrap

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/AdeptTravel/vaultboot/internal/apidocs"
	"github.com/AdeptTravel/vaultboot/internal/config"
	"github.com/AdeptTravel/vaultboot/internal/database"
	"github.com/AdeptTravel/vaultboot/internal/envfile"
	"github.com/AdeptTravel/vaultboot/internal/telemetry"
)

// secretField binds one secret-backed setting to its destination.
type secretField struct {
	key string
	ref string
	dst *string
}

// resolveDatabase resolves the four database references concurrently.  The
// returned Params is either complete or the zero value.
func resolveDatabase(ctx context.Context, r Resolver, db config.Database) (database.Params, error) {
	var p database.Params
	fields := []secretField{
		{"DB_HOST", db.Host, &p.Host},
		{"DB_USER", db.User, &p.User},
		{"DB_PASSWORD", db.Password, &p.Password},
		{"DB_NAME", db.Name, &p.Database},
	}
	for _, f := range fields {
		if f.ref == "" {
			return database.Params{}, &config.ConfigurationError{
				Domain: config.DomainDatabase,
				Key:    f.key,
				Reason: "secret reference is empty",
			}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, f := range fields {
		f := f
		g.Go(func() error {
			val, err := r.Resolve(gctx, f.ref)
			if err != nil {
				return fmt.Errorf("database %s: %w", f.key, err)
			}
			*f.dst = val
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return database.Params{}, err
	}

	p.Driver = db.Driver
	p.Port = db.Port
	return p, nil
}

// resolveTelemetry resolves the DSN only when telemetry is enabled.
func resolveTelemetry(ctx context.Context, r Resolver, t config.Telemetry, release string, env envfile.Environment) (telemetry.Params, error) {
	p := telemetry.Params{Enabled: t.Enabled, Release: release, Environment: env.String()}
	if !t.Enabled {
		return p, nil
	}
	if t.DSN == "" {
		return telemetry.Params{}, &config.ConfigurationError{
			Domain: config.DomainTelemetry,
			Key:    "SENTRY_DNS",
			Reason: "required when SENTRY_ENABLE is true",
		}
	}

	dsn, err := r.Resolve(ctx, t.DSN)
	if err != nil {
		return telemetry.Params{}, fmt.Errorf("telemetry SENTRY_DNS: %w", err)
	}
	p.DSN = dsn
	return p, nil
}

// docSpec assembles the publisher input from plain settings.
func docSpec(app config.App, d config.Documentation, ops []apidocs.Operation) (apidocs.Spec, error) {
	serverURL, err := apidocs.ServerURL(app.URL, app.Port)
	if err != nil {
		return apidocs.Spec{}, &config.ConfigurationError{
			Domain: config.DomainApp,
			Key:    "APP_URL",
			Reason: "cannot build documentation server url",
			Err:    err,
		}
	}
	return apidocs.Spec{
		Title:       d.Title,
		Description: d.Description,
		Version:     d.Version,
		ServerURL:   serverURL,
		ServerName:  d.ServerName,
		Tag:         d.Tag,
		Path:        d.Path,
		Operations:  ops,
	}, nil
}
