package config

import (
	"golang.org/x/sync/errgroup"
)

// Domains is the aggregate of every loaded domain.
type Domains struct {
	App           App
	Database      Database
	Telemetry     Telemetry
	Documentation Documentation
	SecretVault   SecretVault
	ObjectStorage ObjectStorage
}

// LoadAll loads the six domains in parallel.  Domains do not depend on
// each other; the first failure is returned and the aggregate is nil.
func LoadAll(src Source) (*Domains, error) {
	var (
		d Domains
		g errgroup.Group
	)

	g.Go(func() (err error) { d.App, err = LoadApp(src); return })
	g.Go(func() (err error) { d.Database, err = LoadDatabase(src); return })
	g.Go(func() (err error) { d.Telemetry, err = LoadTelemetry(src); return })
	g.Go(func() (err error) { d.Documentation, err = LoadDocumentation(src); return })
	g.Go(func() (err error) { d.SecretVault, err = LoadSecretVault(src); return })
	g.Go(func() (err error) { d.ObjectStorage, err = LoadObjectStorage(src); return })

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
