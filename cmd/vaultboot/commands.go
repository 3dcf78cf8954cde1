package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AdeptTravel/vaultboot/internal/apidocs"
	"github.com/AdeptTravel/vaultboot/internal/bootstrap"
	"github.com/AdeptTravel/vaultboot/internal/database"
	"github.com/AdeptTravel/vaultboot/internal/logger"
	"github.com/AdeptTravel/vaultboot/internal/server"
	"github.com/AdeptTravel/vaultboot/internal/telemetry"
)

type rootFlags struct {
	root   string
	envDir string
	debug  bool
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	wd, _ := os.Getwd()

	cmd := &cobra.Command{
		Use:           "vaultboot",
		Short:         "Resolve configuration and vault secrets, then serve",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), f)
		},
	}
	cmd.PersistentFlags().StringVar(&f.root, "root", wd, "service root; logs are written to <root>/logs")
	cmd.PersistentFlags().StringVar(&f.envDir, "env-dir", filepath.Join(wd, "env"), "directory holding <APP_ENV>.env and .env")
	cmd.PersistentFlags().BoolVar(&f.debug, "debug", false, "log at debug level")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Bootstrap and start the HTTP server (default)",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runServe(cmd.Context(), f)
			},
		},
		&cobra.Command{
			Use:   "check",
			Short: "Bootstrap without consumers and report what resolved",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runCheck(cmd, f)
			},
		},
	)
	return cmd
}

func runServe(parent context.Context, f *rootFlags) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log, err := logger.New(logger.Options{
		Dir:     filepath.Join(f.root, "logs"),
		Tee:     runningInTTY(),
		Debug:   f.debug,
		Service: "vaultboot",
	})
	if err != nil {
		return fmt.Errorf("start logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	router := server.NewRouter()
	var db *sqlx.DB

	rt, err := bootstrap.New(bootstrap.Options{
		EnvDir:        f.envDir,
		Release:       version,
		DocOperations: server.Operations(),
		Log:           log,
		ConnectDatabase: func(ctx context.Context, p database.Params) (err error) {
			db, err = database.Open(ctx, p, database.DefaultOptions)
			return err
		},
		CloseDatabase: func() {
			if db != nil {
				_ = db.Close()
				db = nil
			}
		},
		InitTelemetry: telemetry.Init,
		PublishDocs: func(s apidocs.Spec) error {
			doc, err := apidocs.Build(s)
			if err != nil {
				return err
			}
			h, err := apidocs.Handler(doc)
			if err != nil {
				return err
			}
			router.Handle("/"+s.Path, h)
			return nil
		},
	}).Run(ctx)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}
	defer telemetry.Flush(2 * time.Second)

	var handler http.Handler = router
	if rt.Telemetry.Enabled {
		handler = telemetry.Middleware(router)
	}

	return server.Serve(ctx, server.New(rt.Config.App.Port, handler), log)
}

func runCheck(cmd *cobra.Command, f *rootFlags) error {
	log := zap.NewNop().Sugar()
	if f.debug {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		log = dev.Sugar()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := bootstrap.New(bootstrap.Options{EnvDir: f.envDir, Release: version, Log: log}).Run(ctx)
	if err != nil {
		return err
	}

	writeSummary(cmd.OutOrStdout(), rt)
	return nil
}

// writeSummary reports what resolved by reference name.  Resolved values
// are never printed.
func writeSummary(out io.Writer, rt *bootstrap.Runtime) {
	fmt.Fprintf(out, "environment  %s\n", rt.Environment)
	fmt.Fprintf(out, "settings     %s\n", rt.SettingsFile)
	fmt.Fprintf(out, "database     %s port %d (%s)\n", rt.Database.Driver, rt.Database.Port, rt.Config.Database.References())
	if rt.Telemetry.Enabled {
		fmt.Fprintf(out, "telemetry    enabled (release %s)\n", rt.Telemetry.Release)
	} else {
		fmt.Fprintln(out, "telemetry    disabled")
	}
	if rt.Docs != nil {
		fmt.Fprintf(out, "api docs     /%s\n", rt.Docs.Path)
	}
}
