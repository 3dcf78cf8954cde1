// Package database opens the sqlx pool from a fully resolved parameter set.
// Two drivers are wired: microsoft/go-mssqldb (`sqlserver`, the default,
// port 1433) and go-sql-driver/mysql (`mysql`).
//
// Public entry points:
//
//	Open(ctx, params, opts) – builds the DSN, applies pool limits, and pings.
//	Params.DSN()            – driver-specific connection string.
//
// Open pings before returning so bootstrap fails fast on bad credentials.
// Callers Close() the returned *sqlx.DB on shutdown.
package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/microsoft/go-mssqldb"
)

// Driver names accepted in DB_DRIVER.
const (
	DriverSQLServer = "sqlserver"
	DriverMySQL     = "mysql"
)

// Params is the concrete connection set.  No field holds a secret
// reference; every value has been resolved.
type Params struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Redacted replaces every resolved secret in String output.
const Redacted = "***REDACTED***"

// String renders the driver and port only.  Host, User, Password, and
// Database are resolved secrets and are always redacted.
func (p Params) String() string {
	driver := p.Driver
	if driver == "" {
		driver = DriverSQLServer
	}
	return fmt.Sprintf("%s://%s@%s/%s", driver, Redacted, net.JoinHostPort(Redacted, strconv.Itoa(p.Port)), Redacted)
}

// DSN renders the driver-specific connection string.
func (p Params) DSN() (string, error) {
	addr := net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
	switch p.Driver {
	case DriverSQLServer, "":
		q := url.Values{}
		q.Set("database", p.Database)
		u := &url.URL{
			Scheme:   "sqlserver",
			User:     url.UserPassword(p.User, p.Password),
			Host:     addr,
			RawQuery: q.Encode(),
		}
		return u.String(), nil
	case DriverMySQL:
		cfg := mysql.NewConfig()
		cfg.User = p.User
		cfg.Passwd = p.Password
		cfg.Net = "tcp"
		cfg.Addr = addr
		cfg.DBName = p.Database
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	}
	return "", fmt.Errorf("database: unsupported driver %q", p.Driver)
}

// Options tunes the pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultOptions: 15 max open, 5 idle, and a 30-minute connection lifetime.
var DefaultOptions = Options{MaxOpenConns: 15, MaxIdleConns: 5, ConnMaxLifetime: 30 * time.Minute}

// Open returns a pinged *sqlx.DB for p.
func Open(ctx context.Context, p Params, o Options) (*sqlx.DB, error) {
	dsn, err := p.DSN()
	if err != nil {
		return nil, err
	}
	driver := p.Driver
	if driver == "" {
		driver = DriverSQLServer
	}
	return open(ctx, driver, dsn, o)
}

func open(ctx context.Context, driver, dsn string, o Options) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(o.MaxOpenConns)
	db.SetMaxIdleConns(o.MaxIdleConns)
	db.SetConnMaxLifetime(o.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database: ping %s: %w", driver, err)
	}
	return db, nil
}
