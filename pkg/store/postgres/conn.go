package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/oiime/logrusbun"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bunotel"

	"github.com/admitdesk/admitdesk/config"
	"github.com/admitdesk/admitdesk/internal"
)

var log = internal.GetLogger()

const minPostgresVersion = ">= 13"

// NewPostgresConn creates a new bun.DB connection to a postgres database using the provided DSN.
// The connection is configured to pool connections based on the number of PROCs available.
func NewPostgresConn(cfg *config.Config) (*bun.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.Store.Postgres.DSN == "" {
		return nil, fmt.Errorf("missing postgres DSN")
	}

	maxOpenConns := 4 * runtime.GOMAXPROCS(0)

	sqldb := sql.OpenDB(
		pgdriver.NewConnector(
			pgdriver.WithDSN(cfg.Store.Postgres.DSN),
			pgdriver.WithReadTimeout(15*time.Second),
			pgdriver.WithWriteTimeout(15*time.Second),
		),
	)
	sqldb.SetMaxOpenConns(maxOpenConns)
	sqldb.SetMaxIdleConns(maxOpenConns)

	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(bunotel.NewQueryHook(bunotel.WithDBName("admitdesk")))

	if log.GetLevel() >= logrus.DebugLevel {
		SetUpDBLogging(db, log)
	}

	if err := checkPostgresVersion(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// SetUpDBLogging logs every query through logrus. Slow queries are logged at warn level.
func SetUpDBLogging(db *bun.DB, log logrus.FieldLogger) {
	db.AddQueryHook(logrusbun.NewQueryHook(logrusbun.QueryHookOptions{
		LogSlow:         time.Second,
		Logger:          log,
		QueryLevel:      logrus.DebugLevel,
		ErrorLevel:      logrus.ErrorLevel,
		SlowLevel:       logrus.WarnLevel,
		MessageTemplate: "{{.Operation}}[{{.Duration}}]: {{.Query}}",
		ErrorTemplate:   "{{.Operation}}[{{.Duration}}]: {{.Query}}: {{.Error}}",
	}))
}

// checkPostgresVersion fails when the server is older than minPostgresVersion.
// gen_random_uuid() is built in from 13 onwards.
func checkPostgresVersion(ctx context.Context, db *bun.DB) error {
	var raw string
	if err := db.NewRaw("SHOW server_version").Scan(ctx, &raw); err != nil {
		return fmt.Errorf("error querying postgres version: %w", err)
	}

	version, err := parseServerVersion(raw)
	if err != nil {
		return err
	}

	constraint, err := semver.NewConstraint(minPostgresVersion)
	if err != nil {
		return fmt.Errorf("error parsing required postgres version: %w", err)
	}
	if !constraint.Check(version) {
		return fmt.Errorf("postgres %s is not supported, %s is required", version, minPostgresVersion)
	}

	log.Debugf("postgres version is %s", version)
	return nil
}

// parseServerVersion handles values such as "15.4" and "16.1 (Debian 16.1-1.pgdg120+1)".
func parseServerVersion(raw string) (*semver.Version, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty postgres version")
	}
	version, err := semver.NewVersion(fields[0])
	if err != nil {
		return nil, fmt.Errorf("error parsing postgres version %q: %w", raw, err)
	}
	return version, nil
}
