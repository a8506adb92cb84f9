package repos

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// goose keeps its base FS and dialect in package globals.
var migrateMu sync.Mutex

// OpenDB connects with the given driver, verifies the connection and applies pending migrations.
func OpenDB(driver, dsn string) (*sqlx.DB, error) {
	if driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if err := Migrate(db, driver); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate runs the embedded migrations for the driver's dialect.
func Migrate(db *sqlx.DB, driver string) error {
	dialect, dir, err := migrationSource(driver)
	if err != nil {
		return err
	}
	sub, err := fs.Sub(migrations, dir)
	if err != nil {
		return fmt.Errorf("opening migrations: %w", err)
	}

	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(sub)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}
	if err := goose.UpContext(context.Background(), db.DB, "."); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	v, err := goose.GetDBVersion(db.DB)
	if err == nil {
		slog.Debug("schema migrated", "driver", driver, "version", v)
	}
	return nil
}

// sqliteDSN applies per-connection pragmas; every pooled connection gets them.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func migrationSource(driver string) (dialect, dir string, err error) {
	switch driver {
	case DriverSQLite:
		return "sqlite3", "migrations/sqlite", nil
	case DriverPostgres:
		return "postgres", "migrations/postgres", nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", driver)
	}
}
