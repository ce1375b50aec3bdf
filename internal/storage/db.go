package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"ms-eventplatform/internal/config"
	"ms-eventplatform/internal/logger"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
	DialectSQLite   Dialect = "sqlite"
)

type DB struct {
	Bun     *bun.DB
	Dialect Dialect
	Logger  *logger.Logger
}

// Wrap builds a DB around an already opened *sql.DB.
func Wrap(sqldb *sql.DB, dialect Dialect, log *logger.Logger) *DB {
	var bunDB *bun.DB
	switch dialect {
	case DialectPostgres:
		bunDB = bun.NewDB(sqldb, pgdialect.New())
	case DialectMySQL:
		bunDB = bun.NewDB(sqldb, mysqldialect.New())
	default:
		bunDB = bun.NewDB(sqldb, sqlitedialect.New())
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &DB{Bun: bunDB, Dialect: dialect, Logger: log}
}

// Open connects to the database named by cfg.URL, retrying the initial ping a few times
// so the service can start alongside its database container.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*DB, error) {
	driver, dialect, dsn, err := ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	var sqldb *sql.DB
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Connecting to %s (attempt %d/%d)", dialect, i+1, maxRetries))
		sqldb, err = sql.Open(driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", dialect, err)
		}

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = sqldb.PingContext(pingCtx)
		cancel()
		if err == nil {
			break
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to %s: %v", dialect, err))
		sqldb.Close()
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect to %s after %d attempts: %w", dialect, maxRetries, err)
	}

	if dialect == DialectSQLite {
		// SQLite allows a single writer; serialising connections avoids "database is locked".
		sqldb.SetMaxOpenConns(1)
	} else {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
		sqldb.SetConnMaxLifetime(cfg.MaxLifetime)
	}

	log.Info("DATABASE", fmt.Sprintf("✅ %s connection successful", dialect))
	return Wrap(sqldb, dialect, log), nil
}

// ParseURL maps a DATABASE_URL onto a database/sql driver name, a bun dialect and the
// DSN that driver expects. SQLAlchemy-style "+driver" suffixes are accepted and ignored.
func ParseURL(raw string) (driver string, dialect Dialect, dsn string, err error) {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		if strings.HasPrefix(raw, "file:") || raw == ":memory:" {
			return sqliteshim.ShimName, DialectSQLite, raw, nil
		}
		return "", "", "", fmt.Errorf("unsupported DATABASE_URL %q", raw)
	}
	if i := strings.IndexByte(scheme, '+'); i >= 0 {
		scheme = scheme[:i]
	}

	switch scheme {
	case "postgres", "postgresql":
		return "postgres", DialectPostgres, "postgres://" + rest, nil
	case "mysql":
		dsn = rest
		if !strings.Contains(dsn, "parseTime=") {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "parseTime=true"
		}
		return "mysql", DialectMySQL, dsn, nil
	case "sqlite", "sqlite3":
		if rest == "" {
			rest = ":memory:"
		}
		return sqliteshim.ShimName, DialectSQLite, rest, nil
	default:
		return "", "", "", fmt.Errorf("unsupported database scheme %q", scheme)
	}
}

func (d *DB) Ping(ctx context.Context) error {
	return d.Bun.PingContext(ctx)
}

func (d *DB) Close() error {
	return d.Bun.Close()
}
