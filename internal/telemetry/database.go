package telemetry

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/XSAM/otelsql"
	"github.com/lib/pq"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

func OpenDB(driverName, dsn string) (*sql.DB, error) {
	return otelsql.Open(driverName, dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
	)
}

// OpenPostgres opens a traced connection pool, verifies connectivity and
// pins every pooled connection to the given schema.
func OpenPostgres(ctx context.Context, dsn, schema string) (*sql.DB, error) {
	if schema != "" {
		var err error
		dsn, err = withSearchPath(dsn, schema)
		if err != nil {
			return nil, err
		}
	}

	db, err := OpenDB("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return db, nil
}

// withSearchPath sets search_path as a connection parameter so that it
// applies to every connection in the pool, not just the first one.
func withSearchPath(dsn, schema string) (string, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		var err error
		dsn, err = pq.ParseURL(dsn)
		if err != nil {
			return "", fmt.Errorf("parse postgres url: %w", err)
		}
	}
	return dsn + " search_path=" + schema, nil
}
