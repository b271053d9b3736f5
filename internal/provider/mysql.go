package provider

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/go-sql-driver/mysql"

	"alzkb-graph/internal/registry"
	kberrors "alzkb-graph/pkg/errors"
)

var identPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// MySQL reads source tables from a relational dump (the AOPDB distribution
// is a MySQL database). One provider wraps one *sql.DB; the registry entry
// names the table to select.
type MySQL struct {
	db *sql.DB
}

// OpenMySQL connects to a MySQL source database and verifies the connection
func OpenMySQL(ctx context.Context, dsn string) (*MySQL, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql source: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach mysql source: %w", err)
	}
	return &MySQL{db: db}, nil
}

// Close releases the underlying connection pool
func (p *MySQL) Close() error {
	return p.db.Close()
}

// Fetch selects the entry's table into a Dataset. NULL cells become empty
// strings, which the population engine treats as absent.
func (p *MySQL) Fetch(ctx context.Context, entry *registry.Entry) (*Dataset, error) {
	if !identPattern.MatchString(entry.Table) {
		return nil, kberrors.NewProviderFailed(entry.Key(), fmt.Errorf("invalid table name %q", entry.Table))
	}

	rows, err := p.db.QueryContext(ctx, "SELECT * FROM "+entry.Table)
	if err != nil {
		return nil, kberrors.NewProviderFailed(entry.Key(), err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, kberrors.NewProviderFailed(entry.Key(), err)
	}

	ds := &Dataset{Columns: columns}
	values := make([]sql.NullString, len(columns))
	scanArgs := make([]interface{}, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, kberrors.NewProviderFailed(entry.Key(), err)
		}
		row := make(Row, len(columns))
		for i, column := range columns {
			if values[i].Valid {
				row[column] = values[i].String
			} else {
				row[column] = ""
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, kberrors.NewProviderFailed(entry.Key(), err)
	}
	return ds, nil
}
