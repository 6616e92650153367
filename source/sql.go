package source

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite"

	"github.com/Bkendle1/CS562-ESQL/mf"
	"github.com/Bkendle1/CS562-ESQL/value"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// quote a table or column name, schema qualified table name is accepted
func quoteIdent(name string) (string, error) {
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return "", fmt.Errorf("invalid identifier %q", name)
	}
	out := []string{}
	for _, p := range parts {
		if !identRe.MatchString(p) {
			return "", fmt.Errorf("invalid identifier %q", name)
		}
		out = append(out, `"`+p+`"`)
	}
	return strings.Join(out, "."), nil
}

// selectStatement renders SELECT <columns> FROM <table>, no column means *
func selectStatement(table string, columns []string) (string, error) {
	t, err := quoteIdent(table)
	if err != nil {
		return "", err
	}
	if len(columns) == 0 {
		return fmt.Sprintf("SELECT * FROM %s", t), nil
	}
	cols := []string{}
	for _, c := range columns {
		q, err := quoteIdent(c)
		if err != nil {
			return "", err
		}
		cols = append(cols, q)
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), t), nil
}

// OpenSQLite opens a sqlite database file, ":memory:" is an in memory one
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// in memory database lives as long as its connection
	db.SetMaxOpenConns(1)
	return db, nil
}

// Query materializes a table of a database/sql database
func Query(ctx context.Context, db *sql.DB, table string, columns []string) (*Memory, error) {
	stmt, err := selectStatement(table, columns)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	names, err = header(names)
	if err != nil {
		return nil, err
	}

	m := NewMemory(names)
	holder := make([]interface{}, len(names))
	ptr := make([]interface{}, len(names))
	for i := range holder {
		ptr[i] = &holder[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptr...); err != nil {
			return nil, err
		}
		row := make(mf.Row, len(names))
		for i, name := range names {
			v, err := value.FromInterface(holder[i])
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", name, err)
			}
			row[name] = v
		}
		m.Append(row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// OpenPostgres connects to postgres and pings it
func OpenPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

func pgValue(v interface{}) (value.Value, error) {
	switch x := v.(type) {
	case pgtype.Numeric:
		if !x.Valid {
			return value.NewNull(), nil
		}
		f, err := x.Float64Value()
		if err != nil {
			return value.NewNull(), err
		}
		return value.NewReal(f.Float64), nil
	default:
		return value.FromInterface(v)
	}
}

// QueryPostgres materializes a postgres table
func QueryPostgres(ctx context.Context, pool *pgxpool.Pool, table string, columns []string) (*Memory, error) {
	stmt, err := selectStatement(table, columns)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	names := []string{}
	for _, f := range rows.FieldDescriptions() {
		names = append(names, f.Name)
	}
	names, err = header(names)
	if err != nil {
		return nil, err
	}

	m := NewMemory(names)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(mf.Row, len(names))
		for i, name := range names {
			v, err := pgValue(values[i])
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", name, err)
			}
			row[name] = v
		}
		m.Append(row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return m, nil
}
