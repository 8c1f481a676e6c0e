// Package store is the datastore side of bulk deletion: schema listing,
// live counts, and a transactional delete-all that reports how many rows
// the datastore's own foreign key rules cascaded away. Cascade semantics
// belong to the datastore; nothing here reimplements them.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DB wraps the SQL connection used as the deletion target datastore.
type DB struct {
	sql  *sql.DB
	path string
}

// Open opens the SQLite database at path with foreign key enforcement on.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("store: no database configured")
	}
	// busy_timeout keeps concurrent admin deletions waiting on the file
	// lock instead of failing with SQLITE_BUSY.
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping %s: %w", path, err)
	}
	return &DB{sql: db, path: path}, nil
}

// NewWithDB wraps an existing connection. For testing.
func NewWithDB(db *sql.DB) *DB {
	return &DB{sql: db}
}

// Close closes the underlying connection.
func (d *DB) Close() error { return d.sql.Close() }

// Path returns the database file path, if opened from one.
func (d *DB) Path() string { return d.path }

// Exec runs a statement against the datastore. Schema setup in tools
// and tests; the deletion path never goes through here.
func (d *DB) Exec(ctx context.Context, query string, args ...any) error {
	_, err := d.sql.ExecContext(ctx, query, args...)
	return err
}

// Tables returns user table names in sorted order, skipping SQLite
// internals.
func (d *DB) Tables(ctx context.Context) ([]string, error) {
	const q = `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`
	rows, err := d.sql.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("store: list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("store: scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list tables: %w", err)
	}
	return tables, nil
}

// Count returns the number of rows in table.
func (d *DB) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(table))
	if err := d.sql.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count %s: %w", table, err)
	}
	return n, nil
}

// DeleteAll removes every row of table inside one transaction and
// returns the total rows removed plus a per-table breakdown that
// includes rows cascade-deleted by the datastore's foreign key rules.
// Any error rolls the transaction back; no rows are removed.
func (d *DB) DeleteAll(ctx context.Context, table string) (int64, map[string]int64, error) {
	deps, err := d.dependents(ctx, table)
	if err != nil {
		return 0, nil, err
	}

	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	before := make(map[string]int64, len(deps))
	for _, dep := range deps {
		n, err := countTx(ctx, tx, dep)
		if err != nil {
			return 0, nil, err
		}
		before[dep] = n
	}

	res, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", quoteIdent(table)))
	if err != nil {
		return 0, nil, fmt.Errorf("store: delete from %s: %w", table, err)
	}
	// sqlite3_changes counts direct deletions only; cascaded rows are
	// measured by re-counting dependents below.
	direct, err := res.RowsAffected()
	if err != nil {
		return 0, nil, fmt.Errorf("store: rows affected: %w", err)
	}

	breakdown := map[string]int64{table: direct}
	total := direct
	for _, dep := range deps {
		n, err := countTx(ctx, tx, dep)
		if err != nil {
			return 0, nil, err
		}
		if gone := before[dep] - n; gone > 0 {
			breakdown[dep] = gone
			total += gone
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, nil, fmt.Errorf("store: commit: %w", err)
	}
	return total, breakdown, nil
}

// dependents returns the tables that reference target directly or
// transitively through foreign keys, in breadth-first order.
func (d *DB) dependents(ctx context.Context, target string) ([]string, error) {
	tables, err := d.Tables(ctx)
	if err != nil {
		return nil, err
	}

	// parent table (lowercased) -> referencing tables
	children := make(map[string][]string)
	for _, t := range tables {
		parents, err := d.foreignKeyParents(ctx, t)
		if err != nil {
			return nil, err
		}
		for _, p := range parents {
			children[strings.ToLower(p)] = append(children[strings.ToLower(p)], t)
		}
	}

	seen := map[string]bool{strings.ToLower(target): true}
	queue := []string{target}
	var deps []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range children[strings.ToLower(cur)] {
			key := strings.ToLower(child)
			if seen[key] {
				continue
			}
			seen[key] = true
			deps = append(deps, child)
			queue = append(queue, child)
		}
	}
	return deps, nil
}

// foreignKeyParents returns the tables that table's foreign keys point at.
func (d *DB) foreignKeyParents(ctx context.Context, table string) ([]string, error) {
	q := fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteIdent(table))
	rows, err := d.sql.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("store: foreign keys of %s: %w", table, err)
	}
	defer rows.Close()

	var parents []string
	for rows.Next() {
		var (
			id, seq            int
			parent, from       string
			to                 sql.NullString
			onUpdate, onDelete string
			match              string
		)
		if err := rows.Scan(&id, &seq, &parent, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, fmt.Errorf("store: scan foreign key of %s: %w", table, err)
		}
		parents = append(parents, parent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: foreign keys of %s: %w", table, err)
	}
	return parents, nil
}

func countTx(ctx context.Context, tx *sql.Tx, table string) (int64, error) {
	var n int64
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(table))
	if err := tx.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count %s: %w", table, err)
	}
	return n, nil
}

// quoteIdent quotes a SQL identifier. Table names come from the schema
// itself, but quoting keeps reserved words and odd names working.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
