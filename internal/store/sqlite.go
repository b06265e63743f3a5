package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteManager is an embedded Manager backed by a single database file.
// Each collection becomes a table of JSON documents with the two filterable
// fields lifted into real columns.
type SQLiteManager struct {
	db *sql.DB
}

func NewSQLiteManager(path string) (*SQLiteManager, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %s: %w", path, err)
	}
	// A single writer avoids SQLITE_BUSY churn under concurrent chats.
	db.SetMaxOpenConns(1)
	return &SQLiteManager{db: db}, nil
}

func (m *SQLiteManager) Close() error { return m.db.Close() }

var identPattern = regexp.MustCompile(`[^a-z0-9_]+`)

func tableName(collection string) string {
	return identPattern.ReplaceAllString(strings.ToLower(collection), "_")
}

func (m *SQLiteManager) ensureTable(ctx context.Context, collection string) error {
	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER,
		selection_path TEXT,
		doc TEXT NOT NULL
	)`, tableName(collection))
	_, err := m.db.ExecContext(ctx, q)
	return err
}

// docProbe pulls the filterable fields out of an arbitrary document.
type docProbe struct {
	UserID        *int64  `json:"user_id"`
	SelectionPath *string `json:"selection_path"`
}

func (m *SQLiteManager) Insert(ctx context.Context, doc any, collection string) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return &FatalError{Err: fmt.Errorf("marshal document: %w", err)}
	}
	var p docProbe
	if err := json.Unmarshal(raw, &p); err != nil {
		return &FatalError{Err: fmt.Errorf("probe document: %w", err)}
	}
	return withRetry(ctx, func() error {
		if err := m.ensureTable(ctx, collection); err != nil {
			return classifySQLite(err)
		}
		q := fmt.Sprintf("INSERT INTO %s (user_id, selection_path, doc) VALUES (?, ?, ?)", tableName(collection))
		_, err := m.db.ExecContext(ctx, q, p.UserID, p.SelectionPath, string(raw))
		return classifySQLite(err)
	})
}

func (m *SQLiteManager) Find(ctx context.Context, f Filter, limit int64, collection string, out any) error {
	var conds []string
	var args []any
	for k, v := range f.Eq {
		switch k {
		case "user_id":
			conds = append(conds, "user_id = ?")
		case "selection_path":
			conds = append(conds, "selection_path = ?")
		default:
			conds = append(conds, fmt.Sprintf("json_extract(doc, '$.%s') = ?", tableName(k)))
		}
		args = append(args, v)
	}
	if f.PathPrefix != "" {
		conds = append(conds, `selection_path LIKE ? ESCAPE '\'`)
		args = append(args, escapeLike(f.PathPrefix)+"%")
	}
	q := fmt.Sprintf("SELECT doc FROM %s", tableName(collection))
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY id"
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", limit)
	}

	var docs []string
	err := withRetry(ctx, func() error {
		if err := m.ensureTable(ctx, collection); err != nil {
			return classifySQLite(err)
		}
		rows, err := m.db.QueryContext(ctx, q, args...)
		if err != nil {
			return classifySQLite(err)
		}
		defer rows.Close()
		docs = docs[:0]
		for rows.Next() {
			var d string
			if err := rows.Scan(&d); err != nil {
				return classifySQLite(err)
			}
			docs = append(docs, d)
		}
		return classifySQLite(rows.Err())
	})
	if err != nil {
		return err
	}
	return decodeDocs(docs, out)
}

func (m *SQLiteManager) SyncIndices(ctx context.Context, collection string, fields []string) error {
	if err := m.ensureTable(ctx, collection); err != nil {
		return classifySQLite(err)
	}
	tbl := tableName(collection)
	for _, f := range fields {
		col := tableName(f)
		var expr string
		switch col {
		case "user_id", "selection_path":
			expr = col
		default:
			expr = fmt.Sprintf("json_extract(doc, '$.%s')", col)
		}
		q := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s (%s)", tbl, col, tbl, expr)
		if _, err := m.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("sync indices on %s: %w", collection, err)
		}
	}
	return nil
}

// decodeDocs unmarshals a set of JSON documents into out, a pointer to a
// slice of the record type.
func decodeDocs(docs []string, out any) error {
	arr := "[" + strings.Join(docs, ",") + "]"
	if err := json.Unmarshal([]byte(arr), out); err != nil {
		return &FatalError{Err: fmt.Errorf("decode documents: %w", err)}
	}
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func classifySQLite(err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return &TransientError{Err: err}
		}
	}
	return &FatalError{Err: err}
}
