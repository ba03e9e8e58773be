package fts

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/nlstn/go-queryparser/builders"
)

var (
	errFTSNotAvailable  = errors.New("full-text search is not available on this database")
	errInvalidIdent     = errors.New("invalid SQL identifier")
	errNoSearchColumns  = errors.New("no searchable columns given")
	errUnknownDialector = errors.New("unsupported database dialect")
)

// Manager detects and manages the database's full-text-search capability and
// turns built match expressions into gorm predicates.
type Manager struct {
	db        *gorm.DB
	available bool
	version   string // "FTS5", "FTS4", "FTS3", "websearch", or ""
	tables    map[string]bool
}

// NewManager creates a manager and probes the database for FTS support.
func NewManager(db *gorm.DB) *Manager {
	m := &Manager{db: db, tables: make(map[string]bool)}
	m.detect()
	return m
}

func (m *Manager) detect() {
	switch m.db.Dialector.Name() {
	case "sqlite":
		for _, version := range []string{"fts5", "fts4", "fts3"} {
			if m.probeSQLiteVersion(version) {
				m.available = true
				m.version = strings.ToUpper(version)
				return
			}
		}
	case "postgres":
		// websearch_to_tsquery ships with every supported PostgreSQL.
		m.available = true
		m.version = "websearch"
	}
}

// probeSQLiteVersion checks one FTS module by creating a throwaway virtual table.
func (m *Manager) probeSQLiteVersion(version string) bool {
	sqlDB, err := m.db.DB()
	if err != nil {
		return false
	}
	testTable := fmt.Sprintf("_probe_fts_%s", version)
	if _, err := sqlDB.Exec(fmt.Sprintf("CREATE VIRTUAL TABLE IF NOT EXISTS %s USING %s(content)", testTable, version)); err != nil {
		return false
	}
	_, _ = sqlDB.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", testTable))
	return true
}

// Available reports whether the database supports full-text search.
func (m *Manager) Available() bool { return m.available }

// Version returns the detected FTS capability (FTS5, FTS4, FTS3, websearch).
func (m *Manager) Version() string { return m.version }

// Dialect returns the match-expression dialect builders should target.
func (m *Manager) Dialect() (Dialect, error) {
	switch m.version {
	case "FTS5":
		return DialectFTS5, nil
	case "FTS4", "FTS3":
		return DialectFTS4, nil
	case "websearch":
		return DialectWebsearch, nil
	default:
		return "", errFTSNotAvailable
	}
}

// Registry returns a builder registry producing match expressions for the
// detected capability.
func (m *Manager) Registry() (*builders.Registry, error) {
	d, err := m.Dialect()
	if err != nil {
		return nil, err
	}
	return NewRegistry(d), nil
}

// EnsureTable creates the shadow FTS virtual table for a SQLite content
// table, if it does not exist yet. On PostgreSQL this is a no-op because
// tsvector expressions are evaluated on the fly.
func (m *Manager) EnsureTable(table string, columns []string) error {
	if !m.available {
		return errFTSNotAvailable
	}
	if m.version == "websearch" {
		return nil
	}
	if !isValidIdentifier(table) {
		return fmt.Errorf("%w: %q", errInvalidIdent, table)
	}
	if len(columns) == 0 {
		return errNoSearchColumns
	}
	ftsTable := ftsTableName(table)
	if m.tables[ftsTable] {
		return nil
	}
	for _, col := range columns {
		if !isValidIdentifier(col) {
			return fmt.Errorf("%w: %q", errInvalidIdent, col)
		}
	}
	module := strings.ToLower(m.version)
	stmt := fmt.Sprintf("CREATE VIRTUAL TABLE IF NOT EXISTS %s USING %s(%s)",
		ftsTable, module, strings.Join(columns, ", "))
	if err := m.db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("creating FTS table %s: %w", ftsTable, err)
	}
	m.tables[ftsTable] = true
	return nil
}

// Index inserts one row into a SQLite shadow FTS table, keyed by the content
// row's id. On PostgreSQL this is a no-op.
func (m *Manager) Index(table string, rowID int64, values map[string]string) error {
	if !m.available {
		return errFTSNotAvailable
	}
	if m.version == "websearch" {
		return nil
	}
	if !isValidIdentifier(table) {
		return fmt.Errorf("%w: %q", errInvalidIdent, table)
	}
	cols := make([]string, 0, len(values)+1)
	args := make([]any, 0, len(values)+1)
	cols = append(cols, "rowid")
	args = append(args, rowID)
	for col, v := range values {
		if !isValidIdentifier(col) {
			return fmt.Errorf("%w: %q", errInvalidIdent, col)
		}
		cols = append(cols, col)
		args = append(args, v)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		ftsTableName(table), strings.Join(cols, ", "), placeholders)
	return m.db.Exec(stmt, args...).Error
}

// ApplySearch adds the predicate for a built match expression to a gorm
// statement against the given content table.
func (m *Manager) ApplySearch(tx *gorm.DB, table string, columns []string, match *MatchQuery) (*gorm.DB, error) {
	if !m.available {
		return nil, errFTSNotAvailable
	}
	if !isValidIdentifier(table) {
		return nil, fmt.Errorf("%w: %q", errInvalidIdent, table)
	}
	switch m.db.Dialector.Name() {
	case "sqlite":
		ftsTable := ftsTableName(table)
		sub := fmt.Sprintf("rowid IN (SELECT rowid FROM %s WHERE %s MATCH ?)", ftsTable, ftsTable)
		return tx.Where(sub, match.String()), nil
	case "postgres":
		if len(columns) == 0 {
			return nil, errNoSearchColumns
		}
		exprs := make([]string, len(columns))
		for i, col := range columns {
			if !isValidIdentifier(col) {
				return nil, fmt.Errorf("%w: %q", errInvalidIdent, col)
			}
			exprs[i] = fmt.Sprintf("coalesce(%s, '')", col)
		}
		vector := fmt.Sprintf("to_tsvector('english', %s)", strings.Join(exprs, " || ' ' || "))
		return tx.Where(vector+" @@ websearch_to_tsquery('english', ?)", match.String()), nil
	default:
		return nil, errUnknownDialector
	}
}

// DB exposes the underlying *sql.DB, mainly for tests.
func (m *Manager) DB() (*sql.DB, error) { return m.db.DB() }

func ftsTableName(table string) string { return table + "_fts" }

// isValidIdentifier accepts plain SQL identifiers only, keeping interpolated
// table and column names injection-safe.
func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
