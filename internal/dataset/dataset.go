// Package dataset is the in-process cache of a loaded transaction set:
// an in-memory SQLite database, populated once and read-only afterward,
// that answers the dashboard's filter and aggregate queries. A Store is
// scoped to one invocation and passed explicitly to every computation.
package dataset

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fincast/fincast/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const dateLayout = "2006-01-02"

// Store holds the loaded transactions behind SQL aggregate queries.
type Store struct {
	db *sql.DB
}

// Filter narrows queries to one category and/or one month ("2006-01").
// Zero values mean no restriction.
type Filter struct {
	Category string
	Month    string
}

// Open creates an in-memory database, migrates the schema, and bulk
// inserts the transactions inside a single SQL transaction.
func Open(ctx context.Context, txns []model.Transaction) (*Store, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}

	// The connection pool must not exceed one connection: each :memory:
	// connection is its own database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{db: db}

	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.insert(ctx, txns); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the database; the dataset is gone afterward.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) insert(ctx context.Context, txns []model.Transaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning insert transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (id, date, description, category, amount)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, t := range txns {
		id := t.ID
		if id == "" {
			id = t.GenerateID()
		}
		if _, err := stmt.ExecContext(ctx,
			id,
			model.Day(t.Date).Format(dateLayout),
			t.Description,
			t.Category,
			t.Amount,
		); err != nil {
			return fmt.Errorf("inserting transaction %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing insert: %w", err)
	}

	return nil
}

// where builds the filter clause shared by every query.
func (f Filter) where() (string, []any) {
	clause := " WHERE 1=1"
	var args []any

	if f.Category != "" {
		clause += " AND category = ?"
		args = append(args, f.Category)
	}
	if f.Month != "" {
		clause += " AND strftime('%Y-%m', date) = ?"
		args = append(args, f.Month)
	}

	return clause, args
}
