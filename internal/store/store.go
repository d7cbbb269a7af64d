package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/Addarsh/Email-Integration/internal/filter"
)

// Store wraps the SQLite database holding the indexed emails.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the database at path and applies the schema.
// The schema statements are idempotent, so reopening an existing database
// is safe.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrBootstrap, path, err)
	}

	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		// WAL is an optimization; carry on without it.
		logger.Warn("setting journal_mode=WAL failed", "error", err)
	}

	for _, stmts := range []string{schema, ftsSchema} {
		if _, err := db.ExecContext(ctx, stmts); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: apply schema: %w", ErrBootstrap, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping: %w", ErrBootstrap, err)
	}

	logger.Debug("email store ready", "path", path)
	return &Store{db: db, logger: logger}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

const insertEmail = `INSERT OR IGNORE INTO emails
(pk, id, sender, recipient, subject, plain_text_body, received_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

// Insert writes the given emails in one transaction and returns how many
// rows were actually added. A message whose ID is already present is left
// untouched rather than rejected, so re-indexing overlapping batches is
// harmless. Emails with a zero PK get a fresh surrogate key.
func (s *Store) Insert(ctx context.Context, emails []Email) (int64, error) {
	if len(emails) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin: %w", ErrWrite, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertEmail)
	if err != nil {
		return 0, fmt.Errorf("%w: prepare: %w", ErrWrite, err)
	}
	defer stmt.Close()

	var inserted int64
	for _, e := range emails {
		if e.PK == 0 {
			e.PK = NewPK()
		}
		res, err := stmt.ExecContext(ctx, e.PK, e.ID, e.Sender, e.Recipient, e.Subject, e.PlainTextBody, e.ReceivedAt)
		if err != nil {
			return 0, fmt.Errorf("%w: insert %s: %w", ErrWrite, e.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("%w: rows affected: %w", ErrWrite, err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit: %w", ErrWrite, err)
	}
	s.logger.Debug("inserted emails", "count", inserted, "offered", len(emails))
	return inserted, nil
}

// ReadByIDs fetches the stored emails whose Gmail IDs appear in ids.
// Unknown IDs are simply absent from the result.
func (s *Store) ReadByIDs(ctx context.Context, ids []string) ([]Email, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	query := "SELECT pk, id, sender, recipient, subject, plain_text_body, received_at FROM emails WHERE id IN (" + placeholders + ")"

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: read by ids: %w", ErrRead, err)
	}
	return scanEmails(rows)
}

// Filter compiles the request and runs it, returning every matching email.
// Compilation errors come back unwrapped so callers can distinguish a bad
// rule from a failing database.
func (s *Store) Filter(ctx context.Context, req filter.Request) ([]Email, error) {
	query, params, err := filter.Compile(req)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("filtering emails", "query", query, "params", len(params))

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("%w: filter: %w", ErrRead, err)
	}
	return scanEmails(rows)
}

func scanEmails(rows *sql.Rows) ([]Email, error) {
	defer rows.Close()

	var emails []Email
	for rows.Next() {
		var e Email
		if err := rows.Scan(&e.PK, &e.ID, &e.Sender, &e.Recipient, &e.Subject, &e.PlainTextBody, &e.ReceivedAt); err != nil {
			return nil, fmt.Errorf("%w: scan: %w", ErrRead, err)
		}
		emails = append(emails, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %w", ErrRead, err)
	}
	return emails, nil
}
