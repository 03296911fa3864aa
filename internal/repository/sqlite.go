package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"maintenance-agent/internal/domain"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS conversations (
	address_key  TEXT NOT NULL,
	subject_key  TEXT NOT NULL,
	address      TEXT NOT NULL,
	domain       TEXT NOT NULL DEFAULT '',
	company      TEXT NOT NULL DEFAULT '',
	subject      TEXT NOT NULL,
	status       TEXT NOT NULL,
	last_updated TEXT NOT NULL DEFAULT '',
	search_key   TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (address_key, subject_key)
);
CREATE INDEX IF NOT EXISTS idx_conversations_status ON conversations(status);
`

// SQLiteStore keeps conversation records in a local SQLite file. It has the
// same create/update semantics as the DynamoDB Client.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, errors.New("repository: database path must not be empty")
	}
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("repository: create database directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("repository: open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("repository: migrate database: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) FindConversation(ctx context.Context, key domain.ConversationKey) (domain.ConversationRecord, bool, error) {
	var (
		rec    domain.ConversationRecord
		status string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT address, domain, company, subject, status, last_updated
		 FROM conversations WHERE address_key = ? AND subject_key = ?`,
		key.Address, key.Subject,
	).Scan(&rec.Address, &rec.Domain, &rec.Company, &rec.Subject, &status, &rec.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ConversationRecord{}, false, nil
	}
	if err != nil {
		return domain.ConversationRecord{}, false, fmt.Errorf("repository: FindConversation: %w", err)
	}
	rec.Status = domain.Status(status)
	return rec, true, nil
}

func (s *SQLiteStore) CreateConversation(ctx context.Context, rec domain.ConversationRecord) error {
	key := rec.Key()
	if key.Address == "" || key.Subject == "" {
		return errors.New("repository: CreateConversation: address and subject are required")
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO conversations
		 (address_key, subject_key, address, domain, company, subject, status, last_updated, search_key)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		key.Address, key.Subject, rec.Address, rec.Domain, rec.Company, rec.Subject,
		string(rec.Status), rec.LastUpdated, rec.SearchKey(),
	)
	if err != nil {
		return fmt.Errorf("repository: CreateConversation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrConversationExists
	}
	return nil
}

func (s *SQLiteStore) UpdateConversation(ctx context.Context, rec domain.ConversationRecord) error {
	key := rec.Key()
	res, err := s.db.ExecContext(ctx,
		`UPDATE conversations SET status = ?, last_updated = ?, search_key = ?
		 WHERE address_key = ? AND subject_key = ?`,
		string(rec.Status), rec.LastUpdated, rec.SearchKey(), key.Address, key.Subject,
	)
	if err != nil {
		return fmt.Errorf("repository: UpdateConversation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrConversationNotFound
	}
	return nil
}

// ListConversations returns records ordered by most recently updated,
// optionally filtered by status.
func (s *SQLiteStore) ListConversations(ctx context.Context, status domain.Status, limit int) ([]domain.ConversationRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT address, domain, company, subject, status, last_updated FROM conversations`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY last_updated DESC, address_key, subject_key LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: ListConversations: %w", err)
	}
	defer rows.Close()

	var out []domain.ConversationRecord
	for rows.Next() {
		var (
			rec domain.ConversationRecord
			st  string
		)
		if err := rows.Scan(&rec.Address, &rec.Domain, &rec.Company, &rec.Subject, &st, &rec.LastUpdated); err != nil {
			return nil, fmt.Errorf("repository: ListConversations scan: %w", err)
		}
		rec.Status = domain.Status(st)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: ListConversations: %w", err)
	}
	return out, nil
}
