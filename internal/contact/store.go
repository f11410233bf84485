// Package contact keeps Contact Us form submissions.
package contact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"mealmetrics/internal/models"
)

var ErrInvalid = errors.New("invalid contact message")

const (
	maxName    = 200
	maxMessage = 5000
)

const schema = `
CREATE TABLE IF NOT EXISTS contact_message (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    message TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contact_message_created_at ON contact_message(created_at);
`

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open contact store: %w", err)
	}
	// SQLite allows one writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Validate trims the message fields and checks them.
func Validate(m *models.ContactMessage) error {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Message = strings.TrimSpace(m.Message)

	switch {
	case m.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalid)
	case len(m.Name) > maxName:
		return fmt.Errorf("%w: name is too long", ErrInvalid)
	case m.Message == "":
		return fmt.Errorf("%w: message is required", ErrInvalid)
	case len(m.Message) > maxMessage:
		return fmt.Errorf("%w: message is too long", ErrInvalid)
	}
	addr, err := mail.ParseAddress(m.Email)
	if err != nil {
		return fmt.Errorf("%w: email address is not valid", ErrInvalid)
	}
	m.Email = addr.Address
	return nil
}

// Save validates and stores a message, assigning its ID and timestamp.
func (s *Store) Save(ctx context.Context, m models.ContactMessage) (models.ContactMessage, error) {
	if err := Validate(&m); err != nil {
		return models.ContactMessage{}, err
	}
	m.ID = uuid.NewString()
	m.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact_message (id, name, email, message, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Email, m.Message, m.CreatedAt)
	if err != nil {
		return models.ContactMessage{}, fmt.Errorf("save contact message: %w", err)
	}
	return m, nil
}

// List returns the newest messages first.
func (s *Store) List(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, message, created_at FROM contact_message ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	out := []models.ContactMessage{}
	for rows.Next() {
		var m models.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
