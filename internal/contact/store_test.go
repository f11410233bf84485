package contact

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"mealmetrics/internal/models"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "contact.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		msg  models.ContactMessage
		ok   bool
	}{
		{"valid", models.ContactMessage{Name: "Ann", Email: "ann@example.com", Message: "Hi"}, true},
		{"display name email", models.ContactMessage{Name: "Ann", Email: "Ann <ann@example.com>", Message: "Hi"}, true},
		{"missing name", models.ContactMessage{Name: "  ", Email: "ann@example.com", Message: "Hi"}, false},
		{"bad email", models.ContactMessage{Name: "Ann", Email: "not-an-email", Message: "Hi"}, false},
		{"empty message", models.ContactMessage{Name: "Ann", Email: "ann@example.com"}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := Validate(&c.msg)
			if c.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !c.ok && !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSaveAndList(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, models.ContactMessage{Name: " Ann ", Email: "Ann <ann@example.com>", Message: "Love the charts"})
	if err != nil {
		t.Fatal(err)
	}
	if saved.ID == "" || saved.CreatedAt.IsZero() {
		t.Errorf("ID and timestamp not assigned: %+v", saved)
	}
	if saved.Name != "Ann" || saved.Email != "ann@example.com" {
		t.Errorf("Fields not normalised: %+v", saved)
	}

	if _, err := s.Save(ctx, models.ContactMessage{Name: "Bob", Email: "bob@example.com", Message: "Second"}); err != nil {
		t.Fatal(err)
	}

	msgs, err := s.List(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Name != "Bob" {
		t.Errorf("Expected newest first, got %s", msgs[0].Name)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	s := openStore(t)

	_, err := s.Save(context.Background(), models.ContactMessage{Name: "Ann"})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("Expected ErrInvalid, got %v", err)
	}
	msgs, err := s.List(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 0 {
		t.Errorf("Invalid message stored: %v", msgs)
	}
}
