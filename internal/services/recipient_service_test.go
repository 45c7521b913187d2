package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/onegreenvn/campaign-mailer-backend/internal/models"
)

func TestCreateRecipientNormalizesEmails(t *testing.T) {
	s := NewRecipientService(newFakeRecipientStore())

	r, err := s.CreateRecipient(&models.RecipientRequest{
		Name:   " Alice ",
		Emails: []string{" Alice@Example.com", "alice@example.com", "", "work@corp.io"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Name != "Alice" {
		t.Errorf("name should be trimmed, got %q", r.Name)
	}
	want := []string{"alice@example.com", "work@corp.io"}
	if len(r.Emails) != len(want) {
		t.Fatalf("expected %v, got %v", want, r.Emails)
	}
	for i := range want {
		if r.Emails[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, r.Emails)
		}
	}
}

func TestCreateRecipientValidation(t *testing.T) {
	s := NewRecipientService(newFakeRecipientStore())

	tests := []struct {
		name string
		req  models.RecipientRequest
	}{
		{"blank name", models.RecipientRequest{Name: "", Emails: []string{"a@x.com"}}},
		{"no emails", models.RecipientRequest{Name: "A"}},
		{"only blanks", models.RecipientRequest{Name: "A", Emails: []string{" ", ""}}},
		{"malformed", models.RecipientRequest{Name: "A", Emails: []string{"a@x.com", "not-an-email"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.CreateRecipient(&tt.req); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreateRecipientRejectsOwnedEmail(t *testing.T) {
	s := NewRecipientService(newFakeRecipientStore())
	if _, err := s.CreateRecipient(&models.RecipientRequest{Name: "A", Emails: []string{"shared@x.com"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := s.CreateRecipient(&models.RecipientRequest{Name: "B", Emails: []string{"b@x.com", "SHARED@x.com"}})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if !strings.Contains(err.Error(), "shared@x.com") || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestUpdateRecipient(t *testing.T) {
	s := NewRecipientService(newFakeRecipientStore())
	a, _ := s.CreateRecipient(&models.RecipientRequest{Name: "A", Emails: []string{"a@x.com"}})
	b, _ := s.CreateRecipient(&models.RecipientRequest{Name: "B", Emails: []string{"b@x.com"}})

	updated, err := s.UpdateRecipient(a.ID, &models.RecipientUpdateRequest{Emails: []string{"a@x.com", "a2@x.com"}})
	if err != nil {
		t.Fatalf("keeping its own address should be allowed: %v", err)
	}
	if len(updated.Emails) != 2 || updated.Name != "A" {
		t.Fatalf("unexpected update result %+v", updated)
	}

	if _, err := s.UpdateRecipient(b.ID, &models.RecipientUpdateRequest{Emails: []string{"a2@x.com"}}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if _, err := s.UpdateRecipient(b.ID, &models.RecipientUpdateRequest{Emails: []string{}}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for an empty list, got %v", err)
	}
	if _, err := s.UpdateRecipient(b.ID, &models.RecipientUpdateRequest{Name: strPtr("Bee")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteRecipientNotFound(t *testing.T) {
	s := NewRecipientService(newFakeRecipientStore())
	if err := s.DeleteRecipient("7f3d2a1e-1111-4222-8333-444455556666"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
