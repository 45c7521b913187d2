package services

import (
	"errors"
	"testing"

	"github.com/onegreenvn/campaign-mailer-backend/internal/models"
	"gorm.io/gorm"
)

func strPtr(v string) *string { return &v }

func TestEncodeDecodeBody(t *testing.T) {
	html := "<p>Hello {{recipient}}, é</p>"
	encoded := EncodeBody(html)
	if encoded == html {
		t.Fatal("body should be stored encoded")
	}
	if got := DecodeBody(encoded); got != html {
		t.Fatalf("round trip mismatch: %q", got)
	}
	if got := DecodeBody("<p>legacy</p>"); got != "<p>legacy</p>" {
		t.Fatalf("raw bodies should pass through, got %q", got)
	}
	// valid base64 that does not decode to text is a legacy raw body
	if got := DecodeBody("abcd"); got != "abcd" {
		t.Fatalf("non-text decodes should fall back to the raw body, got %q", got)
	}
}

func TestCreateTemplate(t *testing.T) {
	store := newFakeTemplateStore()
	s := NewEmailTemplateService(store)

	tmpl, err := s.CreateTemplate(&models.EmailTemplateRequest{
		Name:    "  Welcome ",
		Subject: "Hi {{recipient}}",
		Body:    "<p>Hi</p>",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tmpl.ID == "" || tmpl.Name != "Welcome" {
		t.Fatalf("unexpected template %+v", tmpl)
	}
	if tmpl.Body != EncodeBody("<p>Hi</p>") {
		t.Errorf("body should be stored base64, got %q", tmpl.Body)
	}

	_, err = s.CreateTemplate(&models.EmailTemplateRequest{Name: "welcome", Subject: "x", Body: "y"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for a case-insensitive match, got %v", err)
	}
	if err.Error() != "template name already exists" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestCreateTemplateValidation(t *testing.T) {
	s := NewEmailTemplateService(newFakeTemplateStore())

	tests := []struct {
		name string
		req  models.EmailTemplateRequest
	}{
		{"blank name", models.EmailTemplateRequest{Name: " ", Subject: "s", Body: "b"}},
		{"blank subject", models.EmailTemplateRequest{Name: "n", Subject: "", Body: "b"}},
		{"empty body", models.EmailTemplateRequest{Name: "n", Subject: "s"}},
		{"unnamed attachment", models.EmailTemplateRequest{Name: "n", Subject: "s", Body: "b",
			Attachments: []models.TemplateAttachment{{Content: []byte("x")}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.CreateTemplate(&tt.req); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestUpdateTemplate(t *testing.T) {
	store := newFakeTemplateStore()
	s := NewEmailTemplateService(store)
	first, _ := s.CreateTemplate(&models.EmailTemplateRequest{Name: "First", Subject: "s", Body: "b"})
	second, _ := s.CreateTemplate(&models.EmailTemplateRequest{Name: "Second", Subject: "s", Body: "b"})

	updated, err := s.UpdateTemplate(first.ID, &models.EmailTemplateUpdateRequest{
		Name: strPtr("FIRST"),
		Body: strPtr("<b>new</b>"),
	})
	if err != nil {
		t.Fatalf("renaming to its own name in another case should work: %v", err)
	}
	if updated.Name != "FIRST" || DecodeBody(updated.Body) != "<b>new</b>" || updated.Subject != "s" {
		t.Fatalf("unexpected update result %+v", updated)
	}

	if _, err := s.UpdateTemplate(second.ID, &models.EmailTemplateUpdateRequest{Name: strPtr("first")}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if _, err := s.UpdateTemplate(second.ID, &models.EmailTemplateUpdateRequest{Subject: strPtr("  ")}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := s.UpdateTemplate("a0c5d7a4-0000-4000-8000-000000000000", &models.EmailTemplateUpdateRequest{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTemplate(t *testing.T) {
	store := newFakeTemplateStore()
	s := NewEmailTemplateService(store)
	tmpl, _ := s.CreateTemplate(&models.EmailTemplateRequest{Name: "Gone", Subject: "s", Body: "b"})

	if err := s.DeleteTemplate(tmpl.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.GetTemplate(tmpl.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteTemplate(tmpl.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

// racingTemplateStore simulates a concurrent insert winning the unique index
type racingTemplateStore struct {
	*fakeTemplateStore
}

func (s racingTemplateStore) Create(t *models.EmailTemplate) error {
	return gorm.ErrDuplicatedKey
}

func TestCreateTemplateUniqueIndexViolation(t *testing.T) {
	s := NewEmailTemplateService(racingTemplateStore{newFakeTemplateStore()})
	_, err := s.CreateTemplate(&models.EmailTemplateRequest{Name: "Race", Subject: "s", Body: "b"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}
