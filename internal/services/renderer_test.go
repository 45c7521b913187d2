package services

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		body string
		vars map[string]string
		want string
	}{
		{
			name: "substitutes known keys",
			body: "Hello {{recipient}}, code {{code}}",
			vars: map[string]string{"recipient": "Alice", "code": "123"},
			want: "Hello Alice, code 123",
		},
		{
			name: "allows inner whitespace",
			body: "Hi {{ recipient }}!",
			vars: map[string]string{"recipient": "Bob"},
			want: "Hi Bob!",
		},
		{
			name: "leaves unknown placeholders verbatim",
			body: "Dear {{recipient}}, your {{unknownVar}} is ready",
			vars: map[string]string{"recipient": "Carol"},
			want: "Dear Carol, your {{unknownVar}} is ready",
		},
		{
			name: "does not escape html",
			body: "<p>{{snippet}}</p>",
			vars: map[string]string{"snippet": "<b>bold & bright</b>"},
			want: "<p><b>bold & bright</b></p>",
		},
		{
			name: "repeated placeholders",
			body: "{{a}}-{{a}}-{{b}}",
			vars: map[string]string{"a": "x", "b": "y"},
			want: "x-x-y",
		},
		{
			name: "nil vars",
			body: "static {{x}}",
			vars: nil,
			want: "static {{x}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.body, tt.vars); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	body := "Hello {{recipient}}, {{missing}} {{ code }}"
	vars := map[string]string{"recipient": "Dana", "code": "42"}

	first := Render(body, vars)
	second := Render(body, vars)
	if first != second {
		t.Fatalf("render not deterministic: %q vs %q", first, second)
	}
}

func TestBuildVariablesRecipientWins(t *testing.T) {
	caller := map[string]string{"recipient": "Mallory", "code": "9"}

	vars := BuildVariables(caller, "Alice")
	if vars["recipient"] != "Alice" {
		t.Fatalf("recipient should be the current recipient name, got %q", vars["recipient"])
	}
	if vars["code"] != "9" {
		t.Fatalf("caller variables should be kept, got %q", vars["code"])
	}
	if caller["recipient"] != "Mallory" {
		t.Fatal("caller map must not be mutated")
	}
}

func TestPreview(t *testing.T) {
	short := "short body"
	if got := Preview(short, BodyPreviewLength); got != short {
		t.Fatalf("short body should be returned whole, got %q", got)
	}

	long := strings.Repeat("é", 250)
	got := Preview(long, BodyPreviewLength)
	if n := len([]rune(got)); n != BodyPreviewLength {
		t.Fatalf("expected %d characters, got %d", BodyPreviewLength, n)
	}
}
