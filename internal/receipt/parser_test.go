package receipt

import (
	"encoding/json"
	"strings"
	"testing"

	"calico/internal/core"
)

func TestCleanModelJSON(t *testing.T) {
	want := `{"title":"Cafe","amount":4.5,"date":"2025-06-14","category":"cat-1"}`

	tests := []struct {
		name string
		raw  string
	}{
		{"plain", want},
		{"fenced", "```json\n" + want + "\n```"},
		{"fenced no language", "```\n" + want + "\n```"},
		{"surrounding prose", "Here is the result:\n" + want + "\nHope that helps!"},
		{"whitespace", "\n\n  " + want + "  \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanModelJSON(tt.raw)
			if got != want {
				t.Errorf("cleanModelJSON() = %q, want %q", got, want)
			}
		})
	}
}

func TestCleanModelJSONDecodes(t *testing.T) {
	raw := "```json\n{\n  \"title\": \"Grocer\",\n  \"amount\": 23.99,\n  \"date\": \"2025-06-01\",\n  \"category\": \"cat-7\"\n}\n```"

	var parsed Parsed
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &parsed); err != nil {
		t.Fatalf("unmarshal cleaned output: %v", err)
	}
	if parsed.Title != "Grocer" || parsed.Amount != 23.99 || parsed.CategoryID != "cat-7" {
		t.Fatalf("parsed = %+v", parsed)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt, err := buildPrompt([]core.Category{
		{ID: "cat-1", Name: "Groceries"},
		{ID: "cat-2", Name: "Dining"},
	})
	if err != nil {
		t.Fatalf("buildPrompt() error = %v", err)
	}

	for _, fragment := range []string{`"id": "cat-1"`, `"name": "Groceries"`, `"id": "cat-2"`, "Do NOT invent categories"} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt missing %q", fragment)
		}
	}
}
