package receipt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"calico/internal/core"
)

// Parsed is the model's best-effort reading of a receipt image.
type Parsed struct {
	Title      string  `json:"title"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"` // YYYY-MM-DD
	CategoryID string  `json:"category"`
}

// Parser turns receipt images into transaction drafts via Gemini.
type Parser struct {
	client *genai.Client
	model  string
}

func NewParser(ctx context.Context, apiKey, model string) (*Parser, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Parser{client: client, model: model}, nil
}

// Parse sends the receipt image and the user's category list to the model and
// decodes the structured result. The model must pick a category ID from the
// given list, never invent one.
func (p *Parser) Parse(ctx context.Context, imageData []byte, mimeType string, categories []core.Category) (Parsed, error) {
	prompt, err := buildPrompt(categories)
	if err != nil {
		return Parsed{}, err
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     imageData,
					},
				},
				{Text: prompt},
			},
		},
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		return Parsed{}, fmt.Errorf("generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return Parsed{}, fmt.Errorf("empty response from model")
	}

	var parsed Parsed
	clean := cleanModelJSON(rawText)
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return Parsed{}, fmt.Errorf("unmarshal model output: %w", err)
	}
	return parsed, nil
}

func buildPrompt(categories []core.Category) (string, error) {
	type entry struct {
		Name string `json:"name"`
		ID   string `json:"id"`
	}
	entries := make([]entry, 0, len(categories))
	for _, c := range categories {
		entries = append(entries, entry{Name: c.Name, ID: c.ID})
	}
	list, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal category list: %w", err)
	}

	return `You're a receipt parser. Return ONLY a valid JSON object like:
{
  "title": "Transaction description or merchant name",
  "amount": 12.34,
  "date": "YYYY-MM-DD",
  "category": "category id from list below"
}

Use the list of categories below. Your job is to match the receipt to the most relevant category by name, then return ONLY the matching id from the list. Do NOT invent categories. Use the exact ID from the list.

Here is the list of categories:
` + string(list) + `

Do NOT include backticks or markdown formatting. Respond ONLY with the JSON object.
`, nil
}

// cleanModelJSON strips Markdown fences and surrounding junk when the model
// ignores the formatting instructions.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	// Remove trailing ``` if present.
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// Keep only from the first '{' to the last '}' when extra prose remains.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
