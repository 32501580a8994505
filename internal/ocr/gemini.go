package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// linesPrompt instructs the model to transcribe rather than interpret: the
// structuring logic downstream wants the receipt's own lines, not the
// model's opinion of the fields.
const linesPrompt = "You are an OCR engine for retail receipt photos.\n\n" +
	"Task:\n" +
	"- Transcribe EVERY visible text line on the attached receipt image.\n" +
	"- Preserve the top-to-bottom reading order.\n" +
	"- Keep each printed line as one string; do not merge or split lines.\n" +
	"- Keep original spelling, casing, digits and punctuation exactly.\n" +
	"- Output STRICT JSON only: a JSON array of strings.\n\n" +
	"Return ONLY valid raw JSON.\n" +
	"Do NOT wrap the response in code fences.\n" +
	"Do NOT use ```json or any Markdown.\n" +
	"Output must begin with \"[\" and end with \"]\".\n"

// Gemini recognizes receipt text with a Gemini multimodal model. The client
// reads its API key from the environment (GEMINI_API_KEY / GOOGLE_API_KEY).
type Gemini struct {
	model string
}

// NewGemini returns a recognizer bound to the given model name.
func NewGemini(model string) *Gemini {
	return &Gemini{model: model}
}

// Recognize sends the image to the model and decodes the JSON array of lines
// it returns. Markdown fences and stray prose around the array are stripped
// before decoding.
func (g *Gemini) Recognize(ctx context.Context, image []byte, mimeType string) (any, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("ocr: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: linesPrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     image,
					},
				},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("ocr: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("ocr: empty response from model")
	}

	clean := cleanModelJSON(rawText)

	var parsed any
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, fmt.Errorf("ocr: unmarshal JSON: %w\nraw response: %s", err, rawText)
	}
	return parsed, nil
}

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

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// If the model wrapped prose around the array, keep only the first '['
	// through the last ']'.
	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
