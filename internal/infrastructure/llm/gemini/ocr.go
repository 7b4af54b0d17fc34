package gemini

import (
	"context"
	"strings"

	genai "google.golang.org/genai"
)

const ocrPrompt = "Transcribe all text from this document page. Return only the plain text in reading order, no commentary."

// RecognizePage sends a single-page PDF inline to the multimodal model and
// returns the transcribed text. Implements ports.PageOCR.
func (c *Client) RecognizePage(ctx context.Context, singlePagePDF []byte) (string, error) {
	content := genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromBytes(singlePagePDF, "application/pdf"),
		genai.NewPartFromText(ocrPrompt),
	}, genai.RoleUser)

	text, err := c.generate(ctx, "recognize_page", []*genai.Content{content})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
