package summarize

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Client calls the Gemini API for plain text-in/text-out completion.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient builds a Gemini-backed text client. model defaults to a
// small fast model suited to briefing summaries.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("summarizer API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{client: client, model: model}, nil
}

// GenerateText runs one completion with temperature pinned to zero, so
// repeated runs over the same material keep the same tone.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	out := resp.Text()
	if out == "" {
		return "", fmt.Errorf("empty completion")
	}
	return out, nil
}
