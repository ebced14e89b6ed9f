package chat

import (
	"context"
	"fmt"
	"iter"

	"google.golang.org/genai"
)

// MaxOutputTokens caps a single reply.
const MaxOutputTokens = 4096

// GeminiStreamer streams replies from the Gemini API.
type GeminiStreamer struct {
	client *genai.Client
	model  string
}

// NewGeminiStreamer creates a client for apiKey. The key is not checked
// until the first request.
func NewGeminiStreamer(ctx context.Context, apiKey, model string) (*GeminiStreamer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiStreamer{client: client, model: model}, nil
}

// Stream implements Streamer.
func (g *GeminiStreamer) Stream(ctx context.Context, system string, turns []Turn) iter.Seq2[string, error] {
	contents := toContents(turns)
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		MaxOutputTokens:   MaxOutputTokens,
	}

	return func(yield func(string, error) bool) {
		for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, contents, config) {
			if err != nil {
				yield("", err)
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}

func toContents(turns []Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		role := genai.Role(genai.RoleUser)
		if t.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Text, role))
	}
	return contents
}
