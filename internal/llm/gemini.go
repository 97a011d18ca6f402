package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiClient struct {
	client *genai.Client
	opts   Options
}

func NewGeminiClient(ctx context.Context, apiKey string, opts Options) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if opts.Model == "" {
		opts.Model = "gemini-1.5-flash"
	}
	return &GeminiClient{
		client: client,
		opts:   opts,
	}, nil
}

func (c *GeminiClient) model() *genai.GenerativeModel {
	m := c.client.GenerativeModel(c.opts.Model)
	if c.opts.System != "" {
		m.SystemInstruction = genai.NewUserContent(genai.Text(c.opts.System))
	}
	if c.opts.MaxTokens > 0 {
		m.SetMaxOutputTokens(int32(c.opts.MaxTokens))
	}
	if c.opts.Temperature > 0 {
		m.SetTemperature(c.opts.Temperature)
	}
	m.ResponseMIMEType = "application/json"
	return m
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model().GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates or content")
	}

	var text []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text = append(text, string(txt))
		}
	}
	if len(text) == 0 {
		return "", fmt.Errorf("no text in response")
	}
	return strings.TrimSpace(strings.Join(text, "")), nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}
