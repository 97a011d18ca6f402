package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
)

const defaultClaudeMaxTokens = 300

type ClaudeClient struct {
	client *anthropic.Client
	opts   Options
}

func NewClaudeClient(apiKey, baseURL string, opts Options) *ClaudeClient {
	var clientOpts []anthropic.ClientOption
	if baseURL != "" {
		clientOpts = append(clientOpts, anthropic.WithBaseURL(baseURL))
	}
	if opts.Model == "" {
		opts.Model = string(anthropic.ModelClaude3Haiku20240307)
	}
	// The messages API rejects requests without a token limit.
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaultClaudeMaxTokens
	}

	return &ClaudeClient{
		client: anthropic.NewClient(apiKey, clientOpts...),
		opts:   opts,
	}
}

func (c *ClaudeClient) request(prompt string) anthropic.MessagesRequest {
	req := anthropic.MessagesRequest{
		Model:  anthropic.Model(c.opts.Model),
		System: c.opts.System,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewTextMessageContent(prompt),
				},
			},
		},
		MaxTokens: c.opts.MaxTokens,
	}
	if c.opts.Temperature > 0 {
		t := c.opts.Temperature
		req.Temperature = &t
	}
	return req
}

func (c *ClaudeClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateMessages(ctx, c.request(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to create message: %w", err)
	}

	var text []string
	for _, content := range resp.Content {
		if content.Text != nil {
			text = append(text, *content.Text)
		}
	}
	if len(text) == 0 {
		return "", fmt.Errorf("no response content")
	}
	return strings.TrimSpace(strings.Join(text, "")), nil
}
