// Package gemini implements the completion client against Google's Gemini
// API via the genai SDK.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a new Gemini client for the given model
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("completion returned no text")
	}
	return text, nil
}

func (c *Client) Provider() string {
	return "gemini"
}

func (c *Client) Model() string {
	return c.model
}
