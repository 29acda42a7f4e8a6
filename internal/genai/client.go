// Package genai puts the Gemini SDK behind the narrow text-generation surface the
// services depend on.
package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"invoicegen/internal/models"

	googleai "google.golang.org/genai"
)

// ErrEmptyResponse is returned when the model reply carries no text.
var ErrEmptyResponse = errors.New("could not extract text from AI response")

// ErrNotConfigured is returned when no API key was supplied.
var ErrNotConfigured = errors.New("AI provider is not configured")

// TextGenerator is the narrow surface the rest of the service depends on.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	ListModels(ctx context.Context) ([]models.ModelInfo, error)
}

type Client struct {
	models *googleai.Models
	model  string
}

// NewClient builds a Gemini API client. An empty apiKey yields a client whose calls
// fail with ErrNotConfigured; an empty baseURL selects the public endpoint.
func NewClient(ctx context.Context, baseURL, apiKey, model string, timeout time.Duration) (*Client, error) {
	c := &Client{model: model}
	if apiKey == "" {
		return c, nil
	}

	sdk, err := googleai.NewClient(ctx, &googleai.ClientConfig{
		APIKey:      apiKey,
		Backend:     googleai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: timeout},
		HTTPOptions: googleai.HTTPOptions{BaseURL: strings.TrimRight(baseURL, "/") + "/"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}
	c.models = sdk.Models
	return c, nil
}

// GenerateContent sends a single-turn prompt and returns the text of the first candidate.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if c.models == nil {
		return "", ErrNotConfigured
	}

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, googleai.Text(prompt), nil)
	slog.Debug("ai provider call", "op", "generateContent", "model", c.model, "elapsed", time.Since(start), "error", err)
	if err != nil {
		return "", err
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// ListModels returns every model the key can see; the SDK follows pagination.
func (c *Client) ListModels(ctx context.Context) ([]models.ModelInfo, error) {
	if c.models == nil {
		return nil, ErrNotConfigured
	}

	list := []models.ModelInfo{}
	for m, err := range c.models.All(ctx) {
		if err != nil {
			return nil, err
		}
		list = append(list, models.ModelInfo{
			Name:             m.Name,
			DisplayName:      m.DisplayName,
			Description:      m.Description,
			SupportedMethods: m.SupportedActions,
		})
	}
	return list, nil
}
