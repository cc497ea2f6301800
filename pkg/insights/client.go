// Package insights turns raw test submissions into a structured
// performance analysis by prompting an OpenAI-compatible
// chat-completion model and strict-parsing its JSON reply.
package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config holds the model endpoint credentials loaded from the
// environment.
type Config struct {
	APIKey  string        `env:"GROQ_API_KEY,required"`
	Model   string        `env:"GROQ_MODEL" envDefault:"llama-3.3-70b-versatile"`
	BaseURL string        `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	Timeout time.Duration `env:"GROQ_TIMEOUT" envDefault:"30s"`
}

// Client is a minimal chat-completion client for the Groq API. The API
// is OpenAI-compatible, so only the base URL and key differ.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// ClientOption configures optional Client behavior.
type ClientOption func(*Client)

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a chat-completion client from config.
// Panics if the API key is empty.
func NewClient(cfg Config, opts ...ClientOption) *Client {
	if cfg.APIKey == "" {
		panic(ErrMissingAPIKey)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends a single-turn prompt and returns the model's text
// reply. All failures are wrapped so callers can match on ErrUpstream.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", errors.Join(ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", errors.Join(ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Join(ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.Join(ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Join(ErrUpstream, fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errors.Join(ErrUpstream, err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.Join(ErrUpstream, errors.New("response has no choices"))
	}
	return parsed.Choices[0].Message.Content, nil
}
