// Package llm is a minimal OpenAI-compatible chat completion client.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SystemPrompt frames every conversation with the campaign assistant.
const SystemPrompt = "Você é um assistente útil e empático. Forneça respostas claras, concisas e baseadas em informações confiáveis sobre Novembro Azul: prevenção do câncer de próstata, exames (PSA, toque retal), sintomas, fatores de risco, orientações básicas e informações para incentivar consulta médica. Não dê diagnóstico médico definitivo — sempre recomende procurar um profissional de saúde."

// Defaults for Config.
const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-3.5-turbo"
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 512
	DefaultTimeout     = 60 * time.Second
)

var (
	// ErrMissingAPIKey is returned before any network call when no key is set.
	ErrMissingAPIKey = errors.New("api key not configured")
	// ErrInvalidResponse marks an upstream reply that could not be decoded.
	ErrInvalidResponse = errors.New("invalid completion response")
	// ErrRequestFailed marks a transport failure reaching the upstream.
	ErrRequestFailed = errors.New("completion request failed")
)

// UpstreamError is a non-2xx reply from the completion API.
type UpstreamError struct {
	Status int
	Body   []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("completion API returned status %d: %s", e.Status, strings.TrimSpace(string(e.Body)))
}

// InvalidResponseError carries the raw payload of an undecodable reply.
type InvalidResponseError struct {
	Raw []byte
	Err error
}

func (e *InvalidResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", ErrInvalidResponse, e.Err)
	}
	return ErrInvalidResponse.Error()
}

func (e *InvalidResponseError) Unwrap() error {
	return ErrInvalidResponse
}

// Config configures a Client.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	// HTTPClient overrides the default client built from Timeout.
	HTTPClient *http.Client
}

// DefaultConfig returns the campaign defaults for the given key.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:      apiKey,
		BaseURL:     DefaultBaseURL,
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Timeout:     DefaultTimeout,
	}
}

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the chat completion request body.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// Response is the subset of the chat completion reply that is read.
type Response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Client sends single-turn completions. It never retries.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a client, filling unset fields from DefaultConfig.
func NewClient(cfg Config) *Client {
	def := DefaultConfig(cfg.APIKey)
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = def.Temperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, httpClient: hc}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.cfg.Model
}

// HasKey reports whether an API key is configured.
func (c *Client) HasKey() bool {
	return c.cfg.APIKey != ""
}

// Complete sends the system prompt and the user message and returns the
// trimmed content of the first choice.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	body, err := json.Marshal(Request{
		Model: c.cfg.Model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UpstreamError{Status: resp.StatusCode, Body: raw}
	}

	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &InvalidResponseError{Raw: raw, Err: err}
	}
	if out.Error != nil {
		return "", &InvalidResponseError{Raw: raw, Err: errors.New(out.Error.Message)}
	}
	if len(out.Choices) == 0 {
		return "", &InvalidResponseError{Raw: raw, Err: errors.New("no choices returned")}
	}

	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
