package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DefaultEndpoint is the chat proxy path served by the site.
const DefaultEndpoint = "/api/openai"

// ServerErrorFallback stands in for an error reply that is not JSON.
const ServerErrorFallback = "Erro no servidor"

// Client sends one message to the chat proxy.
type Client interface {
	Send(ctx context.Context, message string) (string, error)
}

// HTTPError is a non-2xx reply from the proxy.
type HTTPError struct {
	Status     int
	StatusText string
	// Message is the reply's error field, or ServerErrorFallback when the body
	// is not JSON.
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.StatusText
}

// HTTPClient posts to the proxy endpoint.
type HTTPClient struct {
	URL        string
	HTTPClient *http.Client
}

// NewHTTPClient creates a client for the proxy at url.
func NewHTTPClient(url string) *HTTPClient {
	return &HTTPClient{URL: url, HTTPClient: http.DefaultClient}
}

// Send posts {message} and returns the reply field.
func (c *HTTPClient) Send(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &HTTPError{Status: resp.StatusCode, StatusText: http.StatusText(resp.StatusCode)}
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			httpErr.Message = ServerErrorFallback
		} else {
			httpErr.Message = payload.Error
		}
		return "", httpErr
	}

	var payload struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("failed to parse reply: %w", err)
	}
	return payload.Reply, nil
}
