// Package backend is the client for the remote persistence/inference
// service. It exposes the two operations the conversation core consumes:
// fetching a session's stored history and exchanging a user message for a
// model reply.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"unicode/utf8"

	"github.com/loomchat/loom/core/protocol"
)

// MaxExchangeChars is the largest user message accepted by the exchange
// endpoint. Enforced client-side before the request is issued.
const MaxExchangeChars = 8000

// ErrMessageTooLong is returned by Exchange for messages over
// MaxExchangeChars.
var ErrMessageTooLong = errors.New("message exceeds exchange limit")

// Error is a failure reported by the backend. The core never branches on
// Status; it only surfaces Reason to the user.
type Error struct {
	Status int
	Reason string
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return e.Reason
}

// Reason extracts a human-readable failure reason from err, falling back to
// the generic message when the backend supplied none.
func Reason(err error) string {
	var be *Error
	if errors.As(err, &be) && be.Reason != "" {
		return be.Reason
	}
	return "Something went wrong. Please try again."
}

// Client is the persistence/inference boundary consumed by the conversation
// controller.
type Client interface {
	// History returns the stored message sequence for a session. An empty
	// slice means the session has no history yet.
	History(ctx context.Context, sessionID string) ([]protocol.Message, error)
	// Exchange sends one user message and returns the model's reply.
	Exchange(ctx context.Context, sessionID, message string) (string, error)
}

type httpClient struct {
	base string
	http *http.Client
}

// NewHTTPClient creates a Client that talks JSON over HTTP to the service
// rooted at baseURL.
func NewHTTPClient(baseURL string) Client {
	return &httpClient{
		base: baseURL,
		http: &http.Client{},
	}
}

type historyResponse struct {
	Messages []protocol.Message `json:"messages"`
}

type exchangeRequest struct {
	Message string `json:"message"`
}

type exchangeResponse struct {
	Reply string `json:"reply"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *httpClient) History(ctx context.Context, sessionID string) ([]protocol.Message, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sessionURL(sessionID, "history"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build history request: %w", err)
	}

	var body historyResponse
	if err := c.do(req, &body); err != nil {
		return nil, err
	}
	return body.Messages, nil
}

func (c *httpClient) Exchange(ctx context.Context, sessionID, message string) (string, error) {
	if utf8.RuneCountInString(message) > MaxExchangeChars {
		return "", ErrMessageTooLong
	}

	payload, err := json.Marshal(exchangeRequest{Message: message})
	if err != nil {
		return "", fmt.Errorf("failed to encode exchange request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.sessionURL(sessionID, "exchange"), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build exchange request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var body exchangeResponse
	if err := c.do(req, &body); err != nil {
		return "", err
	}
	return body.Reply, nil
}

// do executes the request and decodes a 2xx JSON body into out. Non-2xx
// responses become *Error with the reason parsed from the body when present.
func (c *httpClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read backend response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var fail errorResponse
		_ = json.Unmarshal(data, &fail)
		return &Error{Status: resp.StatusCode, Reason: fail.Error}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	return nil
}

func (c *httpClient) sessionURL(sessionID, op string) string {
	return fmt.Sprintf("%s/api/sessions/%s/%s", c.base, url.PathEscape(sessionID), op)
}
