// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the datachat backend.
//
// All conversation state lives behind this API; the client is a thin,
// stateless wrapper: one request per user action, no retries, no backoff.
// Every call takes a context so the UI can abandon in-flight requests when
// the user logs out or quits.
package api

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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Configuration constants for the backend API.
const (
	// DefaultTimeout is the default timeout for API requests. Query
	// answering can involve LLM inference, so it is generous.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit
)

// sharedHTTPClient is shared by all Client instances.
// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
	Timeout: DefaultTimeout,
}

// Error variables for common backend errors.
var (
	// ErrNotAuthenticated indicates no session token is set on the client.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrAuthFailed indicates the backend rejected the credentials or token.
	ErrAuthFailed = errors.New("authentication failed")
)

// APIError represents a structured error response from the backend.
// The server-provided message is surfaced to the user verbatim.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.Status)
}

// apiErrorResponse covers the two error envelopes the backend emits:
// FastAPI-style {"detail": ...} and the generic {"error": {"message": ...}}.
type apiErrorResponse struct {
	Detail string `json:"detail"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is a client for the datachat backend API.
//
// The zero token state is valid: only Login may be called until a token is
// set. All other operations fail fast with ErrNotAuthenticated.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
}

// NewClient creates a new backend client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: sharedHTTPClient,
		timeout:    DefaultTimeout,
		logger:     zap.NewNop(),
	}
}

// WithToken sets the bearer token used on authenticated calls.
func (c *Client) WithToken(token string) *Client {
	c.token = strings.TrimSpace(token)
	return c
}

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	c.httpClient = &http.Client{
		Transport: sharedHTTPClient.Transport,
		Timeout:   timeout,
	}
	return c
}

// WithLogger sets the request/response logger.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client (tests).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// IsAuthenticated returns true if the client has a session token.
func (c *Client) IsAuthenticated() bool {
	return c.token != ""
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Login exchanges credentials for a session. It is the only unauthenticated
// operation; the caller persists the returned identity exactly once.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", LoginRequest{
		Username: username,
		Password: password,
	}, &resp, false)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListHistories fetches the full conversation summary list for the
// session's user, ordered by recency.
func (c *Client) ListHistories(ctx context.Context) ([]Summary, error) {
	var resp []Summary
	if err := c.do(ctx, http.MethodGet, "/chat/histories", nil, &resp, true); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetHistory fetches one conversation's full message list.
func (c *Client) GetHistory(ctx context.Context, chatID string) (*History, error) {
	var resp History
	if err := c.do(ctx, http.MethodGet, "/chat/history/"+chatID, nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteHistory deletes one conversation. The backend acknowledges with an
// empty 2xx body.
func (c *Client) DeleteHistory(ctx context.Context, chatID string) error {
	return c.do(ctx, http.MethodDelete, "/chat/history/"+chatID, nil, nil, true)
}

// SendQuery submits a query. An empty chatID starts a new conversation;
// the response names the conversation the answer was stored under.
func (c *Client) SendQuery(ctx context.Context, query, chatID string) (*QueryResponse, error) {
	req := QueryRequest{Query: query}
	if chatID != "" {
		req.ChatID = &chatID
	}
	var resp QueryResponse
	if err := c.do(ctx, http.MethodPost, "/chat/query", req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendFeedback attaches a positive/negative rating to one bot message.
func (c *Client) SendFeedback(ctx context.Context, messageID, feedback string) error {
	return c.do(ctx, http.MethodPost, "/chat/feedback", FeedbackRequest{
		MessageID: messageID,
		Feedback:  feedback,
	}, nil, true)
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// do performs a single request and decodes the response into out (if
// non-nil). There is deliberately no retry loop: every user action maps to
// exactly one attempt, and failure is surfaced to the user immediately.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	if authed && !c.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	c.setHeaders(req, requestID, authed)

	start := time.Now()
	resp, err := c.httpClient.Do(req)

	// SECURITY: Clear Authorization header immediately after the request
	// so it can never leak through request dumps.
	req.Header.Del("Authorization")

	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Info("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	respBody, err := readResponse(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleErrorResponse(resp.StatusCode, respBody)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// setHeaders sets the required headers for backend requests.
func (c *Client) setHeaders(req *http.Request, requestID string, authed bool) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "datachat/0.2.0")
	req.Header.Set("X-Request-ID", requestID)
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// readResponse reads the response body with a size limit.
//
// SECURITY: Response size limit prevents memory exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// handleErrorResponse converts HTTP error responses to Go errors, keeping
// the server-provided message when one exists.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	message := ""
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil {
		if apiErr.Detail != "" {
			message = apiErr.Detail
		} else if apiErr.Error.Message != "" {
			message = apiErr.Error.Message
		}
	}

	if statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		if message != "" {
			return fmt.Errorf("%w: %s", ErrAuthFailed, message)
		}
		return ErrAuthFailed
	}

	return &APIError{Status: statusCode, Message: message}
}

// UserMessage maps an error to the notification text shown to the user:
// the server's own message when it sent one, a generic fallback otherwise.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrAuthFailed) {
		msg := err.Error()
		if idx := strings.Index(msg, ": "); idx >= 0 {
			return msg[idx+2:]
		}
	}
	return fallback
}
