// Package api is the typed request/response boundary to the backend.
// One method per backend capability; JSON marshalling and non-2xx
// translation happen here and nothing else does: no retries, no
// timeouts, no ordering guarantees between concurrent calls. Callers
// decide whether to retry or surface a failure.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"mirror-client/domain"
	apperrors "mirror-client/pkg/errors"
	"mirror-client/pkg/observability"
)

// SessionSource supplies the anonymous identifier attached to every
// call.
type SessionSource interface {
	ID() string
}

// Client talks to the backend HTTP surface.
type Client struct {
	baseURL  string
	http     *http.Client
	logger   *zap.Logger
	session  SessionSource
	metrics  *observability.Metrics
	validate *validator.Validate
}

// NewClient creates a gateway client for the given base URL.
func NewClient(baseURL string, httpClient *http.Client, session SessionSource, metrics *observability.Metrics, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     httpClient,
		logger:   logger,
		session:  session,
		metrics:  metrics,
		validate: validator.New(),
	}
}

type addQuestionRequest struct {
	Text        string `json:"text" validate:"required"`
	Answer      string `json:"answer" validate:"required"`
	FrameworkID string `json:"framework_id,omitempty"`
}

// ListFrameworks fetches the framework metadata list.
func (c *Client) ListFrameworks(ctx context.Context) ([]domain.Framework, error) {
	var out domain.FrameworkList
	if err := c.do(ctx, "list_frameworks", http.MethodGet, "/api/frameworks", nil, &out); err != nil {
		return nil, err
	}
	return out.Frameworks, nil
}

// GetPrompts fetches the ordered prompt list for a framework. The
// backend's list order is the presentation order.
func (c *Client) GetPrompts(ctx context.Context, frameworkID string) ([]string, error) {
	if frameworkID == "" {
		return nil, apperrors.NewValidationError("framework id is required")
	}
	var out []string
	path := fmt.Sprintf("/api/frameworks/%s/prompts", url.PathEscape(frameworkID))
	if err := c.do(ctx, "get_prompts", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddQuestion creates a question and returns it together with its
// consistency results against all prior questions.
func (c *Client) AddQuestion(ctx context.Context, text string, answer domain.LikertAnswer, frameworkID string) (*domain.AddQuestionResponse, error) {
	req := addQuestionRequest{
		Text:        strings.TrimSpace(text),
		Answer:      answer.String(),
		FrameworkID: frameworkID,
	}
	if err := c.validate.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("invalid add-question request").WithCause(err)
	}
	if !answer.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("answer %q is not a likert option", answer))
	}

	var out domain.AddQuestionResponse
	if err := c.do(ctx, "add_question", http.MethodPost, "/api/questions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListQuestions fetches all questions for the session.
func (c *Client) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	var out []domain.Question
	if err := c.do(ctx, "list_questions", http.MethodGet, "/api/questions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteQuestion removes a question by id. Any 2xx is success; the body
// is ignored.
func (c *Client) DeleteQuestion(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.NewValidationError("question id is required")
	}
	path := fmt.Sprintf("/api/questions/%s", url.PathEscape(id))
	return c.do(ctx, "delete_question", http.MethodDelete, path, nil, nil)
}

// GetGraph fetches the full graph snapshot.
func (c *Client) GetGraph(ctx context.Context) (*domain.GraphData, error) {
	var out domain.GraphData
	if err := c.do(ctx, "get_graph", http.MethodGet, "/api/graph", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckConsistency judges an arbitrary text/answer pair against another.
func (c *Client) CheckConsistency(ctx context.Context, req domain.CheckRequest) (*domain.CheckResponse, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("invalid check request").WithCause(err)
	}
	var out domain.CheckResponse
	if err := c.do(ctx, "check_consistency", http.MethodPost, "/api/check", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs one round trip: marshal, send, classify, decode.
func (c *Client) do(ctx context.Context, operation, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewInternalError("failed to marshal request").WithCause(err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperrors.NewInternalError("failed to build request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.session != nil {
		req.Header.Set("X-Session-ID", c.session.ID())
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if c.metrics != nil {
			c.metrics.ObserveRequest(operation, 0, time.Since(start))
		}
		c.logger.Debug("Backend unreachable",
			zap.String("operation", operation),
			zap.Error(err),
		)
		return apperrors.NewNetworkError(fmt.Sprintf("%s %s failed", method, path)).WithCause(err)
	}
	defer resp.Body.Close()

	if c.metrics != nil {
		c.metrics.ObserveRequest(operation, resp.StatusCode, time.Since(start))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Debug("Backend returned error status",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode),
		)
		return &apperrors.BackendError{Status: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewInternalError("failed to decode response").WithCause(err)
	}
	return nil
}
