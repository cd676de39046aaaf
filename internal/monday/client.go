// Package monday talks GraphQL to the monday.com API: one client, the query
// documents, and the wire types their payloads decode into.
package monday

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"monday-mcp/internal/logger"
)

// DefaultAPIURL is the public monday.com GraphQL endpoint.
const DefaultAPIURL = "https://api.monday.com/v2"

// Responses larger than this are cut off rather than buffered.
const maxResponseBytes = 8 << 20

// Client executes GraphQL operations against one monday.com account.
type Client struct {
	apiURL string
	apiKey string
	http   *http.Client
	log    *logger.Logger
}

// NewClient builds a client. An empty apiURL selects the public endpoint.
func NewClient(apiURL, apiKey string, timeout time.Duration, log *logger.Logger) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.Default()
	}
	return &Client{
		apiURL: apiURL,
		apiKey: apiKey,
		http:   &http.Client{Timeout: timeout},
		log:    log,
	}
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`

	// Legacy error envelope the API still uses for some failures.
	ErrorMessage string `json:"error_message"`
	ErrorCode    string `json:"error_code"`
	StatusCode   int    `json:"status_code"`
}

type gqlError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code       string `json:"code"`
		StatusCode int    `json:"status_code"`
	} `json:"extensions"`
}

// Execute posts one GraphQL operation and returns the raw data payload.
// Every failure comes back as a *Error carrying the operation name and a
// category the caller can branch on.
func (c *Client) Execute(ctx context.Context, operation, query string, variables map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, &Error{Category: CategoryTransport, Operation: operation, Message: "encoding request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Category: CategoryTransport, Operation: operation, Message: "building request", Err: err}
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Category: CategoryTransport, Operation: operation, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Category: CategoryTransport, Operation: operation, StatusCode: resp.StatusCode, Message: "reading response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		cat := categorize(resp.StatusCode, "", "")
		c.log.Warn("api request rejected",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode),
			zap.String("category", string(cat)))
		return nil, &Error{Category: cat, Operation: operation, StatusCode: resp.StatusCode, Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	var out gqlResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, &Error{Category: CategoryTransport, Operation: operation, StatusCode: resp.StatusCode, Message: "decoding response", Err: err}
	}

	if len(out.Errors) > 0 {
		first := out.Errors[0]
		cat := categorize(first.Extensions.StatusCode, first.Extensions.Code, first.Message)
		c.log.Warn("graphql error",
			zap.String("operation", operation),
			zap.String("code", first.Extensions.Code),
			zap.String("category", string(cat)))
		return nil, &Error{Category: cat, Operation: operation, StatusCode: resp.StatusCode, Code: first.Extensions.Code, Message: first.Message}
	}
	if out.ErrorMessage != "" {
		cat := categorize(out.StatusCode, out.ErrorCode, out.ErrorMessage)
		return nil, &Error{Category: cat, Operation: operation, StatusCode: out.StatusCode, Code: out.ErrorCode, Message: out.ErrorMessage}
	}
	if len(out.Data) == 0 || string(out.Data) == "null" {
		return nil, &Error{Category: CategoryTransport, Operation: operation, StatusCode: resp.StatusCode, Message: "empty data payload"}
	}

	c.log.Debug("graphql ok",
		zap.String("operation", operation),
		zap.Duration("elapsed", time.Since(start)))
	return out.Data, nil
}
