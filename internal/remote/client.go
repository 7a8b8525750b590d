package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/notification-center/internal/model"
)

// Client is a thin HTTP client for the notification service REST API.
// It handles Bearer token authentication, JSON marshaling, and
// automatic retry with exponential backoff on HTTP 429.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxRetries int
}

var _ Service = (*Client)(nil)

// envelope is the response shape shared by every endpoint: either a
// payload of updated records or an error message, never both.
type envelope struct {
	Payload []model.Notification `json:"payload"`
	Error   string               `json:"error"`
}

// markRequest is the body for the three mark endpoints. The ID order
// is preserved from the queue snapshot.
type markRequest struct {
	IDs []string `json:"ids"`
}

// NewClient creates a new notification service client. The baseURL
// should be the root URL of the service; the token is used for Bearer
// authentication.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: 3,
	}
}

// FetchAll retrieves the complete notification set for a user.
func (c *Client) FetchAll(ctx context.Context, username string) ([]model.Notification, error) {
	query := url.Values{}
	query.Set("username", username)
	return c.get(ctx, "/api/notifications", query)
}

// FetchSome retrieves notifications matching the cursor and optional
// type filter. Absent cursors are omitted from the query entirely.
func (c *Client) FetchSome(ctx context.Context, params FetchSomeParams) ([]model.Notification, error) {
	query := url.Values{}
	query.Set("username", params.Username)
	if len(params.Types) > 0 {
		query.Set("types", strings.Join(params.Types, ","))
	}
	if params.Before != "" {
		query.Set("before", params.Before)
	}
	if params.After != "" {
		query.Set("after", params.After)
	}
	return c.get(ctx, "/api/notifications", query)
}

// MarkRead submits notification IDs to be marked read.
func (c *Client) MarkRead(ctx context.Context, ids []string) ([]model.Notification, error) {
	return c.post(ctx, "/api/notifications/read", markRequest{IDs: ids})
}

// MarkUnread submits notification IDs to be marked unread.
func (c *Client) MarkUnread(ctx context.Context, ids []string) ([]model.Notification, error) {
	return c.post(ctx, "/api/notifications/unread", markRequest{IDs: ids})
}

// MarkShown submits notification IDs to be marked shown.
func (c *Client) MarkShown(ctx context.Context, ids []string) ([]model.Notification, error) {
	return c.post(ctx, "/api/notifications/shown", markRequest{IDs: ids})
}

// get performs an HTTP GET request and unwraps the response envelope.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]model.Notification, error) {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil)
}

// post performs an HTTP POST request with a JSON body and unwraps the
// response envelope.
func (c *Client) post(ctx context.Context, path string, body interface{}) ([]model.Notification, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// do is the core HTTP method that builds the request, handles auth,
// rate limiting with exponential backoff, and the response envelope.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) ([]model.Notification, error) {
	requestURL := c.baseURL + path

	var bodyData []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyData = data
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		var bodyReader io.Reader
		if bodyData != nil {
			bodyReader = bytes.NewReader(bodyData)
		}

		req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}

		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", uuid.NewString())
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("executing request %s %s: %w", method, path, err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("reading response body: %w", readErr)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			waitDuration := retryAfterDuration(resp, attempt)
			lastErr = fmt.Errorf("rate limited (429) on %s %s", method, path)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		if resp.StatusCode == http.StatusUnauthorized {
			return nil, &AuthError{
				Message: fmt.Sprintf("check your access token for %s", c.baseURL),
			}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf(
				"unexpected status %d on %s %s: %s",
				resp.StatusCode, method, path, string(respBody),
			)
		}

		var env envelope
		if err := json.Unmarshal(respBody, &env); err != nil {
			return nil, fmt.Errorf(
				"unmarshaling response from %s %s: %w", method, path, err,
			)
		}
		if env.Error != "" {
			return nil, fmt.Errorf("service error on %s %s: %s", method, path, env.Error)
		}

		return env.Payload, nil
	}

	return nil, fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

// retryAfterDuration reads the Retry-After header and computes a wait
// duration. Falls back to exponential backoff if the header is missing.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	// Exponential backoff: 1s, 2s, 4s, ...
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}
