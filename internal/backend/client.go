// Package backend talks to the remote code-execution service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"execdesk/pkg/errors"
	"execdesk/pkg/utils/logger"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://app-backend-58w2.onrender.com"
	DefaultTimeout = 30 * time.Second

	// maxResponseBytes caps a backend body; the list endpoint returns the full history.
	maxResponseBytes = 8 << 20

	opSubmit = "submit"
	opList   = "list"
)

// ResponseInfo carries response details.
type ResponseInfo struct {
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// Client wraps the two backend endpoints.
type Client struct {
	mu        sync.RWMutex
	baseURL   string
	timeout   time.Duration
	transport http.RoundTripper
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
}

// WithTransport overrides the HTTP transport, mostly for tests.
func (c *Client) WithTransport(rt http.RoundTripper) *Client {
	c.transport = rt
	return c
}

func (c *Client) SetBaseURL(baseURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = strings.TrimRight(baseURL, "/")
}

func (c *Client) SetTimeout(timeout time.Duration) {
	if timeout <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = timeout
}

func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

func (c *Client) Timeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.timeout
}

// Submit sends one creation request.
func (c *Client) Submit(ctx context.Context, req CreateRequest) (CreateResponse, error) {
	var out CreateResponse
	body, err := json.Marshal(req)
	if err != nil {
		return out, errors.Wrapf(err, errors.InternalServerError, "marshal submit request failed")
	}
	info, err := c.do(ctx, opSubmit, http.MethodPost, "/submit", body)
	if err != nil {
		return out, err
	}
	if err := decode(info, opSubmit, &out); err != nil {
		return out, err
	}
	return out, nil
}

// ListSubmissions fetches the complete history in backend order.
func (c *Client) ListSubmissions(ctx context.Context) ([]Submission, error) {
	info, err := c.do(ctx, opList, http.MethodGet, "/submissions", nil)
	if err != nil {
		return nil, err
	}
	var resp listResponse
	if err := decode(info, opList, &resp); err != nil {
		return nil, err
	}
	result := make([]Submission, 0, len(resp.Result))
	for _, item := range resp.Result {
		result = append(result, item.normalize())
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte) (ResponseInfo, error) {
	var info ResponseInfo
	c.mu.RLock()
	baseURL, timeout := c.baseURL, c.timeout
	c.mu.RUnlock()
	client := &http.Client{Timeout: timeout, Transport: c.transport}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, reader)
	if err != nil {
		return info, errors.Wrapf(err, errors.InternalServerError, "build request failed: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := client.Do(req)
	info.Duration = time.Since(start)
	if err != nil {
		observe(op, 0, info.Duration)
		code := errors.BackendUnavailable
		if isTimeout(err) {
			code = errors.Timeout
		}
		logger.Warn(ctx, "backend request failed",
			zap.String("op", op),
			zap.Duration("duration", info.Duration),
			zap.Error(err),
		)
		return info, errors.TransportError(err, code, op, 0)
	}
	defer func() { _ = resp.Body.Close() }()

	info.StatusCode = resp.StatusCode
	observe(op, resp.StatusCode, info.Duration)
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return info, errors.TransportError(fmt.Errorf("read response body failed: %w", err), errors.BackendUnavailable, op, resp.StatusCode)
	}
	if len(data) > maxResponseBytes {
		return info, errors.TransportError(fmt.Errorf("response body exceeds %d bytes", maxResponseBytes), errors.InvalidFormat, op, resp.StatusCode)
	}
	info.Body = data

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn(ctx, "backend returned non-success status",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration", info.Duration),
		)
		return info, errors.TransportError(fmt.Errorf("unexpected status %d", resp.StatusCode), errors.BackendRequestFailed, op, resp.StatusCode)
	}
	logger.Debug(ctx, "backend request completed",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", info.Duration),
	)
	return info, nil
}

func decode(info ResponseInfo, op string, out interface{}) error {
	if err := json.Unmarshal(info.Body, out); err != nil {
		return errors.TransportError(fmt.Errorf("decode response failed: %w", err), errors.InvalidFormat, op, info.StatusCode)
	}
	return nil
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}
