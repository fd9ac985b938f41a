// Package webhook sends create and delete calls to the external automation endpoints
// that own every write to the listing tables.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/deadstock-backend/pkg/errors"
	"github.com/angelmondragon/deadstock-backend/pkg/metrics"
)

const (
	defaultTimeout          = 15 * time.Second
	responseExcerptLimit    = 1024
	outcomeSuccess          = "success"
	outcomeRejected         = "rejected"
	outcomeUnreachable      = "unreachable"
	alreadyRegisteredPublic = "This email is already registered"
)

// Endpoint names one configured webhook for logs and metrics.
type Endpoint struct {
	Name string
	URL  string
}

// StatusError reports a non-2xx webhook response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("webhook responded %d", e.StatusCode)
	}
	return fmt.Sprintf("webhook responded %d: %s", e.StatusCode, e.Body)
}

// Client posts {"payload": ...} bodies and issues parameterized deletes.
type Client struct {
	httpClient *http.Client
	metrics    *metrics.WebhookMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithMetrics records every call on the provided recorder.
func WithMetrics(m *metrics.WebhookMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithTimeout sets the per-call timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

func NewClient(opts ...Option) *Client {
	client := &Client{httpClient: &http.Client{Timeout: defaultTimeout}}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

type envelope struct {
	Payload any `json:"payload"`
}

// Post sends payload wrapped as {"payload": payload}. Any 2xx is success.
func (c *Client) Post(ctx context.Context, ep Endpoint, payload any) error {
	body, err := json.Marshal(envelope{Payload: payload})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode webhook payload")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build webhook request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(ep, req)
}

// Delete issues DELETE <url>?id=<id> against the endpoint.
func (c *Client) Delete(ctx context.Context, ep Endpoint, id string) error {
	if strings.TrimSpace(id) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "id is required")
	}
	target, err := url.Parse(ep.URL)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse webhook url")
	}
	q := target.Query()
	q.Set("id", id)
	target.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target.String(), nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build webhook request")
	}
	return c.do(ep, req)
}

func (c *Client) do(ep Endpoint, req *http.Request) error {
	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.Observe(ep.Name, req.Method, outcomeUnreachable, time.Since(started))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("%s webhook unreachable", ep.Name))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, responseExcerptLimit))
		c.metrics.Observe(ep.Name, req.Method, outcomeSuccess, time.Since(started))
		return nil
	}

	excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, responseExcerptLimit))
	c.metrics.Observe(ep.Name, req.Method, outcomeRejected, time.Since(started))
	statusErr := &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(excerpt))}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, statusErr, fmt.Sprintf("%s webhook rejected the request", ep.Name))
}

// AsRegistrationConflict converts a register webhook failure that signals an existing
// account into a CONFLICT error. Other errors are returned unchanged.
func AsRegistrationConflict(err error) error {
	if err == nil {
		return nil
	}
	if IsAlreadyRegistered(err) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, alreadyRegisteredPublic)
	}
	return err
}

// IsAlreadyRegistered reports a 409 response or a body mentioning an existing registration.
func IsAlreadyRegistered(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	if statusErr.StatusCode == http.StatusConflict {
		return true
	}
	body := strings.ToLower(statusErr.Body)
	return strings.Contains(body, "already registered") || strings.Contains(body, "duplicate")
}
