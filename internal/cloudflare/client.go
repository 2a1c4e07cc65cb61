// Package cloudflare is a thin client for the Cloudflare v4 REST endpoints used by
// focus mode: token verification, account lookup and Gateway rules.
package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.cloudflare.com/client/v4"

// APIError is one entry of the envelope's errors array.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Envelope is the standard v4 response wrapper. Fields are decoded one by
// one so an unexpected shape in one of them never hides success:false.
type Envelope struct {
	Success  *bool
	Errors   json.RawMessage
	Messages json.RawMessage
	Result   json.RawMessage
}

func decodeEnvelope(data []byte) *Envelope {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil
	}

	env := &Envelope{
		Errors:   fields["errors"],
		Messages: fields["messages"],
		Result:   fields["result"],
	}
	var success bool
	if raw, ok := fields["success"]; ok && json.Unmarshal(raw, &success) == nil && string(raw) != "null" {
		env.Success = &success
	}
	return env
}

// Response describes one call. Raw and Envelope are nil when the body was not JSON.
// Envelope is also nil when the body is JSON but not an object.
type Response struct {
	URL        string
	Status     int
	StatusText string
	Raw        json.RawMessage
	Envelope   *Envelope
}

// OK reports a 2xx status without an explicit success:false in the body.
func (r *Response) OK() bool {
	if r.Status < 200 || r.Status > 299 {
		return false
	}
	return !r.ExplicitFailure()
}

// ExplicitFailure reports whether the body carried success:false.
func (r *Response) ExplicitFailure() bool {
	return r.Envelope != nil && r.Envelope.Success != nil && !*r.Envelope.Success
}

// FirstErrorMessage returns errors[0].message when it is a string, else "".
// Later entries are not consulted.
func (r *Response) FirstErrorMessage() string {
	if r.Envelope == nil {
		return ""
	}
	var errs []json.RawMessage
	if json.Unmarshal(r.Envelope.Errors, &errs) != nil || len(errs) == 0 {
		return ""
	}
	var first struct {
		Message json.RawMessage `json:"message"`
	}
	if json.Unmarshal(errs[0], &first) != nil {
		return ""
	}
	var msg string
	if json.Unmarshal(first.Message, &msg) != nil {
		return ""
	}
	return msg
}

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	httpClient HTTPDoer
	baseURL    string
	apiToken   string
	accountID  string
}

func NewClient(baseURL, apiToken, accountID string, timeout time.Duration) *Client {
	return NewClientWithDoer(&http.Client{Timeout: timeout}, baseURL, apiToken, accountID)
}

func NewClientWithDoer(doer HTTPDoer, baseURL, apiToken, accountID string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: doer,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiToken:   apiToken,
		accountID:  accountID,
	}
}

func (c *Client) TokenVerifyURL() string {
	return c.baseURL + "/user/tokens/verify"
}

func (c *Client) AccountURL() string {
	return c.baseURL + "/accounts/" + c.accountID
}

func (c *Client) GatewayRulesURL() string {
	return c.AccountURL() + "/gateway/rules"
}

// VerifyToken calls the token introspection endpoint.
func (c *Client) VerifyToken(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, c.TokenVerifyURL(), nil)
}

// GetAccount looks up the configured account.
func (c *Client) GetAccount(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, c.AccountURL(), nil)
}

// ListGatewayRules lists the account's Gateway rules.
func (c *Client) ListGatewayRules(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, c.GatewayRulesURL(), nil)
}

// CreateGatewayRule posts a new Gateway rule. rule is marshaled as JSON.
func (c *Client) CreateGatewayRule(ctx context.Context, rule any) (*Response, error) {
	payload, err := json.Marshal(rule)
	if err != nil {
		return nil, fmt.Errorf("failed to encode gateway rule: %w", err)
	}
	return c.do(ctx, http.MethodPost, c.GatewayRulesURL(), payload)
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}

	out := &Response{
		URL:        url,
		Status:     resp.StatusCode,
		StatusText: statusText(resp),
	}

	// A body that is not JSON is reported as null, not as an error.
	if json.Valid(data) {
		out.Raw = json.RawMessage(data)
		out.Envelope = decodeEnvelope(data)
	}
	return out, nil
}

func statusText(resp *http.Response) string {
	if text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); text != "" && text != resp.Status {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
