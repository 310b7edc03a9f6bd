package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TestContext carries the HTTP client and per-scenario state shared by all
// step packages. Each scenario gets a fresh one.
type TestContext struct {
	baseURL string
	client  *http.Client
	suffix  string

	tokens map[string]string

	lastStatus int
	lastBody   []byte
}

// NewTestContext points the suite at a running server. Usernames written in
// feature files are suffixed per scenario so reruns against the same
// database do not collide.
func NewTestContext(baseURL string) *TestContext {
	return &TestContext{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		suffix:  fmt.Sprintf("-%d", time.Now().UnixNano()),
		tokens:  make(map[string]string),
	}
}

func (tc *TestContext) Username(name string) string {
	return name + tc.suffix
}

// Display strips the scenario suffix from names the server returns.
func (tc *TestContext) Display(name string) string {
	return strings.TrimSuffix(name, tc.suffix)
}

func (tc *TestContext) SetToken(user, token string) {
	tc.tokens[user] = token
}

// Do sends a request as user (anonymous when user is empty) and records the
// response for later assertions.
func (tc *TestContext) Do(ctx context.Context, user, method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, tc.baseURL+"/api"+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := tc.tokens[user]; user != "" && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) LastStatus() int {
	return tc.lastStatus
}

// DecodeLast unmarshals the last response body into v.
func (tc *TestContext) DecodeLast(v any) error {
	if err := json.Unmarshal(tc.lastBody, v); err != nil {
		return fmt.Errorf("decode %q: %w", string(tc.lastBody), err)
	}
	return nil
}

// LastField returns a top level string field of the last JSON response.
func (tc *TestContext) LastField(field string) (string, error) {
	var body map[string]any
	if err := tc.DecodeLast(&body); err != nil {
		return "", err
	}
	v, ok := body[field]
	if !ok {
		return "", fmt.Errorf("field %q not in response %s", field, string(tc.lastBody))
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q is %T, not a string", field, v)
	}
	return s, nil
}
