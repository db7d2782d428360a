// Package e2e drives a running hospital access server through its HTTP API
// with godog scenarios. Set E2E_BASE_URL to enable the suite. Scenarios
// issue admin writes back to back, so run the server with ADMIN_WRITE_RATE=0.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestContext carries per-scenario state: the current bearer token and the
// last response.
type TestContext struct {
	BaseURL    string
	SigningKey string
	Issuer     string
	Audience   string

	client       *http.Client
	token        string
	lastStatus   int
	lastBody     []byte
	lastResponse map[string]any
}

func NewTestContext() *TestContext {
	return &TestContext{
		BaseURL:    strings.TrimRight(os.Getenv("E2E_BASE_URL"), "/"),
		SigningKey: getenv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		Issuer:     getenv("JWT_ISSUER", "hospital-auth"),
		Audience:   getenv("JWT_AUDIENCE", "hospital-api"),
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Reset clears per-scenario state.
func (tc *TestContext) Reset() {
	tc.token = ""
	tc.lastStatus = 0
	tc.lastBody = nil
	tc.lastResponse = nil
}

// AuthenticateAs mints a token the server's validator accepts.
func (tc *TestContext) AuthenticateAs(username, role string) error {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": username,
		"role":     role,
		"sub":      username,
		"iss":      tc.Issuer,
		"aud":      []string{tc.Audience},
		"iat":      now.Unix(),
		"exp":      now.Add(5 * time.Minute).Unix(),
	})
	signed, err := token.SignedString([]byte(tc.SigningKey))
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	tc.token = signed
	return nil
}

func (tc *TestContext) ClearToken() { tc.token = "" }

func (tc *TestContext) GET(path string) error {
	return tc.do(http.MethodGet, path, nil)
}

func (tc *TestContext) POST(path string, body any) error {
	return tc.do(http.MethodPost, path, body)
}

func (tc *TestContext) DELETE(path string) error {
	return tc.do(http.MethodDelete, path, nil)
}

func (tc *TestContext) do(method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, tc.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tc.token != "" {
		req.Header.Set("Authorization", "Bearer "+tc.token)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	tc.lastResponse = nil
	if len(tc.lastBody) > 0 {
		var parsed map[string]any
		if json.Unmarshal(tc.lastBody, &parsed) == nil {
			tc.lastResponse = parsed
		}
	}
	return nil
}

func (tc *TestContext) LastStatus() int { return tc.lastStatus }

func (tc *TestContext) LastBody() string { return string(tc.lastBody) }

// GetResponseField returns a top-level field of the last JSON response.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	if tc.lastResponse == nil {
		return nil, fmt.Errorf("last response is not a JSON object: %s", tc.lastBody)
	}
	v, ok := tc.lastResponse[field]
	if !ok {
		return nil, fmt.Errorf("field %q not in response: %s", field, tc.lastBody)
	}
	return v, nil
}
