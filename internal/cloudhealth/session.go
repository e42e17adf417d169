package cloudhealth

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

	"github.com/cloudhealth-ps/flexreports-backup/internal/logger"
)

// Option overrides a Session default.
type Option func(*Session)

// Session executes GraphQL operations against one CloudHealth endpoint
// using the bearer token obtained at login. Immutable after Login.
type Session struct {
	endpoint     string
	token        string
	httpClient   *http.Client
	timeout      time.Duration
	fetchTimeout time.Duration
	log          logger.Logger
}

// WithHTTPClient overrides the HTTP client. Per-request bounds come
// from context deadlines, so the client needs no Timeout of its own; a
// client-level Timeout would cap every call regardless of the per-call
// bound.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Session) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithTimeout overrides the per-request timeout for everything except
// full definition downloads.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Session) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithFetchTimeout overrides the longer bound used for full report
// definition downloads.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(s *Session) {
		if timeout > 0 {
			s.fetchTimeout = timeout
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// Login authenticates against the endpoint and returns a ready Session.
// The API key itself is sent once and discarded; only the access token
// is kept. Any failure here is fatal for the caller.
func Login(ctx context.Context, endpoint, apiKey string, opts ...Option) (*Session, error) {
	s := &Session{
		endpoint:     endpoint,
		httpClient:   &http.Client{},
		timeout:      30 * time.Second,
		fetchTimeout: 60 * time.Second,
		log:          logger.Global(),
	}
	for _, opt := range opts {
		opt(s)
	}

	resp, err := s.execute(ctx, loginMutation, map[string]any{"apiKey": apiKey}, s.timeout)
	if err != nil {
		// An error payload at the login stage means the key was rejected.
		if errors.Is(err, ErrAPI) {
			return nil, fmt.Errorf("%w: %v", ErrAuth, err)
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	var payload struct {
		LoginAPI struct {
			AccessToken string `json:"accessToken"`
		} `json:"loginAPI"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode login response: %v", ErrAPI, err)
	}
	if payload.LoginAPI.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access token in login response", ErrAuth)
	}

	s.token = payload.LoginAPI.AccessToken
	s.log.Debug("authenticated", "endpoint", endpoint)
	return s, nil
}

// Response is one successful GraphQL result: the decoded data payload
// plus the verbatim response body.
type Response struct {
	Data json.RawMessage
	Raw  []byte
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

// execute posts one operation and classifies the outcome. Transport and
// timeout faults map to ErrTransport, credential rejection to ErrAuth,
// and a well-formed errors payload to ErrAPI.
func (s *Session) execute(
	ctx context.Context,
	query string,
	variables map[string]any,
	timeout time.Duration,
) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	httpResp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrTransport, err)
	}

	switch {
	case httpResp.StatusCode == http.StatusUnauthorized,
		httpResp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: server returned %s", ErrAuth, httpResp.Status)
	case httpResp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: server returned %s", ErrTransport, httpResp.Status)
	}

	var envelope graphQLEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrAPI, err)
	}
	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		return nil, fmt.Errorf("%w: %s", ErrAPI, strings.Join(messages, "; "))
	}

	return &Response{Data: envelope.Data, Raw: raw}, nil
}
