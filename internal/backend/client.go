package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the survey backend. Every call is bounded by the
// configured timeout and is attempted exactly once.
type Client interface {
	ListProjects(ctx context.Context) ([]RemoteProject, error)
	FetchSurvey(ctx context.Context, id string) (*RemoteSurvey, error)
	SubmitSurvey(ctx context.Context, payload SurveyPayload) (*SubmitResponse, error)
	Translate(ctx context.Context, req TranslateRequest) (string, error)

	// Available checks whether the backend is reachable.
	Available(ctx context.Context) bool
}

// httpClient implements Client over JSON/HTTP.
type httpClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewHTTPClient creates a Client for the backend at cfg.URL.
func NewHTTPClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

func (c *httpClient) ListProjects(ctx context.Context) ([]RemoteProject, error) {
	var out []RemoteProject
	if err := c.doJSON(ctx, http.MethodGet, "/projects", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *httpClient) FetchSurvey(ctx context.Context, id string) (*RemoteSurvey, error) {
	var out RemoteSurvey
	if err := c.doJSON(ctx, http.MethodGet, "/surveys/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) SubmitSurvey(ctx context.Context, payload SurveyPayload) (*SubmitResponse, error) {
	var out SubmitResponse
	if err := c.doJSON(ctx, http.MethodPost, "/surveys", payload, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("%w: missing survey id", ErrInvalidResponse)
	}
	return &out, nil
}

func (c *httpClient) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	var out translateResponse
	if err := c.doJSON(ctx, http.MethodPost, "/translate", req, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

func (c *httpClient) Available(ctx context.Context) bool {
	if !c.cfg.Configured() {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// doJSON sends one request and decodes a 2xx JSON response into out.
func (c *httpClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	if !c.cfg.Configured() {
		return ErrNotConfigured
	}
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout())
	defer cancel()

	status, err := c.do(ctx, method, path, body, out)

	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w after %s", ErrTimeout, c.cfg.timeout())
	}
	c.observer.OnCallComplete(CallEvent{
		Method:     method,
		Endpoint:   path,
		StatusCode: status,
		LatencyMs:  time.Since(start).Milliseconds(),
		Success:    err == nil,
		ErrorCode:  errorCode(err),
	})
	return err
}

func (c *httpClient) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.URL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionError(err) {
			return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return resp.StatusCode, fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return resp.StatusCode, fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, bodySnippet(respBody))
	case resp.StatusCode >= 500:
		return resp.StatusCode, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, bodySnippet(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return resp.StatusCode, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	}
	return resp.StatusCode, nil
}

func bodySnippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrRejected):
		return "REJECTED"
	case errors.Is(err, ErrInvalidResponse):
		return "INVALID_RESPONSE"
	default:
		return "UNKNOWN"
	}
}
