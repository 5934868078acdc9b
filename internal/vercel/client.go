// Package vercel wraps the hosting platform's project-create and
// environment-variable operations. Like the fork client, instances are built
// per request from the resolved token.
package vercel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultBaseURL = "https://api.vercel.com"

// AllTargets marks an environment variable for every deployment environment.
var AllTargets = []string{"production", "preview", "development"}

// APIError is a non-2xx answer from the hosting API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vercel API: status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(token string) *Client {
	return NewClientWithBaseURL(token, defaultBaseURL)
}

func NewClientWithBaseURL(token, baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GitRepository identifies the git source a project builds from.
type GitRepository struct {
	Type string `json:"type"`
	Repo string `json:"repo"`
}

// ProjectLink carries the assigned domain of a linked project, when the
// platform reports one.
type ProjectLink struct {
	URL string `json:"url"`
}

// Project is the hosting platform's description of a created project.
type Project struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Link *ProjectLink `json:"link"`
}

// EnvVar is one secret entry to inject into a project.
type EnvVar struct {
	Key     string
	Value   string
	Targets []string
}

// CreateProject creates a project bound to the given git source. Build
// settings assume the template catalog's Next.js stack.
func (c *Client) CreateProject(ctx context.Context, name string, repo GitRepository) (*Project, error) {
	body := map[string]any{
		"name":           name,
		"framework":      "nextjs",
		"gitRepository":  repo,
		"buildCommand":   "npm run build",
		"devCommand":     "npm run dev",
		"installCommand": "npm install",
	}

	var project Project
	if err := c.doJSON(ctx, http.MethodPost, "/v9/projects", body, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// SetEnvironmentVariables submits all entries concurrently; the writes target
// unrelated keys so ordering among them is irrelevant, but the call joins
// before returning. Every value is stored as a secret ("encrypted") so the
// platform never displays it in plaintext again.
func (c *Client) SetEnvironmentVariables(ctx context.Context, projectID string, vars []EnvVar) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, v := range vars {
		g.Go(func() error {
			body := map[string]any{
				"key":    v.Key,
				"value":  v.Value,
				"target": v.Targets,
				"type":   "encrypted",
			}
			return c.doJSON(gctx, http.MethodPost, fmt.Sprintf("/v10/projects/%s/env", projectID), body, nil)
		})
	}
	return g.Wait()
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("vercel API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	message := resp.Status
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error.Message != "" {
		message = payload.Error.Message
	}
	return &APIError{StatusCode: resp.StatusCode, Message: message}
}
