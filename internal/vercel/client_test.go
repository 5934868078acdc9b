package vercel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v9/projects", r.URL.Path)
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "my-app", body["name"])
		assert.Equal(t, "nextjs", body["framework"])
		repo := body["gitRepository"].(map[string]any)
		assert.Equal(t, "github", repo["type"])
		assert.Equal(t, "student/my-app", repo["repo"])

		fmt.Fprint(w, `{"id": "prj_1", "name": "my-app", "link": {"url": "my-app.vercel.app"}}`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("tok-123", srv.URL)
	project, err := c.CreateProject(context.Background(), "my-app", GitRepository{Type: "github", Repo: "student/my-app"})
	require.NoError(t, err)
	assert.Equal(t, "prj_1", project.ID)
	require.NotNil(t, project.Link)
	assert.Equal(t, "my-app.vercel.app", project.Link.URL)
}

func TestCreateProject_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"error": {"code": "conflict", "message": "project already exists"}}`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("tok-123", srv.URL)
	_, err := c.CreateProject(context.Background(), "my-app", GitRepository{Type: "github", Repo: "student/my-app"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "already exists")
}

func TestSetEnvironmentVariables_AllSubmitted(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]map[string]any{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v10/projects/prj_1/env", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		mu.Lock()
		seen[body["key"].(string)] = body
		mu.Unlock()
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("tok-123", srv.URL)
	vars := []EnvVar{
		{Key: "GOOGLE_GEMINI_API_KEY", Value: "g-key", Targets: AllTargets},
		{Key: "NEXT_PUBLIC_SUPABASE_URL", Value: "https://x.supabase.co", Targets: AllTargets},
		{Key: "NEXT_PUBLIC_SUPABASE_ANON_KEY", Value: "anon", Targets: AllTargets},
	}
	require.NoError(t, c.SetEnvironmentVariables(context.Background(), "prj_1", vars))

	require.Len(t, seen, 3)
	for key, body := range seen {
		assert.Equal(t, "encrypted", body["type"], "entry %s must be stored as a secret", key)
		assert.ElementsMatch(t, []any{"production", "preview", "development"}, body["target"])
	}
}

func TestSetEnvironmentVariables_OneFailureFailsTheStep(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["key"] == "BAD" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error": {"message": "invalid key"}}`)
			return
		}
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("tok-123", srv.URL)
	vars := []EnvVar{
		{Key: "GOOD", Value: "v", Targets: AllTargets},
		{Key: "BAD", Value: "v", Targets: AllTargets},
	}
	err := c.SetEnvironmentVariables(context.Background(), "prj_1", vars)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}
