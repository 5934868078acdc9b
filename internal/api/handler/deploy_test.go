package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newDeployHandler() *Deploy {
	return NewDeploy(nil)
}

func TestDeployCreate_InvalidJSON(t *testing.T) {
	h := newDeployHandler()
	rec := httptest.NewRecorder()
	r := newRequestRaw(http.MethodPost, "/deploy", "{bad json")

	h.Create(rec, withSession(r))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "invalid JSON")
}

func TestDeployCreate_MissingRepoName(t *testing.T) {
	h := newDeployHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/deploy", map[string]any{
		"templateRepo": "octocat/hello-world",
	})

	h.Create(rec, withSession(r))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "validation error")
}

func TestDeployCreate_MalformedTemplateRepo(t *testing.T) {
	h := newDeployHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/deploy", map[string]any{
		"templateRepo": "not-a-repo-reference",
		"repoName":     "my-app",
	})

	h.Create(rec, withSession(r))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeployCreate_BadRepoName(t *testing.T) {
	h := newDeployHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/deploy", map[string]any{
		"templateRepo": "octocat/hello-world",
		"repoName":     "has spaces!",
	})

	h.Create(rec, withSession(r))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
