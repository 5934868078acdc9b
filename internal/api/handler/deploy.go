package handler

import (
	"net/http"

	mw "github.com/schoolbreeze/platform/internal/api/middleware"
	"github.com/schoolbreeze/platform/internal/api/request"
	"github.com/schoolbreeze/platform/internal/api/response"
	"github.com/schoolbreeze/platform/internal/core"
)

// Deploy handles the one-click deployment endpoint.
type Deploy struct {
	svc *core.DeployService
}

func NewDeploy(svc *core.DeployService) *Deploy {
	return &Deploy{svc: svc}
}

// Create triggers a deployment: fork the template repository, provision a
// hosting project when a token is available, and record the outcome.
func (h *Deploy) Create(w http.ResponseWriter, r *http.Request) {
	var req request.Deploy
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Deploy(r.Context(), mw.GetIdentity(r.Context()), core.DeployInput{
		TemplateRepo: req.TemplateRepo,
		RepoName:     req.RepoName,
		TemplateID:   req.TemplateID,
		GeminiAPIKey: req.GeminiAPIKey,
		SupabaseURL:  req.SupabaseURL,
		SupabaseKey:  req.SupabaseKey,
		VercelToken:  req.VercelToken,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, result)
}
