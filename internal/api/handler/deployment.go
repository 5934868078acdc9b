package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/schoolbreeze/platform/internal/api/middleware"
	"github.com/schoolbreeze/platform/internal/api/request"
	"github.com/schoolbreeze/platform/internal/api/response"
	"github.com/schoolbreeze/platform/internal/core"
)

// Deployment handles the per-user deployment history.
type Deployment struct {
	svc *core.DeploymentService
}

func NewDeployment(svc *core.DeploymentService) *Deployment {
	return &Deployment{svc: svc}
}

func (h *Deployment) List(w http.ResponseWriter, r *http.Request) {
	ident := mw.GetIdentity(r.Context())
	pg := request.ParsePagination(r)

	deployments, hasMore, err := h.svc.ListByUser(r.Context(), ident.UserID, pg.Limit, pg.Cursor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var nextCursor string
	if hasMore && len(deployments) > 0 {
		nextCursor = deployments[len(deployments)-1].ID
	}
	response.WritePaginated(w, http.StatusOK, deployments, nextCursor, hasMore)
}

func (h *Deployment) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ident := mw.GetIdentity(r.Context())
	if err := h.svc.Delete(r.Context(), id, ident.UserID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
