package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/schoolbreeze/platform/internal/api/middleware"
	"github.com/schoolbreeze/platform/internal/api/request"
	"github.com/schoolbreeze/platform/internal/api/response"
	"github.com/schoolbreeze/platform/internal/core"
)

// Template handles the template catalog endpoints.
type Template struct {
	svc *core.TemplateService
}

func NewTemplate(svc *core.TemplateService) *Template {
	return &Template{svc: svc}
}

func (h *Template) List(w http.ResponseWriter, r *http.Request) {
	params := request.ParseListParams(r, "created_at")

	templates, hasMore, err := h.svc.List(r.Context(), params)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var nextCursor string
	if hasMore && len(templates) > 0 {
		nextCursor = templates[len(templates)-1].ID
	}
	response.WritePaginated(w, http.StatusOK, templates, nextCursor, hasMore)
}

func (h *Template) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tmpl, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, tmpl)
}

func (h *Template) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTemplate
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tmpl, err := h.svc.Create(r.Context(), mw.GetIdentity(r.Context()), core.CreateTemplateInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Kind:         req.Kind,
		RepoURL:      req.RepoURL,
		DemoURL:      req.DemoURL,
		ThumbnailURL: req.ThumbnailURL,
		RequiredAPIs: req.RequiredAPIs,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, tmpl)
}

func (h *Template) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.UpdateTemplate
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tmpl, err := h.svc.Update(r.Context(), mw.GetIdentity(r.Context()), id, core.UpdateTemplateInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		RepoURL:      req.RepoURL,
		DemoURL:      req.DemoURL,
		ThumbnailURL: req.ThumbnailURL,
		RequiredAPIs: req.RequiredAPIs,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, tmpl)
}

func (h *Template) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Delete(r.Context(), mw.GetIdentity(r.Context()), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
