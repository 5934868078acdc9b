package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/schoolbreeze/platform/internal/api/middleware"
	"github.com/schoolbreeze/platform/internal/api/request"
	"github.com/schoolbreeze/platform/internal/api/response"
	"github.com/schoolbreeze/platform/internal/core"
)

// Social handles likes and comments on templates.
type Social struct {
	svc *core.SocialService
}

func NewSocial(svc *core.SocialService) *Social {
	return &Social{svc: svc}
}

type likesResponse struct {
	LikesCount int  `json:"likesCount"`
	Liked      bool `json:"liked"`
}

func (h *Social) Like(w http.ResponseWriter, r *http.Request) {
	templateID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	count, err := h.svc.Like(r.Context(), mw.GetIdentity(r.Context()), templateID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, likesResponse{LikesCount: count, Liked: true})
}

func (h *Social) Unlike(w http.ResponseWriter, r *http.Request) {
	templateID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	count, err := h.svc.Unlike(r.Context(), mw.GetIdentity(r.Context()), templateID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, likesResponse{LikesCount: count, Liked: false})
}

func (h *Social) ListComments(w http.ResponseWriter, r *http.Request) {
	templateID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	pg := request.ParsePagination(r)

	comments, hasMore, err := h.svc.ListComments(r.Context(), templateID, pg.Limit, pg.Cursor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var nextCursor string
	if hasMore && len(comments) > 0 {
		nextCursor = comments[len(comments)-1].ID
	}
	response.WritePaginated(w, http.StatusOK, comments, nextCursor, hasMore)
}

func (h *Social) AddComment(w http.ResponseWriter, r *http.Request) {
	templateID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.AddComment
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := h.svc.AddComment(r.Context(), mw.GetIdentity(r.Context()), templateID, req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, comment)
}

func (h *Social) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := request.RequireID(chi.URLParam(r, "commentID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.DeleteComment(r.Context(), mw.GetIdentity(r.Context()), commentID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
