package handler

import (
	"net/http"

	mw "github.com/schoolbreeze/platform/internal/api/middleware"
	"github.com/schoolbreeze/platform/internal/api/request"
	"github.com/schoolbreeze/platform/internal/api/response"
	"github.com/schoolbreeze/platform/internal/core"
)

// User handles profile endpoints.
type User struct {
	svc *core.UserService
}

func NewUser(svc *core.UserService) *User {
	return &User{svc: svc}
}

func (h *User) Me(w http.ResponseWriter, r *http.Request) {
	ident := mw.GetIdentity(r.Context())

	u, err := h.svc.GetByID(r.Context(), ident.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, u)
}

func (h *User) SetNickname(w http.ResponseWriter, r *http.Request) {
	var req request.SetNickname
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ident := mw.GetIdentity(r.Context())
	if err := h.svc.SetNickname(r.Context(), ident, req.Nickname); err != nil {
		writeServiceError(w, err)
		return
	}

	u, err := h.svc.GetByID(r.Context(), ident.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, u)
}
