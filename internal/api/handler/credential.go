package handler

import (
	"net/http"

	mw "github.com/schoolbreeze/platform/internal/api/middleware"
	"github.com/schoolbreeze/platform/internal/api/request"
	"github.com/schoolbreeze/platform/internal/api/response"
	"github.com/schoolbreeze/platform/internal/core"
)

// Credential handles the stored credential set. Values are write-only
// through this API: reads report presence, never content.
type Credential struct {
	svc *core.CredentialService
}

func NewCredential(svc *core.CredentialService) *Credential {
	return &Credential{svc: svc}
}

func (h *Credential) Status(w http.ResponseWriter, r *http.Request) {
	ident := mw.GetIdentity(r.Context())

	status, err := h.svc.Status(r.Context(), ident.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, status)
}

func (h *Credential) Save(w http.ResponseWriter, r *http.Request) {
	var req request.SaveCredentials
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ident := mw.GetIdentity(r.Context())
	err := h.svc.Save(r.Context(), ident.Email, core.SaveInput{
		GitHubToken:  req.GitHubToken,
		VercelToken:  req.VercelToken,
		GeminiAPIKey: req.GeminiAPIKey,
		SupabaseURL:  req.SupabaseURL,
		SupabaseKey:  req.SupabaseKey,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status, err := h.svc.Status(r.Context(), ident.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, status)
}

// Disconnect clears one provider's stored values, selected by ?type=.
func (h *Credential) Disconnect(w http.ResponseWriter, r *http.Request) {
	provider := r.URL.Query().Get("type")
	if provider == "" {
		response.WriteError(w, http.StatusBadRequest, "missing type parameter")
		return
	}

	ident := mw.GetIdentity(r.Context())
	if err := h.svc.Disconnect(r.Context(), ident.Email, provider); err != nil {
		writeServiceError(w, err)
		return
	}

	status, err := h.svc.Status(r.Context(), ident.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, status)
}
