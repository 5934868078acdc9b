package handler

import (
	"errors"
	"net/http"

	"github.com/schoolbreeze/platform/internal/api/response"
	"github.com/schoolbreeze/platform/internal/core"
	"github.com/schoolbreeze/platform/internal/github"
)

// writeServiceError maps service errors onto HTTP statuses. A missing or
// under-scoped source-host token is the one upstream failure callers can act
// on; every other upstream error reads as a 500. Anything unclassified is a
// 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		response.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrNotFound):
		response.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrForbidden), errors.Is(err, github.ErrForbidden):
		response.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, core.ErrConflict):
		response.WriteError(w, http.StatusConflict, err.Error())
	default:
		response.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
