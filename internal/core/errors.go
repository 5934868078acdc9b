package core

import "errors"

// Service-level error classes. Handlers translate these to HTTP statuses;
// everything else surfaces as a generic failure.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
)

// Identity describes the authenticated caller as resolved by the auth
// boundary. GitHubToken is the session's own OAuth access token, used as the
// last-resort fallback when no managed source-host token resolves.
type Identity struct {
	UserID      string
	Email       string
	Name        string
	GitHubToken string
}

// DisplayName returns the best available human-readable name, falling back to
// the local part of the email address.
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	for idx := 0; idx < len(i.Email); idx++ {
		if i.Email[idx] == '@' {
			return i.Email[:idx]
		}
	}
	if i.Email != "" {
		return i.Email
	}
	return "Unknown"
}
