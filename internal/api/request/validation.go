package request

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// repoNameRegex matches GitHub repository names: letters, digits, dots,
// hyphens and underscores, up to 100 characters.
var repoNameRegex = regexp.MustCompile(`^[A-Za-z0-9._-]{1,100}$`)

// fullRepoRegex matches "owner/repo-name" references.
var fullRepoRegex = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,38})/[A-Za-z0-9._-]{1,100}$`)

func init() {
	validate.RegisterValidation("reponame", func(fl validator.FieldLevel) bool {
		return repoNameRegex.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("fullrepo", func(fl validator.FieldLevel) bool {
		return fullRepoRegex.MatchString(fl.Field().String())
	})
}

func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

func RequireID(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("missing required ID")
	}
	return s, nil
}
