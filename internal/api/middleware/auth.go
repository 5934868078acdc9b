package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/schoolbreeze/platform/internal/api/response"
	"github.com/schoolbreeze/platform/internal/core"
	"github.com/schoolbreeze/platform/internal/secrets"
)

type contextKey string

const identityKey contextKey = "identity"

// Authenticator validates bearer session tokens against the sessions table
// and loads the caller's identity, including the decrypted OAuth access token
// the session was created with.
type Authenticator struct {
	db     core.DB
	cipher *secrets.Cipher
	logger zerolog.Logger
}

func NewAuthenticator(db core.DB, cipher *secrets.Cipher, logger zerolog.Logger) *Authenticator {
	return &Authenticator{db: db, cipher: cipher, logger: logger}
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			response.WriteError(w, http.StatusUnauthorized, "missing session token")
			return
		}

		hash := sha256.Sum256([]byte(token))
		tokenHash := hex.EncodeToString(hash[:])

		var (
			ident            core.Identity
			name, nickname   *string
			accessCiphertext *string
		)
		err := a.db.QueryRow(r.Context(),
			`SELECT u.id, u.email, u.name, u.nickname, s.access_token_ciphertext
			 FROM sessions s
			 JOIN users u ON u.id = s.user_id
			 WHERE s.token_hash = $1 AND s.expires_at > now()`, tokenHash,
		).Scan(&ident.UserID, &ident.Email, &name, &nickname, &accessCiphertext)
		if err != nil {
			response.WriteError(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		switch {
		case nickname != nil:
			ident.Name = *nickname
		case name != nil:
			ident.Name = *name
		}

		if accessCiphertext != nil {
			plaintext, err := a.cipher.Decrypt(*accessCiphertext)
			if err != nil {
				// Sessions created under an old encryption key keep working;
				// the source-host token just resolves as absent.
				a.logger.Warn().Err(err).Str("user_id", ident.UserID).
					Msg("session access token no longer decrypts")
			} else {
				ident.GitHubToken = plaintext
			}
		}

		ctx := context.WithValue(r.Context(), identityKey, ident)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetIdentity returns the authenticated identity stored by the middleware.
func GetIdentity(ctx context.Context) core.Identity {
	ident, _ := ctx.Value(identityKey).(core.Identity)
	return ident
}

// WithIdentity injects an identity into the context. Test helper for
// handlers that run without the middleware.
func WithIdentity(ctx context.Context, ident core.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
