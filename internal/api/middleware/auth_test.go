package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolbreeze/platform/internal/core"
	"github.com/schoolbreeze/platform/internal/secrets"
)

type fakeDB struct {
	queryRow func(sql string, args ...any) pgx.Row
}

func (f *fakeDB) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (f *fakeDB) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	return f.queryRow(sql, arguments...)
}

type fakeRow struct {
	scan func(dest ...any) error
}

func (r *fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

func testCipher(t *testing.T) *secrets.Cipher {
	t.Helper()
	c, err := secrets.NewCipher("auth-test-secret")
	require.NoError(t, err)
	return c
}

func okHandler(gotIdent *core.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotIdent = GetIdentity(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_MissingToken(t *testing.T) {
	// The header check runs before any DB lookup, so nil deps are safe here.
	auth := NewAuthenticator(nil, nil, zerolog.Nop())
	var ident core.Identity
	handler := auth.Middleware(okHandler(&ident))

	req := httptest.NewRequest("GET", "/api/v1/templates", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "missing session token", body["error"])
}

func TestAuth_InvalidToken(t *testing.T) {
	db := &fakeDB{queryRow: func(sql string, args ...any) pgx.Row {
		return &fakeRow{scan: func(dest ...any) error { return pgx.ErrNoRows }}
	}}
	auth := NewAuthenticator(db, testCipher(t), zerolog.Nop())
	var ident core.Identity
	handler := auth.Middleware(okHandler(&ident))

	req := httptest.NewRequest("GET", "/api/v1/templates", nil)
	req.Header.Set("Authorization", "Bearer sess_bogus")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_ValidSession(t *testing.T) {
	cipher := testCipher(t)
	envelope, err := cipher.Encrypt("gho_access_token")
	require.NoError(t, err)

	var gotHash string
	db := &fakeDB{queryRow: func(sql string, args ...any) pgx.Row {
		gotHash = args[0].(string)
		return &fakeRow{scan: func(dest ...any) error {
			name := "Min-ji"
			*(dest[0].(*string)) = "user-1"
			*(dest[1].(*string)) = "minji@example.com"
			*(dest[2].(**string)) = &name
			*(dest[3].(**string)) = nil
			*(dest[4].(**string)) = &envelope
			return nil
		}}
	}}
	auth := NewAuthenticator(db, cipher, zerolog.Nop())
	var ident core.Identity
	handler := auth.Middleware(okHandler(&ident))

	req := httptest.NewRequest("GET", "/api/v1/templates", nil)
	req.Header.Set("Authorization", "Bearer sess_abc123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", ident.UserID)
	assert.Equal(t, "minji@example.com", ident.Email)
	assert.Equal(t, "Min-ji", ident.Name)
	assert.Equal(t, "gho_access_token", ident.GitHubToken)

	// The token itself never reaches the database, only its hash.
	hash := sha256.Sum256([]byte("sess_abc123"))
	assert.Equal(t, hex.EncodeToString(hash[:]), gotHash)
}

func TestAuth_NicknamePreferredOverName(t *testing.T) {
	db := &fakeDB{queryRow: func(sql string, args ...any) pgx.Row {
		return &fakeRow{scan: func(dest ...any) error {
			name := "Kim Min-ji"
			nickname := "night-owl"
			*(dest[0].(*string)) = "user-1"
			*(dest[1].(*string)) = "minji@example.com"
			*(dest[2].(**string)) = &name
			*(dest[3].(**string)) = &nickname
			*(dest[4].(**string)) = nil
			return nil
		}}
	}}
	auth := NewAuthenticator(db, testCipher(t), zerolog.Nop())
	var ident core.Identity
	handler := auth.Middleware(okHandler(&ident))

	req := httptest.NewRequest("GET", "/api/v1/templates", nil)
	req.Header.Set("Authorization", "Bearer sess_abc123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "night-owl", ident.Name)
	assert.Empty(t, ident.GitHubToken)
}

func TestAuth_UndecryptableAccessTokenNonFatal(t *testing.T) {
	other, err := secrets.NewCipher("a-different-secret")
	require.NoError(t, err)
	envelope, err := other.Encrypt("gho_access_token")
	require.NoError(t, err)

	db := &fakeDB{queryRow: func(sql string, args ...any) pgx.Row {
		return &fakeRow{scan: func(dest ...any) error {
			*(dest[0].(*string)) = "user-1"
			*(dest[1].(*string)) = "minji@example.com"
			*(dest[2].(**string)) = nil
			*(dest[3].(**string)) = nil
			*(dest[4].(**string)) = &envelope
			return nil
		}}
	}}
	auth := NewAuthenticator(db, testCipher(t), zerolog.Nop())
	var ident core.Identity
	handler := auth.Middleware(okHandler(&ident))

	req := httptest.NewRequest("GET", "/api/v1/templates", nil)
	req.Header.Set("Authorization", "Bearer sess_abc123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, ident.GitHubToken)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer token", "Bearer sess_abc123", "sess_abc123"},
		{"empty", "", ""},
		{"no prefix", "sess_abc123", ""},
		{"basic auth ignored", "Basic dXNlcjpwYXNz", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, extractBearerToken(req))
		})
	}
}
