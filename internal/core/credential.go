package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/schoolbreeze/platform/internal/model"
	"github.com/schoolbreeze/platform/internal/platform"
	"github.com/schoolbreeze/platform/internal/secrets"
)

// CredentialService manages the per-user credential set and resolves the
// secrets a deployment attempt needs.
type CredentialService struct {
	db     DB
	cipher *secrets.Cipher
	logger zerolog.Logger
}

func NewCredentialService(db DB, cipher *secrets.Cipher, logger zerolog.Logger) *CredentialService {
	return &CredentialService{db: db, cipher: cipher, logger: logger}
}

// Get returns the stored credential set for the email, or nil when the user
// has never saved one.
func (s *CredentialService) Get(ctx context.Context, email string) (*model.CredentialSet, error) {
	var c model.CredentialSet
	err := s.db.QueryRow(ctx,
		`SELECT id, email, github_token_ciphertext, vercel_token_ciphertext,
		        gemini_api_key, supabase_url, supabase_key_ciphertext, updated_at
		 FROM credential_sets WHERE email = $1`, email,
	).Scan(&c.ID, &c.Email, &c.GitHubTokenCiphertext, &c.VercelTokenCiphertext,
		&c.GeminiAPIKey, &c.SupabaseURL, &c.SupabaseKeyCiphertext, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get credential set: %w", err)
	}
	return &c, nil
}

// Status reports which credentials exist without returning any values.
func (s *CredentialService) Status(ctx context.Context, email string) (*model.CredentialStatus, error) {
	set, err := s.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return &model.CredentialStatus{}, nil
	}
	return &model.CredentialStatus{
		HasGitHubToken: set.GitHubTokenCiphertext != nil,
		HasVercelToken: set.VercelTokenCiphertext != nil,
		HasGeminiKey:   set.GeminiAPIKey != nil,
		HasSupabaseURL: set.SupabaseURL != nil,
		HasSupabaseKey: set.SupabaseKeyCiphertext != nil,
	}, nil
}

// SaveInput carries the fields to store. Nil pointers leave the stored value
// untouched, empty strings clear it; tokens are encrypted before they reach
// the database.
type SaveInput struct {
	GitHubToken  *string
	VercelToken  *string
	GeminiAPIKey *string
	SupabaseURL  *string
	SupabaseKey  *string
}

// Save upserts the provided fields of the caller's credential set.
func (s *CredentialService) Save(ctx context.Context, email string, in SaveInput) error {
	cols := []string{}
	args := []any{platform.NewID(), email}

	// An empty provided value clears the column; nil pointers leave the
	// stored value untouched.
	add := func(col string, value any) {
		cols = append(cols, col)
		args = append(args, value)
	}
	addPlain := func(col, value string) {
		if value == "" {
			add(col, nil)
			return
		}
		add(col, value)
	}
	addEncrypted := func(col, plaintext string) error {
		if plaintext == "" {
			add(col, nil)
			return nil
		}
		envelope, err := s.cipher.Encrypt(plaintext)
		if err != nil {
			return err
		}
		add(col, envelope)
		return nil
	}

	if in.GitHubToken != nil {
		if err := addEncrypted("github_token_ciphertext", *in.GitHubToken); err != nil {
			return fmt.Errorf("encrypt github token: %w", err)
		}
	}
	if in.VercelToken != nil {
		if err := addEncrypted("vercel_token_ciphertext", *in.VercelToken); err != nil {
			return fmt.Errorf("encrypt vercel token: %w", err)
		}
	}
	if in.GeminiAPIKey != nil {
		addPlain("gemini_api_key", *in.GeminiAPIKey)
	}
	if in.SupabaseURL != nil {
		addPlain("supabase_url", *in.SupabaseURL)
	}
	if in.SupabaseKey != nil {
		if err := addEncrypted("supabase_key_ciphertext", *in.SupabaseKey); err != nil {
			return fmt.Errorf("encrypt supabase key: %w", err)
		}
	}

	query := `INSERT INTO credential_sets (id, email`
	values := ` VALUES ($1, $2`
	updates := ``
	for i, col := range cols {
		query += ", " + col
		values += fmt.Sprintf(", $%d", i+3)
		if updates != "" {
			updates += ", "
		}
		updates += fmt.Sprintf("%s = EXCLUDED.%s", col, col)
	}
	query += ", updated_at)" + values + ", now())"
	query += ` ON CONFLICT (email) DO UPDATE SET updated_at = now()`
	if updates != "" {
		query += ", " + updates
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("save credential set: %w", err)
	}
	return nil
}

// Disconnect nulls the stored value(s) for one provider.
func (s *CredentialService) Disconnect(ctx context.Context, email, provider string) error {
	var set string
	switch provider {
	case "github":
		set = "github_token_ciphertext = NULL"
	case "vercel":
		set = "vercel_token_ciphertext = NULL"
	case "gemini":
		set = "gemini_api_key = NULL"
	case "supabase":
		set = "supabase_url = NULL, supabase_key_ciphertext = NULL"
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidInput, provider)
	}

	_, err := s.db.Exec(ctx,
		fmt.Sprintf("UPDATE credential_sets SET %s, updated_at = now() WHERE email = $1", set), email)
	if err != nil {
		return fmt.Errorf("disconnect %s: %w", provider, err)
	}
	return nil
}

// ExplicitCredentials are values supplied directly on a deploy request. They
// always win over stored values.
type ExplicitCredentials struct {
	VercelToken  string
	GeminiAPIKey string
	SupabaseURL  string
	SupabaseKey  string
}

// ResolvedCredentials is the outcome of resolution: empty string means the
// credential is unavailable.
type ResolvedCredentials struct {
	GitHubToken  string
	VercelToken  string
	GeminiAPIKey string
	SupabaseURL  string
	SupabaseKey  string
}

// Resolve fills each credential by priority: explicit value, then stored
// (decrypted) value, then per-field fallback. The session's own GitHub access
// token substitutes for a managed source-host token. A failed lookup or a
// ciphertext that no longer decrypts is logged and treated as absent; whether
// a missing field ends up fatal is the caller's call.
func (s *CredentialService) Resolve(ctx context.Context, ident Identity, explicit ExplicitCredentials) *ResolvedCredentials {
	res := &ResolvedCredentials{
		VercelToken:  explicit.VercelToken,
		GeminiAPIKey: explicit.GeminiAPIKey,
		SupabaseURL:  explicit.SupabaseURL,
		SupabaseKey:  explicit.SupabaseKey,
	}

	set, err := s.Get(ctx, ident.Email)
	if err != nil {
		s.logger.Warn().Err(err).Str("email", ident.Email).Msg("credential lookup failed, resolving without stored values")
	}

	if set != nil {
		if res.GitHubToken == "" && set.GitHubTokenCiphertext != nil {
			res.GitHubToken = s.decryptField("github_token", *set.GitHubTokenCiphertext)
		}
		if res.VercelToken == "" && set.VercelTokenCiphertext != nil {
			res.VercelToken = s.decryptField("vercel_token", *set.VercelTokenCiphertext)
		}
		if res.GeminiAPIKey == "" && set.GeminiAPIKey != nil {
			res.GeminiAPIKey = *set.GeminiAPIKey
		}
		if res.SupabaseURL == "" && set.SupabaseURL != nil {
			res.SupabaseURL = *set.SupabaseURL
		}
		if res.SupabaseKey == "" && set.SupabaseKeyCiphertext != nil {
			res.SupabaseKey = s.decryptField("supabase_key", *set.SupabaseKeyCiphertext)
		}
	}

	if res.GitHubToken == "" {
		res.GitHubToken = ident.GitHubToken
	}

	return res
}

func (s *CredentialService) decryptField(field, envelope string) string {
	plaintext, err := s.cipher.Decrypt(envelope)
	if err != nil {
		s.logger.Warn().Err(err).Str("field", field).Msg("stored credential no longer decrypts, treating as absent")
		return ""
	}
	return plaintext
}
