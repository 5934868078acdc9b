package model

import "time"

// CredentialSet is the per-user collection of third-party secrets. Token
// columns hold ciphertext envelopes; plaintext never reaches durable storage.
// The Gemini key and Supabase URL are stored as-is, matching the upstream
// provider's own handling of those values.
type CredentialSet struct {
	ID                    string    `json:"id"`
	Email                 string    `json:"email"`
	GitHubTokenCiphertext *string   `json:"-"`
	VercelTokenCiphertext *string   `json:"-"`
	GeminiAPIKey          *string   `json:"-"`
	SupabaseURL           *string   `json:"-"`
	SupabaseKeyCiphertext *string   `json:"-"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// CredentialStatus reports which credentials exist without exposing values.
type CredentialStatus struct {
	HasGitHubToken bool `json:"hasGithubToken"`
	HasVercelToken bool `json:"hasVercelToken"`
	HasGeminiKey   bool `json:"hasGeminiKey"`
	HasSupabaseURL bool `json:"hasSupabaseUrl"`
	HasSupabaseKey bool `json:"hasSupabaseKey"`
}
