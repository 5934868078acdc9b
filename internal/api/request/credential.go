package request

// SaveCredentials updates the stored credential set. Nil fields are left
// untouched; empty strings clear the stored value.
type SaveCredentials struct {
	GitHubToken  *string `json:"githubToken"`
	VercelToken  *string `json:"vercelToken"`
	GeminiAPIKey *string `json:"geminiApiKey"`
	SupabaseURL  *string `json:"supabaseUrl" validate:"omitempty,url"`
	SupabaseKey  *string `json:"supabaseAnonKey"`
}
