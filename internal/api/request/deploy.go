package request

type Deploy struct {
	TemplateRepo string `json:"templateRepo" validate:"required,fullrepo"`
	RepoName     string `json:"repoName" validate:"required,reponame"`
	TemplateID   string `json:"templateId"`
	// Optional overrides; stored credentials fill anything omitted.
	GeminiAPIKey string `json:"geminiApiKey"`
	SupabaseURL  string `json:"supabaseUrl" validate:"omitempty,url"`
	SupabaseKey  string `json:"supabaseKey"`
	VercelToken  string `json:"vercelToken"`
}
