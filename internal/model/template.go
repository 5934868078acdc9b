package model

import "time"

// Template kinds. The kind decides which location field is mandatory:
// a source-repo template needs RepoURL, a deployed-site template needs DemoURL.
const (
	TemplateKindSourceRepo    = "source-repo"
	TemplateKindDeployedSite  = "deployed-site"
	TemplateKindCanvasProject = "canvas-project"
	TemplateKindOther         = "other"
)

type Template struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Kind         string    `json:"kind"`
	RepoURL      *string   `json:"repo_url"`
	DemoURL      *string   `json:"demo_url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	RequiredAPIs []string  `json:"required_apis"`
	LikesCount   int       `json:"likes_count"`
	AuthorID     string    `json:"author_id"`
	AuthorName   string    `json:"author_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type TemplateComment struct {
	ID         string    `json:"id"`
	TemplateID string    `json:"template_id"`
	UserID     string    `json:"user_id"`
	UserName   string    `json:"user_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
