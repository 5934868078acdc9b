package model

import "time"

// Deployment is the durable audit row of one deploy attempt that produced at
// least a forked repository. Rows are never mutated after creation.
type Deployment struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	TemplateID    *string   `json:"template_id"`
	RepoName      string    `json:"repo_name"`
	RepoURL       string    `json:"repo_url"`
	DeploymentURL string    `json:"deployment_url"`
	CreatedAt     time.Time `json:"created_at"`

	// Template summary joined in for list views; nil for manual repo deploys
	// or when the originating template has been deleted.
	Template *DeploymentTemplate `json:"template,omitempty"`
}

type DeploymentTemplate struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	ThumbnailURL *string `json:"thumbnail_url"`
}
