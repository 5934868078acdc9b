package request

type CreateTemplate struct {
	Title        string   `json:"title" validate:"required,max=200"`
	Description  string   `json:"description" validate:"required"`
	Category     string   `json:"category" validate:"required,max=100"`
	Kind         string   `json:"kind" validate:"required,oneof=source-repo deployed-site canvas-project other"`
	RepoURL      string   `json:"repoUrl" validate:"omitempty,url"`
	DemoURL      string   `json:"demoUrl" validate:"omitempty,url"`
	ThumbnailURL string   `json:"thumbnailUrl" validate:"omitempty,url"`
	RequiredAPIs []string `json:"requiredApis"`
}

type UpdateTemplate struct {
	Title        *string  `json:"title" validate:"omitempty,max=200"`
	Description  *string  `json:"description"`
	Category     *string  `json:"category" validate:"omitempty,max=100"`
	RepoURL      *string  `json:"repoUrl" validate:"omitempty,url"`
	DemoURL      *string  `json:"demoUrl" validate:"omitempty,url"`
	ThumbnailURL *string  `json:"thumbnailUrl" validate:"omitempty,url"`
	RequiredAPIs []string `json:"requiredApis"`
}
