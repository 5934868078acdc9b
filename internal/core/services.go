package core

import (
	"github.com/rs/zerolog"

	"github.com/schoolbreeze/platform/internal/secrets"
)

type Services struct {
	Credential *CredentialService
	Deploy     *DeployService
	Deployment *DeploymentService
	Template   *TemplateService
	Social     *SocialService
	User       *UserService
}

func NewServices(db DB, cipher *secrets.Cipher, logger zerolog.Logger, githubBaseURL, vercelBaseURL string) *Services {
	creds := NewCredentialService(db, cipher, logger)
	return &Services{
		Credential: creds,
		Deploy:     NewDeployService(db, creds, logger, githubBaseURL, vercelBaseURL),
		Deployment: NewDeploymentService(db),
		Template:   NewTemplateService(db),
		Social:     NewSocialService(db),
		User:       NewUserService(db),
	}
}
