package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/schoolbreeze/platform/internal/github"
	"github.com/schoolbreeze/platform/internal/platform"
	"github.com/schoolbreeze/platform/internal/vercel"
)

// settleDelay gives the source host time to make a fresh fork queryable
// before the hosting platform reads it. A heuristic, not a readiness poll.
const settleDelay = 3 * time.Second

// GitHubClient is the slice of the fork client the orchestrator uses.
type GitHubClient interface {
	ForkRepository(ctx context.Context, owner, repo, newName string) (*github.ForkResult, error)
}

// VercelClient is the slice of the hosting client the orchestrator uses.
type VercelClient interface {
	CreateProject(ctx context.Context, name string, repo vercel.GitRepository) (*vercel.Project, error)
	SetEnvironmentVariables(ctx context.Context, projectID string, vars []vercel.EnvVar) error
}

// DeployService runs the one-click deployment flow: fork the template
// repository, optionally provision a hosting project with injected secrets,
// and record the outcome. Only validation and the fork itself can fail the
// request; every later step degrades to a partial success.
type DeployService struct {
	db     DB
	creds  *CredentialService
	logger zerolog.Logger

	// Stateless per-request client factories, parameterized by the resolved
	// token so no user credential outlives the attempt.
	newGitHub func(token string) GitHubClient
	newVercel func(token string) VercelClient

	settle time.Duration
}

func NewDeployService(db DB, creds *CredentialService, logger zerolog.Logger, githubBaseURL, vercelBaseURL string) *DeployService {
	return &DeployService{
		db:     db,
		creds:  creds,
		logger: logger,
		newGitHub: func(token string) GitHubClient {
			if githubBaseURL != "" {
				c, err := github.NewClientWithBaseURL(token, githubBaseURL)
				if err == nil {
					return c
				}
				logger.Warn().Err(err).Msg("invalid github base URL override, using default host")
			}
			return github.NewClient(token)
		},
		newVercel: func(token string) VercelClient {
			if vercelBaseURL != "" {
				return vercel.NewClientWithBaseURL(token, vercelBaseURL)
			}
			return vercel.NewClient(token)
		},
		settle: settleDelay,
	}
}

// DeployInput is the validated deployment trigger. Credential fields are
// optional; missing ones resolve from stored values or session fallbacks.
type DeployInput struct {
	TemplateRepo string
	RepoName     string
	TemplateID   string
	GeminiAPIKey string
	SupabaseURL  string
	SupabaseKey  string
	VercelToken  string
}

// DeployResult is what the caller learns about the attempt.
type DeployResult struct {
	Success       bool   `json:"success"`
	RepoURL       string `json:"repoUrl"`
	DeploymentURL string `json:"deploymentUrl"`
	Message       string `json:"message"`
}

// Deploy executes one deployment attempt. Each state transition emits a
// structured event keyed by the attempt id, which doubles as the id of the
// deployment record.
func (s *DeployService) Deploy(ctx context.Context, ident Identity, in DeployInput) (*DeployResult, error) {
	deployID := platform.NewID()
	logger := s.logger.With().
		Str("deploy_id", deployID).
		Str("user_id", ident.UserID).
		Logger()

	// Validating
	logger.Info().Str("state", "validating").
		Str("template_repo", in.TemplateRepo).
		Str("repo_name", in.RepoName).
		Msg("deployment requested")

	if in.RepoName == "" || in.TemplateRepo == "" {
		return nil, fmt.Errorf("%w: repository name and template repository are required", ErrInvalidInput)
	}
	owner, repo, ok := splitRepo(in.TemplateRepo)
	if !ok {
		return nil, fmt.Errorf("%w: template repository must look like owner/repo-name", ErrInvalidInput)
	}

	creds := s.creds.Resolve(ctx, ident, ExplicitCredentials{
		VercelToken:  in.VercelToken,
		GeminiAPIKey: in.GeminiAPIKey,
		SupabaseURL:  in.SupabaseURL,
		SupabaseKey:  in.SupabaseKey,
	})
	if creds.GitHubToken == "" {
		return nil, fmt.Errorf("%w: no GitHub token available for this account", github.ErrForbidden)
	}

	// Forking is the one mandatory external step.
	logger.Info().Str("state", "forking").Str("source", owner+"/"+repo).Msg("forking template repository")
	fork, err := s.newGitHub(creds.GitHubToken).ForkRepository(ctx, owner, repo, in.RepoName)
	if err != nil {
		logger.Error().Err(err).Str("state", "aborted").Msg("fork failed")
		return nil, err
	}
	logger.Info().Str("repo_url", fork.HTMLURL).Msg("fork created")

	var project *vercel.Project
	if creds.VercelToken == "" {
		logger.Info().Msg("no hosting token resolved, skipping provisioning")
	} else {
		// Let the fork become clonable before the hosting platform
		// tries to read it.
		logger.Info().Str("state", "settling").Dur("delay", s.settle).Msg("waiting for fork to settle")
		if err := sleepCtx(ctx, s.settle); err != nil {
			return nil, err
		}

		logger.Info().Str("state", "provisioning").Msg("creating hosting project")
		client := s.newVercel(creds.VercelToken)
		p, err := client.CreateProject(ctx, in.RepoName, vercel.GitRepository{Type: "github", Repo: fork.FullName})
		if err != nil {
			// The fork is already a deliverable outcome; report a manual
			// deploy link instead of failing the whole attempt.
			logger.Warn().Err(err).Msg("hosting project creation failed, continuing with manual deploy link")
		} else {
			project = p
			logger.Info().Str("project_id", p.ID).Msg("hosting project created")

			if vars := buildEnvVars(creds); len(vars) > 0 {
				logger.Info().Str("state", "injecting_secrets").Int("count", len(vars)).Msg("setting environment variables")
				if err := client.SetEnvironmentVariables(ctx, p.ID, vars); err != nil {
					logger.Warn().Err(err).Msg("environment variable injection failed")
				}
			}
		}
	}

	// RecordingResult
	deploymentURL := "https://vercel.com/new/clone?repository-url=" + fork.HTMLURL
	if project != nil && project.Link != nil && project.Link.URL != "" {
		deploymentURL = "https://" + project.Link.URL
	}

	logger.Info().Str("state", "recording").Str("deployment_url", deploymentURL).Msg("writing deployment record")
	if err := s.writeRecord(ctx, deployID, ident.UserID, in, fork, deploymentURL); err != nil {
		// The external side effects already happened; the user still gets
		// the full result.
		logger.Error().Err(err).Msg("deployment record write failed")
	}

	message := "Template forked. Use the link to deploy it on Vercel."
	if project != nil {
		message = "Template forked and deployment started."
	}

	logger.Info().Str("state", "done").Bool("hosted", project != nil).Msg("deployment finished")
	return &DeployResult{
		Success:       true,
		RepoURL:       fork.HTMLURL,
		DeploymentURL: deploymentURL,
		Message:       message,
	}, nil
}

func (s *DeployService) writeRecord(ctx context.Context, id, userID string, in DeployInput, fork *github.ForkResult, deploymentURL string) error {
	var templateID *string
	if in.TemplateID != "" {
		templateID = &in.TemplateID
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO user_deployments (id, user_id, template_id, repo_name, repo_url, deployment_url, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())`,
		id, userID, templateID, in.RepoName, fork.HTMLURL, deploymentURL,
	)
	return err
}

func buildEnvVars(creds *ResolvedCredentials) []vercel.EnvVar {
	var vars []vercel.EnvVar
	if creds.GeminiAPIKey != "" {
		vars = append(vars, vercel.EnvVar{Key: "GOOGLE_GEMINI_API_KEY", Value: creds.GeminiAPIKey, Targets: vercel.AllTargets})
	}
	if creds.SupabaseURL != "" {
		vars = append(vars, vercel.EnvVar{Key: "NEXT_PUBLIC_SUPABASE_URL", Value: creds.SupabaseURL, Targets: vercel.AllTargets})
	}
	if creds.SupabaseKey != "" {
		vars = append(vars, vercel.EnvVar{Key: "NEXT_PUBLIC_SUPABASE_ANON_KEY", Value: creds.SupabaseKey, Targets: vercel.AllTargets})
	}
	return vars
}

// splitRepo accepts exactly "owner/repo" with both segments non-empty.
func splitRepo(full string) (owner, repo string, ok bool) {
	parts := strings.Split(full, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
