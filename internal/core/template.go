package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/schoolbreeze/platform/internal/api/request"
	"github.com/schoolbreeze/platform/internal/model"
	"github.com/schoolbreeze/platform/internal/platform"
)

// TemplateService manages the shared template catalog.
type TemplateService struct {
	db DB
}

func NewTemplateService(db DB) *TemplateService {
	return &TemplateService{db: db}
}

type CreateTemplateInput struct {
	Title        string
	Description  string
	Category     string
	Kind         string
	RepoURL      string
	DemoURL      string
	ThumbnailURL string
	RequiredAPIs []string
}

// Create publishes a template. The kind decides which location field is
// mandatory: source-repo needs a repository URL, deployed-site needs a
// live demo URL.
func (s *TemplateService) Create(ctx context.Context, ident Identity, in CreateTemplateInput) (*model.Template, error) {
	switch in.Kind {
	case model.TemplateKindSourceRepo:
		if in.RepoURL == "" {
			return nil, fmt.Errorf("%w: a source-repo template needs a repository URL", ErrInvalidInput)
		}
	case model.TemplateKindDeployedSite:
		if in.DemoURL == "" {
			return nil, fmt.Errorf("%w: a deployed-site template needs a demo URL", ErrInvalidInput)
		}
	case model.TemplateKindCanvasProject, model.TemplateKindOther:
	default:
		return nil, fmt.Errorf("%w: unknown template kind %q", ErrInvalidInput, in.Kind)
	}

	now := time.Now().UTC()
	t := &model.Template{
		ID:           platform.NewID(),
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		Category:     in.Category,
		Kind:         in.Kind,
		RepoURL:      optional(in.RepoURL),
		DemoURL:      optional(in.DemoURL),
		ThumbnailURL: optional(in.ThumbnailURL),
		RequiredAPIs: in.RequiredAPIs,
		AuthorID:     ident.UserID,
		AuthorName:   ident.DisplayName(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if t.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO templates (id, title, description, category, kind, repo_url, demo_url, thumbnail_url,
		                        required_apis, likes_count, author_id, author_name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $10, $11, $12, $13)`,
		t.ID, t.Title, t.Description, t.Category, t.Kind, t.RepoURL, t.DemoURL, t.ThumbnailURL,
		t.RequiredAPIs, t.AuthorID, t.AuthorName, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert template: %w", err)
	}
	return t, nil
}

const templateColumns = `id, title, description, category, kind, repo_url, demo_url, thumbnail_url,
	 required_apis, likes_count, author_id, author_name, created_at, updated_at`

func scanTemplate(row pgx.Row) (*model.Template, error) {
	var t model.Template
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Category, &t.Kind, &t.RepoURL, &t.DemoURL,
		&t.ThumbnailURL, &t.RequiredAPIs, &t.LikesCount, &t.AuthorID, &t.AuthorName,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TemplateService) GetByID(ctx context.Context, id string) (*model.Template, error) {
	t, err := scanTemplate(s.db.QueryRow(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: template %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get template %s: %w", id, err)
	}
	return t, nil
}

func (s *TemplateService) List(ctx context.Context, params request.ListParams) ([]model.Template, bool, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE 1=1`
	args := []any{}
	argIdx := 1

	if params.Search != "" {
		query += fmt.Sprintf(` AND (title ILIKE $%d OR description ILIKE $%d)`, argIdx, argIdx)
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}
	if params.Category != "" {
		query += fmt.Sprintf(` AND category = $%d`, argIdx)
		args = append(args, params.Category)
		argIdx++
	}
	if params.Kind != "" {
		query += fmt.Sprintf(` AND kind = $%d`, argIdx)
		args = append(args, params.Kind)
		argIdx++
	}
	if params.Cursor != "" {
		query += fmt.Sprintf(` AND id > $%d`, argIdx)
		args = append(args, params.Cursor)
		argIdx++
	}

	sortCol := "created_at"
	switch params.Sort {
	case "title":
		sortCol = "title"
	case "likes_count":
		sortCol = "likes_count"
	case "created_at":
		sortCol = "created_at"
	}
	order := "DESC"
	if params.Order == "asc" {
		order = "ASC"
	}
	query += fmt.Sprintf(` ORDER BY %s %s`, sortCol, order)
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, params.Limit+1)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []model.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, false, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate templates: %w", err)
	}

	hasMore := len(templates) > params.Limit
	if hasMore {
		templates = templates[:params.Limit]
	}
	return templates, hasMore, nil
}

type UpdateTemplateInput struct {
	Title        *string
	Description  *string
	Category     *string
	RepoURL      *string
	DemoURL      *string
	ThumbnailURL *string
	RequiredAPIs []string
}

// Update edits a template. Only the author may edit.
func (s *TemplateService) Update(ctx context.Context, ident Identity, id string, in UpdateTemplateInput) (*model.Template, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.AuthorID != ident.UserID {
		return nil, fmt.Errorf("%w: only the author can edit a template", ErrForbidden)
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		t.Title = title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Category != nil {
		t.Category = *in.Category
	}
	if in.RepoURL != nil {
		t.RepoURL = optional(*in.RepoURL)
	}
	if in.DemoURL != nil {
		t.DemoURL = optional(*in.DemoURL)
	}
	if in.ThumbnailURL != nil {
		t.ThumbnailURL = optional(*in.ThumbnailURL)
	}
	if in.RequiredAPIs != nil {
		t.RequiredAPIs = in.RequiredAPIs
	}

	// Kind is immutable, so the location requirement still has to hold.
	if t.Kind == model.TemplateKindSourceRepo && t.RepoURL == nil {
		return nil, fmt.Errorf("%w: a source-repo template needs a repository URL", ErrInvalidInput)
	}
	if t.Kind == model.TemplateKindDeployedSite && t.DemoURL == nil {
		return nil, fmt.Errorf("%w: a deployed-site template needs a demo URL", ErrInvalidInput)
	}

	t.UpdatedAt = time.Now().UTC()
	_, err = s.db.Exec(ctx,
		`UPDATE templates SET title = $1, description = $2, category = $3, repo_url = $4, demo_url = $5,
		        thumbnail_url = $6, required_apis = $7, updated_at = $8
		 WHERE id = $9`,
		t.Title, t.Description, t.Category, t.RepoURL, t.DemoURL, t.ThumbnailURL, t.RequiredAPIs,
		t.UpdatedAt, t.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update template %s: %w", id, err)
	}
	return t, nil
}

// Delete removes a template along with its likes and comments. Deployment
// records keep their rows; the template reference goes null through the
// schema's ON DELETE SET NULL.
func (s *TemplateService) Delete(ctx context.Context, ident Identity, id string) error {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t.AuthorID != ident.UserID {
		return fmt.Errorf("%w: only the author can delete a template", ErrForbidden)
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM template_likes WHERE template_id = $1`, id); err != nil {
		return fmt.Errorf("delete likes for template %s: %w", id, err)
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM template_comments WHERE template_id = $1`, id); err != nil {
		return fmt.Errorf("delete comments for template %s: %w", id, err)
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM templates WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete template %s: %w", id, err)
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
