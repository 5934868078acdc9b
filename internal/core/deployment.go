package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/schoolbreeze/platform/internal/model"
)

// DeploymentService reads and prunes the per-user deployment history.
// Records are written by the deploy flow itself.
type DeploymentService struct {
	db DB
}

func NewDeploymentService(db DB) *DeploymentService {
	return &DeploymentService{db: db}
}

// ListByUser returns the user's deployments newest first, each carrying a
// template summary when the source template still exists.
func (s *DeploymentService) ListByUser(ctx context.Context, userID string, limit int, cursor string) ([]model.Deployment, bool, error) {
	query := `SELECT d.id, d.user_id, d.template_id, d.repo_name, d.repo_url, d.deployment_url, d.created_at,
	                 t.title, t.description, t.thumbnail_url
	          FROM user_deployments d
	          LEFT JOIN templates t ON t.id = d.template_id
	          WHERE d.user_id = $1`
	args := []any{userID}
	argIdx := 2

	// Record ids are random, so recency lives in created_at; the cursor
	// stays an id and is resolved to its position on the way in.
	if cursor != "" {
		query += fmt.Sprintf(
			` AND (d.created_at, d.id) < (SELECT created_at, id FROM user_deployments WHERE id = $%d)`, argIdx)
		args = append(args, cursor)
		argIdx++
	}

	query += ` ORDER BY d.created_at DESC, d.id DESC`
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit+1)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list deployments for user %s: %w", userID, err)
	}
	defer rows.Close()

	var deployments []model.Deployment
	for rows.Next() {
		var d model.Deployment
		var title, description, thumbnail *string
		if err := rows.Scan(&d.ID, &d.UserID, &d.TemplateID, &d.RepoName, &d.RepoURL,
			&d.DeploymentURL, &d.CreatedAt, &title, &description, &thumbnail); err != nil {
			return nil, false, fmt.Errorf("scan deployment: %w", err)
		}
		if title != nil {
			tmpl := &model.DeploymentTemplate{Title: *title, ThumbnailURL: thumbnail}
			if description != nil {
				tmpl.Description = *description
			}
			d.Template = tmpl
		}
		deployments = append(deployments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate deployments: %w", err)
	}

	hasMore := len(deployments) > limit
	if hasMore {
		deployments = deployments[:limit]
	}
	return deployments, hasMore, nil
}

// Delete removes a deployment record. Other users' records are invisible,
// so a mismatched owner reads as not found.
func (s *DeploymentService) Delete(ctx context.Context, id, userID string) error {
	var ownerID string
	err := s.db.QueryRow(ctx,
		`SELECT user_id FROM user_deployments WHERE id = $1`, id,
	).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: deployment %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("get deployment %s: %w", id, err)
	}
	if ownerID != userID {
		return fmt.Errorf("%w: deployment %s", ErrNotFound, id)
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM user_deployments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete deployment %s: %w", id, err)
	}
	return nil
}
