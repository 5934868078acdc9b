package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/schoolbreeze/platform/internal/model"
	"github.com/schoolbreeze/platform/internal/platform"
)

// SocialService handles likes and comments on catalog templates. The
// likes_count column on templates is kept in step with the likes table
// explicitly rather than derived by a trigger.
type SocialService struct {
	db DB
}

func NewSocialService(db DB) *SocialService {
	return &SocialService{db: db}
}

// Like records a user's like. A second like from the same user is an error,
// not a no-op.
func (s *SocialService) Like(ctx context.Context, ident Identity, templateID string) (int, error) {
	if err := s.requireTemplate(ctx, templateID); err != nil {
		return 0, err
	}

	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM template_likes WHERE template_id = $1 AND user_id = $2)`,
		templateID, ident.UserID,
	).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("check like: %w", err)
	}
	if exists {
		return 0, fmt.Errorf("%w: already liked", ErrInvalidInput)
	}

	if _, err := s.db.Exec(ctx,
		`INSERT INTO template_likes (id, template_id, user_id, created_at) VALUES ($1, $2, $3, now())`,
		platform.NewID(), templateID, ident.UserID,
	); err != nil {
		return 0, fmt.Errorf("insert like: %w", err)
	}

	var count int
	err = s.db.QueryRow(ctx,
		`UPDATE templates SET likes_count = likes_count + 1 WHERE id = $1 RETURNING likes_count`,
		templateID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("increment likes_count: %w", err)
	}
	return count, nil
}

// Unlike removes the user's like. Unliking something never liked is an error.
func (s *SocialService) Unlike(ctx context.Context, ident Identity, templateID string) (int, error) {
	if err := s.requireTemplate(ctx, templateID); err != nil {
		return 0, err
	}

	tag, err := s.db.Exec(ctx,
		`DELETE FROM template_likes WHERE template_id = $1 AND user_id = $2`,
		templateID, ident.UserID,
	)
	if err != nil {
		return 0, fmt.Errorf("delete like: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, fmt.Errorf("%w: not liked", ErrInvalidInput)
	}

	var count int
	err = s.db.QueryRow(ctx,
		`UPDATE templates SET likes_count = greatest(likes_count - 1, 0) WHERE id = $1 RETURNING likes_count`,
		templateID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("decrement likes_count: %w", err)
	}
	return count, nil
}

// HasLiked reports whether the user currently likes the template.
func (s *SocialService) HasLiked(ctx context.Context, userID, templateID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM template_likes WHERE template_id = $1 AND user_id = $2)`,
		templateID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return exists, nil
}

// ListComments returns a template's comments newest first.
func (s *SocialService) ListComments(ctx context.Context, templateID string, limit int, cursor string) ([]model.TemplateComment, bool, error) {
	query := `SELECT id, template_id, user_id, user_name, content, created_at
	          FROM template_comments WHERE template_id = $1`
	args := []any{templateID}
	argIdx := 2

	// Comment ids are random, so recency lives in created_at; the cursor
	// stays an id and is resolved to its position on the way in.
	if cursor != "" {
		query += fmt.Sprintf(
			` AND (created_at, id) < (SELECT created_at, id FROM template_comments WHERE id = $%d)`, argIdx)
		args = append(args, cursor)
		argIdx++
	}

	query += ` ORDER BY created_at DESC, id DESC`
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit+1)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list comments for template %s: %w", templateID, err)
	}
	defer rows.Close()

	var comments []model.TemplateComment
	for rows.Next() {
		var c model.TemplateComment
		if err := rows.Scan(&c.ID, &c.TemplateID, &c.UserID, &c.UserName, &c.Content, &c.CreatedAt); err != nil {
			return nil, false, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate comments: %w", err)
	}

	hasMore := len(comments) > limit
	if hasMore {
		comments = comments[:limit]
	}
	return comments, hasMore, nil
}

// AddComment posts a comment on a template.
func (s *SocialService) AddComment(ctx context.Context, ident Identity, templateID, content string) (*model.TemplateComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment content is required", ErrInvalidInput)
	}
	if err := s.requireTemplate(ctx, templateID); err != nil {
		return nil, err
	}

	c := &model.TemplateComment{
		ID:         platform.NewID(),
		TemplateID: templateID,
		UserID:     ident.UserID,
		UserName:   ident.DisplayName(),
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.db.Exec(ctx,
		`INSERT INTO template_comments (id, template_id, user_id, user_name, content, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.TemplateID, c.UserID, c.UserName, c.Content, c.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return c, nil
}

// DeleteComment removes a comment. Only its author may delete it.
func (s *SocialService) DeleteComment(ctx context.Context, ident Identity, commentID string) error {
	var authorID string
	err := s.db.QueryRow(ctx,
		`SELECT user_id FROM template_comments WHERE id = $1`, commentID,
	).Scan(&authorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: comment %s", ErrNotFound, commentID)
	}
	if err != nil {
		return fmt.Errorf("get comment %s: %w", commentID, err)
	}
	if authorID != ident.UserID {
		return fmt.Errorf("%w: only the author can delete a comment", ErrForbidden)
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM template_comments WHERE id = $1`, commentID); err != nil {
		return fmt.Errorf("delete comment %s: %w", commentID, err)
	}
	return nil
}

func (s *SocialService) requireTemplate(ctx context.Context, templateID string) error {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM templates WHERE id = $1)`, templateID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check template %s: %w", templateID, err)
	}
	if !exists {
		return fmt.Errorf("%w: template %s", ErrNotFound, templateID)
	}
	return nil
}
