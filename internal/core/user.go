package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/schoolbreeze/platform/internal/model"
)

// UserService manages profile data beyond what OAuth login provides.
type UserService struct {
	db DB
}

func NewUserService(db DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := s.db.QueryRow(ctx,
		`SELECT id, email, name, nickname, created_at, updated_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.Nickname, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &u, nil
}

// SetNickname sets the user's display nickname. Nicknames are unique across
// accounts; claiming one held by another account is a conflict.
func (s *UserService) SetNickname(ctx context.Context, ident Identity, nickname string) error {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return fmt.Errorf("%w: nickname is required", ErrInvalidInput)
	}

	var holderID string
	err := s.db.QueryRow(ctx,
		`SELECT id FROM users WHERE nickname = $1`, nickname,
	).Scan(&holderID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check nickname: %w", err)
	}
	if err == nil && holderID != ident.UserID {
		return fmt.Errorf("%w: nickname %q is taken", ErrConflict, nickname)
	}

	if _, err := s.db.Exec(ctx,
		`UPDATE users SET nickname = $1, updated_at = now() WHERE id = $2`,
		nickname, ident.UserID,
	); err != nil {
		return fmt.Errorf("set nickname: %w", err)
	}
	return nil
}
