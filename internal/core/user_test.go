package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_GetByID_Success(t *testing.T) {
	db := &mockDB{}
	svc := NewUserService(db)
	ctx := context.Background()

	now := time.Now()
	name := "Min-ji"
	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(&mockRow{scanFunc: func(dest ...any) error {
			*(dest[0].(*string)) = "user-1"
			*(dest[1].(*string)) = "minji@example.com"
			*(dest[2].(**string)) = &name
			*(dest[3].(**string)) = nil
			*(dest[4].(*time.Time)) = now
			*(dest[5].(*time.Time)) = now
			return nil
		}})

	u, err := svc.GetByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "minji@example.com", u.Email)
	require.NotNil(t, u.Name)
	assert.Equal(t, "Min-ji", *u.Name)
	assert.Nil(t, u.Nickname)
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	db := &mockDB{}
	svc := NewUserService(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(&mockRow{scanFunc: func(dest ...any) error { return pgx.ErrNoRows }})

	_, err := svc.GetByID(ctx, "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_SetNickname_Success(t *testing.T) {
	db := &mockDB{}
	svc := NewUserService(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(&mockRow{scanFunc: func(dest ...any) error { return pgx.ErrNoRows }})
	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).Return(pgconn.CommandTag{}, nil)

	err := svc.SetNickname(ctx, author(), "  night-owl  ")
	require.NoError(t, err)
	db.AssertExpectations(t)
}

func TestUserService_SetNickname_Empty(t *testing.T) {
	svc := NewUserService(&mockDB{})

	err := svc.SetNickname(context.Background(), author(), "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUserService_SetNickname_Taken(t *testing.T) {
	db := &mockDB{}
	svc := NewUserService(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(&mockRow{scanFunc: func(dest ...any) error {
			*(dest[0].(*string)) = "someone-else"
			return nil
		}})

	err := svc.SetNickname(ctx, author(), "night-owl")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	db.AssertNotCalled(t, "Exec", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_SetNickname_AlreadyOwn(t *testing.T) {
	db := &mockDB{}
	svc := NewUserService(db)
	ctx := context.Background()

	// Re-claiming your own nickname is a no-op update, not a conflict.
	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(&mockRow{scanFunc: func(dest ...any) error {
			*(dest[0].(*string)) = "user-1"
			return nil
		}})
	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).Return(pgconn.CommandTag{}, nil)

	err := svc.SetNickname(ctx, author(), "night-owl")
	require.NoError(t, err)
}

func TestUserService_SetNickname_CheckError(t *testing.T) {
	db := &mockDB{}
	svc := NewUserService(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(&mockRow{scanFunc: func(dest ...any) error { return errors.New("connection lost") }})

	err := svc.SetNickname(ctx, author(), "night-owl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check nickname")
}
