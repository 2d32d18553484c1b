package repository

import (
	"context"

	"account-api/internal/domain"
)

// UserRepository defines persistence operations for User entities.
//
// Lookups return (nil, nil) when no row matches.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User, changes domain.UserChanges) (*domain.User, error)
	Delete(ctx context.Context, user *domain.User) error
}

// Assignment is one column written by a partial update.
type Assignment struct {
	Column string
	Value  any
}

// UserAssignments lists the columns set in changes. Unset fields are left out
// so an update never rewrites a column the caller did not touch.
func UserAssignments(changes domain.UserChanges) []Assignment {
	var out []Assignment
	if changes.Username != nil {
		out = append(out, Assignment{Column: "username", Value: *changes.Username})
	}
	if changes.Email != nil {
		out = append(out, Assignment{Column: "email", Value: *changes.Email})
	}
	if changes.PasswordHash != nil {
		out = append(out, Assignment{Column: "password_hash", Value: *changes.PasswordHash})
	}
	return out
}
