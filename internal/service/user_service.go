package service

import (
	"context"
	"errors"
	"fmt"

	"account-api/internal/auth"
	"account-api/internal/domain"
	"account-api/internal/repository"
)

// MaxListLimit bounds a single ListUsers page.
const MaxListLimit = 100

// ErrInvalidInput indicates the caller supplied values that cannot be stored.
var ErrInvalidInput = errors.New("invalid input")

// NewUser carries the fields required to register an account.
type NewUser struct {
	Username string
	Email    string
	Password string
}

// UserUpdate is a partial update. Nil fields are left unchanged; Password is
// plaintext and gets hashed before it reaches the store.
type UserUpdate struct {
	Username *string
	Email    *string
	Password *string
}

// UserService describes user lifecycle operations.
type UserService interface {
	CreateUser(ctx context.Context, input NewUser) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, offset, limit int) ([]domain.User, error)
	UpdateUser(ctx context.Context, id int64, update UserUpdate) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)
}

type userService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
}

func NewUserService(users repository.UserRepository, hasher auth.PasswordHasher) UserService {
	return &userService{
		users:  users,
		hasher: hasher,
	}
}

func (s *userService) CreateUser(ctx context.Context, input NewUser) (*domain.User, error) {
	if err := requireField("username", &input.Username); err != nil {
		return nil, err
	}
	if err := requireField("email", &input.Email); err != nil {
		return nil, err
	}
	hash, err := s.hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.GetByUsername(ctx, username)
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.GetByEmail(ctx, email)
}

func (s *userService) ListUsers(ctx context.Context, offset, limit int) ([]domain.User, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.users.List(ctx, offset, limit)
}

// UpdateUser returns (nil, nil) when no user has the given id.
func (s *userService) UpdateUser(ctx context.Context, id int64, update UserUpdate) (*domain.User, error) {
	if err := requireField("username", update.Username); err != nil {
		return nil, err
	}
	if err := requireField("email", update.Email); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil || user == nil {
		return nil, err
	}

	changes := domain.UserChanges{
		Username: update.Username,
		Email:    update.Email,
	}
	if update.Password != nil {
		hash, err := s.hashPassword(*update.Password)
		if err != nil {
			return nil, err
		}
		changes.PasswordHash = &hash
	}
	if changes.Empty() {
		return user, nil
	}

	updated, err := s.users.Update(ctx, user, changes)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return updated, nil
}

// DeleteUser reports false when no user has the given id.
func (s *userService) DeleteUser(ctx context.Context, id int64) (bool, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil || user == nil {
		return false, err
	}
	if err := s.users.Delete(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *userService) hashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return hash, nil
}

// requireField rejects a present but empty value. A nil pointer is allowed.
func requireField(name string, value *string) error {
	if value != nil && *value == "" {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidInput, name)
	}
	return nil
}
