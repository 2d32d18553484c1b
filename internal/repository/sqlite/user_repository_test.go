package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account-api/internal/domain"
	"account-api/internal/repository"
)

func setupRepo(t *testing.T) repository.UserRepository {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "accounts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewUserRepository(db)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func createUser(t *testing.T, repo repository.UserRepository, username, email string) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, Email: email, PasswordHash: "hash-" + username}
	_, err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	return user
}

func strPtr(s string) *string { return &s }

func TestCreate_AssignsIDAndTimestamps(t *testing.T) {
	repo := setupRepo(t)

	user := createUser(t, repo, "alice", "alice@x.com")
	assert.Positive(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)

	got, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "alice@x.com", got.Email)
	assert.Equal(t, "hash-alice", got.PasswordHash)
}

func TestCreate_DuplicateUsernameOrEmailConflicts(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	createUser(t, repo, "alice", "alice@x.com")

	cases := []struct {
		name     string
		username string
		email    string
	}{
		{name: "username", username: "alice", email: "other@x.com"},
		{name: "email", username: "bob", email: "alice@x.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.Create(ctx, &domain.User{Username: tc.username, Email: tc.email, PasswordHash: "h"})
			require.ErrorIs(t, err, repository.ErrConflict)
		})
	}

	users, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestLookups_MissReturnsNilNil(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	byID, err := repo.GetByID(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, byID)

	byName, err := repo.GetByUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, byName)

	byEmail, err := repo.GetByEmail(ctx, "ghost@x.com")
	require.NoError(t, err)
	assert.Nil(t, byEmail)
}

func TestLookups_ByUsernameAndEmail(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	alice := createUser(t, repo, "alice", "alice@x.com")

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, alice.ID, byName.ID)

	byEmail, err := repo.GetByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, alice.ID, byEmail.ID)
}

func TestList_OrderedByIDWithPaging(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c", "d"} {
		createUser(t, repo, name, name+"@x.com")
	}

	page, err := repo.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "b", page[0].Username)
	assert.Equal(t, "c", page[1].Username)
	assert.Less(t, page[0].ID, page[1].ID)

	tail, err := repo.List(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, tail)
}

func TestUpdate_AppliesOnlySetFields(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	alice := createUser(t, repo, "alice", "alice@x.com")

	updated, err := repo.Update(ctx, alice, domain.UserChanges{Email: strPtr("new@x.com")})
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.Username)
	assert.Equal(t, "new@x.com", updated.Email)
	assert.Equal(t, "hash-alice", updated.PasswordHash)

	got, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", got.Email)
	assert.Equal(t, "alice", got.Username)
}

func TestUpdate_ConflictLeavesRowUntouched(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	createUser(t, repo, "alice", "alice@x.com")
	bob := createUser(t, repo, "bob", "bob@x.com")

	_, err := repo.Update(ctx, bob, domain.UserChanges{Username: strPtr("alice")})
	require.ErrorIs(t, err, repository.ErrConflict)
	assert.Equal(t, "bob", bob.Username)

	got, err := repo.GetByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Username)
}

func TestUpdate_StaleReadKeepsOtherColumns(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	alice := createUser(t, repo, "alice", "alice@x.com")

	first, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)

	_, err = repo.Update(ctx, first, domain.UserChanges{Email: strPtr("new@x.com")})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, second, domain.UserChanges{PasswordHash: strPtr("rotated")})
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", updated.Email)
	assert.Equal(t, "rotated", updated.PasswordHash)

	got, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", got.Email)
	assert.Equal(t, "rotated", got.PasswordHash)
	assert.Equal(t, "alice", got.Username)
}

func TestUpdate_MissingRowIsNotFound(t *testing.T) {
	repo := setupRepo(t)
	ghost := &domain.User{ID: 99, Username: "ghost", Email: "ghost@x.com"}

	_, err := repo.Update(context.Background(), ghost, domain.UserChanges{Email: strPtr("g@x.com")})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDelete_RemovesRowAndSecondDeleteIsNotFound(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	alice := createUser(t, repo, "alice", "alice@x.com")

	require.NoError(t, repo.Delete(ctx, alice))

	got, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	err = repo.Delete(ctx, alice)
	assert.True(t, errors.Is(err, repository.ErrNotFound), "got %v", err)
}

func TestIsUniqueViolation_FallsBackToMessage(t *testing.T) {
	assert.True(t, isUniqueViolation(errors.New("UNIQUE constraint failed: users.email")))
	assert.False(t, isUniqueViolation(errors.New("disk I/O error")))
	assert.False(t, isUniqueViolation(nil))
}
