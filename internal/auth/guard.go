package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"account-api/internal/domain"
)

var (
	// ErrUnauthenticated means the request carried no usable token.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means the token is valid but belongs to another user.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials is returned for any login failure. Unknown users
	// and wrong passwords are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("incorrect username or password")
)

// UserFinder looks up login candidates. A miss is (nil, nil).
type UserFinder interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Guard resolves bearer tokens to subjects and enforces ownership.
type Guard struct {
	users    UserFinder
	hasher   PasswordHasher
	tokens   *TokenIssuer
	tokenTTL time.Duration

	// compared against when the username is unknown so both failure paths
	// pay for one hash comparison
	decoyDigest string
}

func NewGuard(users UserFinder, hasher PasswordHasher, tokens *TokenIssuer, tokenTTL time.Duration) (*Guard, error) {
	decoy, err := hasher.Hash("decoy-password")
	if err != nil {
		return nil, fmt.Errorf("prepare decoy digest: %w", err)
	}
	return &Guard{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		tokenTTL:    tokenTTL,
		decoyDigest: decoy,
	}, nil
}

// Authenticate returns the subject id embedded in token.
func (g *Guard) Authenticate(token string) (int64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, ErrUnauthenticated
	}
	subject, err := g.tokens.Verify(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	return subject, nil
}

// Authorize allows a caller to act only on their own record.
func (g *Guard) Authorize(subjectID, targetID int64) error {
	if subjectID != targetID {
		return ErrForbidden
	}
	return nil
}

// Login checks the credential pair and issues an access token.
func (g *Guard) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := g.users.GetByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		g.hasher.Verify(password, g.decoyDigest)
		return "", ErrInvalidCredentials
	}
	if !g.hasher.Verify(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := g.tokens.Issue(user.ID, g.tokenTTL)
	if err != nil {
		return "", err
	}
	return token, nil
}
