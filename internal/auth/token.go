package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every reason a token fails verification: bad
// signature, wrong algorithm, malformed input, bad subject and expiry.
var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer signs and verifies access tokens with a process-wide HMAC secret.
type TokenIssuer struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
}

// NewTokenIssuer validates the secret and algorithm. Only the HMAC family
// (HS256, HS384, HS512) is accepted.
func NewTokenIssuer(secret, algorithm string) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &TokenIssuer{
		secret: []byte(secret),
		method: method,
		now:    time.Now,
	}, nil
}

// Issue returns a token for subjectID that expires ttl from now.
func (t *TokenIssuer) Issue(subjectID int64, ttl time.Duration) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(subjectID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token, err := jwt.NewWithClaims(t.method, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks signature, algorithm and expiry and returns the subject id.
func (t *TokenIssuer) Verify(token string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{t.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return 0, ErrInvalidToken
	}

	subject, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: subject %q", ErrInvalidToken, claims.Subject)
	}
	return subject, nil
}
