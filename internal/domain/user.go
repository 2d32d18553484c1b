package domain

import "time"

// User represents a registered account.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserChanges is a partial update applied by the store. A nil field is left
// untouched; PasswordHash must already be hashed.
type UserChanges struct {
	Username     *string
	Email        *string
	PasswordHash *string
}

// Empty reports whether no field is set.
func (c UserChanges) Empty() bool {
	return c.Username == nil && c.Email == nil && c.PasswordHash == nil
}
