package models

import "time"

type RefreshToken struct {
	ID        uint   `gorm:"primarykey"`
	UserID    uint   `gorm:"index"` // with index, easy to find all refresh tokens a user has
	Token     string `gorm:"uniqueIndex"`
	Revoked   bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Active reports whether the record may still be exchanged for access tokens.
// Revocation is one-way: a revoked record never becomes active again.
func (t *RefreshToken) Active(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
