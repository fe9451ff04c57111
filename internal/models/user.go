package models

import (
	"gorm.io/gorm"

	"github.com/mpetrov/tasknest/internal/password"
)

type User struct {
	gorm.Model
	FirstName      string
	Surname        string
	Email          string `gorm:"uniqueIndex"`
	HashedPassword string
}

func (u *User) CheckPassword(plaintext string) bool {
	return password.Verify(plaintext, u.HashedPassword)
}

// PublicUser is the projection of a User safe to return to clients.
// It never carries the password hash.
type PublicUser struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	Surname   string `json:"surname"`
	Email     string `json:"email"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		Surname:   u.Surname,
		Email:     u.Email,
	}
}
