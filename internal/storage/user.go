package storage

import (
	"github.com/mpetrov/tasknest/internal/gormw"
	"github.com/mpetrov/tasknest/internal/models"
)

func GetUserByEmail(db *gormw.DB, email string) (*models.User, error) {
	user := &models.User{}
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func GetUserByID(db *gormw.DB, id uint) (*models.User, error) {
	user := &models.User{}
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser inserts the user. The unique index on email makes the losing side
// of two concurrent registrations fail with gorm.ErrDuplicatedKey.
func CreateUser(db *gormw.DB, user *models.User) error {
	return db.Create(user).Error
}
