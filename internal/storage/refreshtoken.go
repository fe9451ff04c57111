package storage

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/mpetrov/tasknest/internal/gormw"
	"github.com/mpetrov/tasknest/internal/models"
)

var (
	logger = log.With().Str("component", "storage").Logger()
)

func AddRefreshToken(db *gormw.DB, refreshToken *models.RefreshToken) error {
	return db.Create(refreshToken).Error
}

func GetRefreshTokenByToken(db *gormw.DB, token string) (*models.RefreshToken, error) {
	o := &models.RefreshToken{}
	err := db.Where("token = ?", token).First(&o).Error
	return o, err
}

// RevokeRefreshToken flips the record to revoked. Revoking an already-revoked
// record is a no-op; there is no way back.
func RevokeRefreshToken(db *gormw.DB, refreshToken *models.RefreshToken) error {
	return db.Model(refreshToken).Update("revoked", true).Error
}

// Refresh tokens will exist in database forever if not register a cleaner.
// Only rows at least a day past their expiry are deleted, so the cleaner can
// never race the expiry check in the auth service.
func RegisterRefreshTokensCleaner(scheduler gocron.Scheduler, db *gormw.DB) {
	_, _ = scheduler.NewJob(
		gocron.CronJob(
			// 4am Daily
			"0 4 * * *",
			false,
		),
		gocron.NewTask(
			func() {
				logger.Info().Msg("Cleaning up expired refresh tokens")
				yesterday := time.Now().AddDate(0, 0, -1)
				db.Where("expires_at < ?", yesterday).Delete(&models.RefreshToken{})
			},
		),
	)
}
