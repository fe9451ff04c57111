// Package auth implements the credential and session-token lifecycle:
// registration, login, access-token refresh and logout. It owns every
// authorization decision; the HTTP layer only marshals.
package auth

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mpetrov/tasknest/internal/apperr"
	"github.com/mpetrov/tasknest/internal/gormw"
	"github.com/mpetrov/tasknest/internal/models"
	"github.com/mpetrov/tasknest/internal/password"
	"github.com/mpetrov/tasknest/internal/storage"
	"github.com/mpetrov/tasknest/internal/token"
)

var (
	logger = log.With().Str("component", "auth").Logger()
)

const (
	// Generic messages only. "User not found" and "wrong password" must be
	// indistinguishable to the caller, and so must every refresh-token
	// failure mode.
	msgBadCredentials  = "Invalid email or password"
	msgBadRefreshToken = "Invalid or expired refresh token"
)

type Config struct {
	// AccessTokenTTL is the access token lifetime in seconds.
	AccessTokenTTL int `yaml:"access_token_ttl"`

	// RefreshTokenTTL is the refresh token lifetime in seconds.
	RefreshTokenTTL int `yaml:"refresh_token_ttl"`
}

func (c *Config) applyDefaults() {
	if c.AccessTokenTTL <= 0 {
		// 15 minutes.
		c.AccessTokenTTL = 900
	}

	if c.RefreshTokenTTL <= 0 {
		// 30 days.
		c.RefreshTokenTTL = 2592000
	}
}

type Service struct {
	db    *gormw.DB
	codec *token.Codec

	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewService(cfg *Config, db *gormw.DB, codec *token.Codec) *Service {
	cfg.applyDefaults()

	return &Service{
		db:         db,
		codec:      codec,
		accessTTL:  time.Duration(cfg.AccessTokenTTL) * time.Second,
		refreshTTL: time.Duration(cfg.RefreshTokenTTL) * time.Second,
	}
}

type RegisterParams struct {
	FirstName       string
	Surname         string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register creates a new user identity. The confirmation check runs before
// any store access; the stored password is always a hash.
func (s *Service) Register(p *RegisterParams) (*models.PublicUser, *apperr.Error) {
	if p.Password != p.ConfirmPassword {
		return nil, apperr.Validation("Validation failed", map[string]string{
			"confirmPassword": "Passwords do not match",
		})
	}

	_, err := storage.GetUserByEmail(s.db, p.Email)
	if err == nil {
		return nil, apperr.Conflict("Email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error().Err(err).Msg("Database error checking email existence")
		return nil, apperr.Internal()
	}

	hashed, err := password.Hash(p.Password)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		return nil, apperr.Internal()
	}

	user := &models.User{
		FirstName:      p.FirstName,
		Surname:        p.Surname,
		Email:          p.Email,
		HashedPassword: hashed,
	}

	if err := storage.CreateUser(s.db, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the check-then-insert race against a concurrent
			// registration with the same email.
			return nil, apperr.Conflict("Email already exists")
		}
		logger.Error().Err(err).Msg("Failed to create user")
		return nil, apperr.Internal()
	}

	return user.Public(), nil
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Login verifies the credentials and issues one access token and one refresh
// token. The refresh token is persisted so it can be revoked before its
// embedded expiry.
func (s *Service) Login(email, plaintext string) (*TokenPair, *apperr.Error) {
	user, err := storage.GetUserByEmail(s.db, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized(msgBadCredentials)
		}
		logger.Error().Err(err).Msg("Database error during login")
		return nil, apperr.Internal()
	}

	if !user.CheckPassword(plaintext) {
		return nil, apperr.Unauthorized(msgBadCredentials)
	}

	accessToken, err := s.codec.Issue(user.ID, s.accessTTL)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to sign access token")
		return nil, apperr.Internal()
	}

	refreshToken, err := s.codec.Issue(user.ID, s.refreshTTL)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to sign refresh token")
		return nil, apperr.Internal()
	}

	if err := storage.AddRefreshToken(s.db, &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}); err != nil {
		logger.Error().Err(err).Msg("Failed to persist refresh token")
		return nil, apperr.Internal()
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RefreshAccessToken exchanges a valid refresh token for a new access token.
// The refresh token is deliberately not rotated: the record is left untouched
// and stays valid until logout or natural expiry.
func (s *Service) RefreshAccessToken(refreshToken string) (string, *apperr.Error) {
	if _, err := s.codec.Validate(refreshToken); err != nil {
		return "", apperr.Unauthorized(msgBadRefreshToken)
	}

	record, err := storage.GetRefreshTokenByToken(s.db, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Signature verified but no record: either the row predates a
			// wipe or the signing secret leaked.
			logger.Warn().Msg("Verified refresh token has no record")
			return "", apperr.Unauthorized(msgBadRefreshToken)
		}
		logger.Error().Err(err).Msg("Database error during token refresh")
		return "", apperr.Internal()
	}

	// The persisted expiry is authoritative and re-checked even though the
	// signed token already encodes one.
	if !record.Active(time.Now()) {
		return "", apperr.Unauthorized(msgBadRefreshToken)
	}

	accessToken, err := s.codec.Issue(record.UserID, s.accessTTL)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to sign access token")
		return "", apperr.Internal()
	}

	return accessToken, nil
}

// Logout revokes the refresh token's record. Revocation is one-way, and a
// second logout with the same token fails Unauthorized rather than silently
// succeeding.
func (s *Service) Logout(refreshToken string) *apperr.Error {
	record, err := storage.GetRefreshTokenByToken(s.db, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Unauthorized(msgBadRefreshToken)
		}
		logger.Error().Err(err).Msg("Database error during logout")
		return apperr.Internal()
	}

	if record.Revoked {
		return apperr.Unauthorized(msgBadRefreshToken)
	}

	if err := storage.RevokeRefreshToken(s.db, record); err != nil {
		logger.Error().Err(err).Msg("Failed to revoke refresh token")
		return apperr.Internal()
	}

	return nil
}
