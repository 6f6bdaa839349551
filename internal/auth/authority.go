package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/satriastudio/studio-be/internal/logging"
	"github.com/satriastudio/studio-be/internal/storage"
)

// Authority turns credentials into session tokens.
type Authority struct {
	admins    storage.AdminStore
	tokens    *TokenManager
	dummyHash string
}

// NewAuthority builds an Authority. cost is the bcrypt cost used for the
// dummy hash compared against when a username does not exist, so that both
// failure paths spend the same time.
func NewAuthority(admins storage.AdminStore, tokens *TokenManager, cost int) (*Authority, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("generate dummy password: %w", err)
	}
	dummy, err := HashPassword(hex.EncodeToString(b[:]), cost)
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}
	return &Authority{admins: admins, tokens: tokens, dummyHash: dummy}, nil
}

// IssueToken verifies username and password and returns a signed token.
func (a *Authority) IssueToken(ctx context.Context, username, password string) (Token, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Token{}, ErrValidation
	}
	log := logging.Logger.WithField("username", username)

	admin, err := a.admins.FindAdminByUsername(ctx, username)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		CheckPassword(password, a.dummyHash)
		log.WithField("reason", "unknown_user").Warn("admin login rejected")
		return Token{}, ErrInvalidCredentials
	case err != nil:
		log.WithError(err).Error("admin lookup failed")
		return Token{}, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	if !CheckPassword(password, admin.PasswordHash) {
		log.WithField("reason", "bad_password").Warn("admin login rejected")
		return Token{}, ErrInvalidCredentials
	}

	token, err := a.tokens.Issue(admin)
	if err != nil {
		return Token{}, err
	}
	log.WithFields(logrus.Fields{"admin_id": admin.ID, "expires_at": token.ExpiresAt}).Info("admin login succeeded")
	return token, nil
}
