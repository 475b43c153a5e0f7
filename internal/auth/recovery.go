package auth

import (
	"context"
	"errors"
	"time"

	"github.com/savemoney-app/savemoney/internal/common"
	"github.com/savemoney-app/savemoney/internal/securestore"
)

// recoveryTokenTTL is the fixed validity window from issuance.
const recoveryTokenTTL = time.Hour

// recoveryEntry is the single source of truth for an outstanding reset
// token, stored encrypted in the key-value path under the token itself
// (pseudonymized by the facade).
type recoveryEntry struct {
	UserID  string    `json:"user_id"`
	Expires time.Time `json:"expires"`
}

// GenerateRecoveryToken issues a random opaque token valid for one hour and
// returns it for out-of-band delivery. The token is never embedded in the
// user record; validation always goes through the stored entry.
func (s *Service) GenerateRecoveryToken(ctx context.Context, userID string) (string, error) {
	u, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", common.ErrNotFound
	}

	token, err := common.MakeRandHexString(32)
	if err != nil {
		return "", err
	}
	entry := recoveryEntry{UserID: userID, Expires: s.now().Add(recoveryTokenTTL)}
	if err := s.kv.SetItem(ctx, recoveryStore, token, entry); err != nil {
		return "", err
	}
	s.log.Info(ctx, "recovery token issued", "user_id", userID)
	return token, nil
}

// ResetPassword validates the token fail-closed and, when valid, rehashes
// the password and consumes the token. Any ambiguity — missing, expired,
// unreadable, or orphaned entry — rejects the reset; expired and orphaned
// entries are cleared on sight. Validation failures come back as
// (false, nil) with no further detail; storage failures as errors.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) (bool, error) {
	var entry recoveryEntry
	ok, err := s.kv.GetItem(ctx, recoveryStore, token, &entry)
	if err != nil {
		if errors.Is(err, common.ErrDecryption) {
			_ = s.kv.RemoveItem(ctx, recoveryStore, token)
			return false, nil
		}
		return false, err
	}
	if !ok {
		return false, nil
	}
	if !s.now().Before(entry.Expires) {
		_ = s.kv.RemoveItem(ctx, recoveryStore, token)
		return false, nil
	}

	u, err := s.GetUserByID(ctx, entry.UserID)
	if err != nil {
		return false, err
	}
	if u == nil {
		_ = s.kv.RemoveItem(ctx, recoveryStore, token)
		return false, nil
	}

	u.setPassword(newPassword)
	secret, err := s.emailSecret(ctx, u.Email)
	if err != nil {
		return false, err
	}
	if err := s.collections.Save(ctx, usersCollection, securestore.Record{
		ID:          u.ID,
		IndexSecret: secret,
		Payload:     u,
	}); err != nil {
		return false, err
	}
	if err := s.kv.RemoveItem(ctx, recoveryStore, token); err != nil {
		return false, err
	}
	s.log.Info(ctx, "password reset", "user_id", u.ID)
	return true, nil
}
