package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/savemoney-app/savemoney/internal/common"
	"github.com/savemoney-app/savemoney/internal/devicekey"
	"github.com/savemoney-app/savemoney/internal/logging"
	"github.com/savemoney-app/savemoney/internal/securestore"
)

// Logical names; the facade pseudonymizes them before they reach disk.
const (
	usersCollection = "users"
	sessionStore    = "auth"
	sessionKey      = "session"
	recoveryStore   = "recovery"
)

// MsgInvalidCredentials is the user-facing login failure message. It stays
// generic on purpose: an absent account and a wrong password are
// indistinguishable to the caller.
const MsgInvalidCredentials = "Usuário ou senha inválidos"

// Service implements account, session and recovery flows on top of the
// secure storage facade. User content is ciphertext at rest; only the record
// id and the deterministic pseudonym of the email ever reach the storage
// engine in the clear, and records are decrypted in memory only after a
// successful lookup.
type Service struct {
	keys        *devicekey.Engine
	kv          *securestore.KVStore
	collections *securestore.CollectionStore
	log         logging.Logger
	sessionTTL  time.Duration

	// now is a test seam for expiry checks.
	now func() time.Time
}

func NewService(keys *devicekey.Engine, kv *securestore.KVStore, collections *securestore.CollectionStore, log logging.Logger, sessionTTL time.Duration) *Service {
	return &Service{
		keys:        keys,
		kv:          kv,
		collections: collections,
		log:         log,
		sessionTTL:  sessionTTL,
		now:         time.Now,
	}
}

// emailSecret is the uniqueness token for an email: a deterministic
// pseudonym over the normalized address.
func (s *Service) emailSecret(ctx context.Context, email string) (string, error) {
	return s.keys.DeriveKey(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// SaveUser registers or overwrites an account. Uniqueness is enforced over
// the encrypted email: if a different record already owns the email's
// pseudonym, nothing is written and common.ErrDuplicateEmail is returned.
func (s *Service) SaveUser(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	secret, err := s.emailSecret(ctx, u.Email)
	if err != nil {
		return err
	}
	owner, err := s.collections.FindByIndex(ctx, usersCollection, secret)
	if err != nil {
		return err
	}
	if owner != nil && owner.ID != u.ID {
		return common.ErrDuplicateEmail
	}
	if u.Senha != "" {
		u.setPassword(u.Senha)
	}
	return s.collections.Save(ctx, usersCollection, securestore.Record{
		ID:          u.ID,
		IndexSecret: secret,
		Payload:     u,
	})
}

// GetUser looks an account up by email via the secondary index. A missing
// account returns (nil, nil).
func (s *Service) GetUser(ctx context.Context, email string) (*User, error) {
	secret, err := s.emailSecret(ctx, email)
	if err != nil {
		return nil, err
	}
	rec, err := s.collections.FindByIndex(ctx, usersCollection, secret)
	if err != nil || rec == nil {
		return nil, err
	}
	var u User
	if err := rec.Open(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByID reads an account by primary key. A missing id returns (nil, nil).
func (s *Service) GetUserByID(ctx context.Context, id string) (*User, error) {
	rec, err := s.collections.Get(ctx, usersCollection, id)
	if err != nil || rec == nil {
		return nil, err
	}
	var u User
	if err := rec.Open(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser re-derives the email pseudonym and upserts the record. If a
// different record already owns the (possibly changed) email, the update is
// redirected to that record's id — merge-by-email keeps the uniqueness
// invariant across email changes — and the original record is removed so the
// old address no longer resolves. When the caller did not supply a new
// password, the stored credential is carried over.
func (s *Service) UpdateUser(ctx context.Context, u *User) error {
	secret, err := s.emailSecret(ctx, u.Email)
	if err != nil {
		return err
	}
	owner, err := s.collections.FindByIndex(ctx, usersCollection, secret)
	if err != nil {
		return err
	}
	if owner != nil && owner.ID != u.ID {
		if u.ID != "" {
			if err := s.collections.Delete(ctx, usersCollection, u.ID); err != nil {
				return err
			}
		}
		u.ID = owner.ID
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	if u.Senha != "" {
		u.setPassword(u.Senha)
	} else if u.PasswordHash == "" {
		current, err := s.GetUserByID(ctx, u.ID)
		if err != nil {
			return err
		}
		if current != nil {
			u.PasswordHash = current.PasswordHash
			u.PasswordSalt = current.PasswordSalt
		}
	}

	return s.collections.Save(ctx, usersCollection, securestore.Record{
		ID:          u.ID,
		IndexSecret: secret,
		Payload:     u,
	})
}

// DeleteUser removes an account by primary key.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.collections.Delete(ctx, usersCollection, id)
}

// Login verifies credentials and, on success, persists a fresh Session via
// the key-value path. Failures that are the user's fault come back as a
// LoginResult with the generic message; storage and crypto failures are
// returned as errors.
func (s *Service) Login(ctx context.Context, email, senha string) (LoginResult, error) {
	u, err := s.GetUser(ctx, email)
	if err != nil {
		return LoginResult{}, err
	}
	if u == nil || !u.verifyPassword(senha) {
		return LoginResult{Success: false, Message: MsgInvalidCredentials}, nil
	}

	token, err := s.mintSessionToken(ctx, u.ID)
	if err != nil {
		return LoginResult{}, err
	}
	sess := Session{
		User:  SessionUser{ID: u.ID, Nome: u.Nome, Email: u.Email},
		Token: token,
	}
	if err := s.kv.SetItem(ctx, sessionStore, sessionKey, sess); err != nil {
		return LoginResult{}, err
	}
	s.log.Info(ctx, "user logged in", "user_id", u.ID)
	return LoginResult{Success: true}, nil
}

// Logout destroys the persisted session. Logging out while logged out is a
// no-op.
func (s *Service) Logout(ctx context.Context) error {
	return s.kv.RemoveItem(ctx, sessionStore, sessionKey)
}

// GetLoggedUser returns the session user, or nil when unauthenticated. An
// unreadable or unverifiable session entry is cleared and treated as logged
// out rather than surfaced: the only recovery is logging in again.
func (s *Service) GetLoggedUser(ctx context.Context) (*SessionUser, error) {
	var sess Session
	ok, err := s.kv.GetItem(ctx, sessionStore, sessionKey, &sess)
	if err != nil {
		if errors.Is(err, common.ErrDecryption) {
			_ = s.kv.RemoveItem(ctx, sessionStore, sessionKey)
			return nil, nil
		}
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	if _, err := s.verifySessionToken(ctx, sess.Token); err != nil {
		_ = s.kv.RemoveItem(ctx, sessionStore, sessionKey)
		return nil, nil
	}
	return &sess.User, nil
}

// IsAuthenticated reports whether a valid session exists.
func (s *Service) IsAuthenticated(ctx context.Context) (bool, error) {
	u, err := s.GetLoggedUser(ctx)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}
