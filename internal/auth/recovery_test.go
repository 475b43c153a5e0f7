package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savemoney-app/savemoney/internal/common"
)

func TestResetPassword_Flow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u := &User{Email: "a@b.com", Senha: "old-pw"}
	require.NoError(t, svc.SaveUser(ctx, u))

	token, err := svc.GenerateRecoveryToken(ctx, u.ID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	ok, err := svc.ResetPassword(ctx, token, "new-pw")
	require.NoError(t, err)
	assert.True(t, ok)

	res, err := svc.Login(ctx, "a@b.com", "new-pw")
	require.NoError(t, err)
	assert.True(t, res.Success)

	res, err = svc.Login(ctx, "a@b.com", "old-pw")
	require.NoError(t, err)
	assert.False(t, res.Success)

	// the token is consumed
	ok, err = svc.ResetPassword(ctx, token, "another-pw")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u := &User{Email: "a@b.com", Senha: "pw"}
	require.NoError(t, svc.SaveUser(ctx, u))

	issued := time.Now()
	svc.now = func() time.Time { return issued }
	token, err := svc.GenerateRecoveryToken(ctx, u.ID)
	require.NoError(t, err)

	// an exactly matching token is still rejected once past its window
	svc.now = func() time.Time { return issued.Add(recoveryTokenTTL + time.Minute) }
	ok, err := svc.ResetPassword(ctx, token, "new-pw")
	require.NoError(t, err)
	assert.False(t, ok)

	// the expired entry was cleared: rewinding the clock does not revive it
	svc.now = func() time.Time { return issued }
	ok, err = svc.ResetPassword(ctx, token, "new-pw")
	require.NoError(t, err)
	assert.False(t, ok)

	res, err := svc.Login(ctx, "a@b.com", "pw")
	require.NoError(t, err)
	assert.True(t, res.Success, "password must be unchanged after rejected resets")
}

func TestResetPassword_UnknownToken(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SaveUser(ctx, &User{Email: "a@b.com", Senha: "pw"}))

	ok, err := svc.ResetPassword(ctx, "never-issued", "new-pw")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResetPassword_OrphanedEntry(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u := &User{Email: "a@b.com", Senha: "pw"}
	require.NoError(t, svc.SaveUser(ctx, u))
	token, err := svc.GenerateRecoveryToken(ctx, u.ID)
	require.NoError(t, err)

	// the account disappears between issuance and reset
	require.NoError(t, svc.DeleteUser(ctx, u.ID))

	ok, err := svc.ResetPassword(ctx, token, "new-pw")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGenerateRecoveryToken_UnknownUser(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GenerateRecoveryToken(context.Background(), "absent")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGenerateRecoveryToken_TokensAreUnique(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u := &User{Email: "a@b.com", Senha: "pw"}
	require.NoError(t, svc.SaveUser(ctx, u))

	t1, err := svc.GenerateRecoveryToken(ctx, u.ID)
	require.NoError(t, err)
	t2, err := svc.GenerateRecoveryToken(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, t1, t2)
}
