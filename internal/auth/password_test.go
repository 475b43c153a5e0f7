package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetPassword_BlanksPlaintext(t *testing.T) {
	u := &User{Senha: "Abc12345!"}
	u.setPassword(u.Senha)

	assert.Empty(t, u.Senha)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEmpty(t, u.PasswordSalt)
}

func TestVerifyPassword(t *testing.T) {
	u := &User{}
	u.setPassword("Abc12345!")

	assert.True(t, u.verifyPassword("Abc12345!"))
	assert.False(t, u.verifyPassword("abc12345!"))
	assert.False(t, u.verifyPassword(""))
}

func TestVerifyPassword_NoCredential(t *testing.T) {
	u := &User{}
	assert.False(t, u.verifyPassword("anything"))
}

func TestSetPassword_SaltsDiffer(t *testing.T) {
	u1 := &User{}
	u1.setPassword("same")
	u2 := &User{}
	u2.setPassword("same")

	assert.NotEqual(t, u1.PasswordSalt, u2.PasswordSalt)
	assert.NotEqual(t, u1.PasswordHash, u2.PasswordHash)
}
