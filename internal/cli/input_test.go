package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPassword(t *testing.T) {
	orig := readPassword
	defer func() { readPassword = orig }()
	readPassword = func(fd int) ([]byte, error) {
		return []byte("s3cret"), nil
	}

	var buf bytes.Buffer
	pw, err := GetPassword(&buf, "Senha")
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), pw)
	assert.Equal(t, "Senha: \n", buf.String())
}

func TestGetPassword_ReadError(t *testing.T) {
	orig := readPassword
	defer func() { readPassword = orig }()
	readPassword = func(fd int) ([]byte, error) {
		return nil, errors.New("no tty")
	}

	var buf bytes.Buffer
	_, err := GetPassword(&buf, "Senha")
	assert.Error(t, err)
}
