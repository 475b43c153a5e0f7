package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs_SeparateValue(t *testing.T) {
	args := []string{"-d", "/tmp/data", "-x", "other", "-k", "file"}
	got := FilterArgs(args, []string{"-d", "-k"})
	assert.Equal(t, []string{"-d", "/tmp/data", "-k", "file"}, got)
}

func TestFilterArgs_EqualsForm(t *testing.T) {
	args := []string{"--config=conf.json", "--other=no"}
	got := FilterArgs(args, []string{"--config"})
	assert.Equal(t, []string{"--config=conf.json"}, got)
}

func TestFilterArgs_FlagFollowedByFlag(t *testing.T) {
	// the value slot is another flag; it must not be swallowed
	args := []string{"-d", "-k", "file"}
	got := FilterArgs(args, []string{"-d", "-k"})
	assert.Equal(t, []string{"-d", "-k", "file"}, got)
}

func TestFilterArgs_Empty(t *testing.T) {
	got := FilterArgs(nil, []string{"-d"})
	assert.Empty(t, got)
}
