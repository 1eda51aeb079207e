package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	cli, err := ParseArgs("server", []string{"--config", "c.yaml", "-d"})
	require.NoError(t, err)

	assert.Equal(t, "c.yaml", cli.ConfigFile)
	assert.True(t, cli.Debug)
	assert.False(t, cli.Version)
}

func TestParseArgsHelp(t *testing.T) {
	_, err := ParseArgs("server", []string{"-h"})
	assert.ErrorIs(t, err, pflag.ErrHelp)
}

func TestParseArgsUnknown(t *testing.T) {
	_, err := ParseArgs("server", []string{"--bogus"})
	assert.Error(t, err)
}
