package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	opts, flags, err := parseFlags([]string{"--migrate", "--dir", "/srv/data", "--config", "/etc/credit"})
	require.NoError(t, err)

	assert.True(t, opts.migrate)
	assert.Equal(t, "/etc/credit", opts.configPath)
	dir, err := flags.GetString("dir")
	require.NoError(t, err)
	assert.Equal(t, "/srv/data", dir)
}

func TestParseFlagsDefaults(t *testing.T) {
	opts, _, err := parseFlags(nil)
	require.NoError(t, err)

	assert.False(t, opts.migrate)
	assert.Equal(t, ".", opts.configPath)
}

func TestParseFlagsRejectsUnknown(t *testing.T) {
	_, _, err := parseFlags([]string{"--bogus"})
	assert.Error(t, err)
}

func TestBindOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)

	_, flags, err := parseFlags([]string{"--loan-file", "loans_2024.xlsx"})
	require.NoError(t, err)
	require.NoError(t, bindOverrides(flags))

	assert.Equal(t, "loans_2024.xlsx", viper.GetString("ingestion.loanFile"))
}
