package main

import (
	"testing"

	"github.com/jonathan/monotributo-historico/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestCheckDate(t *testing.T) {
	assert.NoError(t, checkDate("start", "2025-08-01"))
	err := checkDate("start", "01/08/2025")
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "--start must be a YYYY-MM-DD date")
	}
}

func TestDetectStart(t *testing.T) {
	unpinned := &config.Config{}
	pinned := &config.Config{CurrentStartPinned: true}

	assert.True(t, detectStart("", unpinned))
	assert.False(t, detectStart("2025-08-01", unpinned))
	assert.False(t, detectStart("", pinned))
}

func TestCheckYearMonth(t *testing.T) {
	assert.NoError(t, checkYearMonth("ipc-base", "2010-01"))
	assert.Error(t, checkYearMonth("ipc-base", "2010-13"))
	assert.Error(t, checkYearMonth("ipc-base", "2010-01-01"))
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, "flag", orDefault("flag", "config"))
	assert.Equal(t, "config", orDefault("", "config"))
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"scrape-current", "scrape-history", "analyze", "validate", "sync-db"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestAnalyzeCommand_FlagDefaults(t *testing.T) {
	assert.Equal(t, "servicios", analyzeCmd.Flags().Lookup("tipo").DefValue)
	assert.Equal(t, "", analyzeCmd.Flags().Lookup("ipc-base").DefValue)
	assert.Equal(t, "total", analyzeCmd.Flags().Lookup("componente").DefValue)
	assert.Equal(t, "false", analyzeCmd.Flags().Lookup("strict-ipc").DefValue)
}
