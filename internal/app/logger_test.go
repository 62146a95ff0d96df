package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigureLoggingDefaultsToInfo(t *testing.T) {
	require.NoError(t, ConfigureLogging(""))
	require.NoError(t, ConfigureLogging("  "))
	require.NoError(t, ConfigureLogging("debug"))
}
