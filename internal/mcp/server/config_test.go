package server

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMCP_Server_Config_Validate(t *testing.T) {
	t.Parallel()

	t.Run("requires a logger", func(t *testing.T) {
		t.Parallel()
		cfg := Config{DefaultDatasetRoot: "/data"}
		require.Error(t, cfg.Validate())
	})

	t.Run("requires a default dataset root", func(t *testing.T) {
		t.Parallel()
		cfg := Config{Logger: testLogger(t)}
		require.Error(t, cfg.Validate())
	})

	t.Run("applies timeout defaults", func(t *testing.T) {
		t.Parallel()
		cfg := Config{Logger: testLogger(t), DefaultDatasetRoot: "/data"}
		require.NoError(t, cfg.Validate())
		require.Equal(t, defaultReadHeaderTimeout, cfg.ReadHeaderTimeout)
		require.Equal(t, defaultShutdownTimeout, cfg.ShutdownTimeout)
	})
}
