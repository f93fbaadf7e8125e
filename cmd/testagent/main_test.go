package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("TESTAGENT_PORT", "6000")
	t.Setenv("TESTAGENT_ADDRESS", "127.0.0.1")

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"-a", "0.0.0.0", "-p", "9090", "--admin-port", "8081"}))

	cfg, err := loadConfig(cmd, flagsFrom(t, cmd))
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Address)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 8081, cfg.AdminPort)
}

func TestLoadConfigEnvWhenFlagsUnset(t *testing.T) {
	t.Setenv("TESTAGENT_PORT", "6000")

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags(nil))

	cfg, err := loadConfig(cmd, flagsFrom(t, cmd))
	require.NoError(t, err)
	assert.Equal(t, 6000, cfg.Port)
	assert.Equal(t, "localhost", cfg.Address)
}

func TestLoadConfigRejectsPort(t *testing.T) {
	for _, port := range []string{"0", "65536", "-1"} {
		t.Run(port, func(t *testing.T) {
			cmd := newRootCmd()
			require.NoError(t, cmd.ParseFlags([]string{"--port=" + port}))

			_, err := loadConfig(cmd, flagsFrom(t, cmd))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "port must be between 1 and 65535")
		})
	}
}

func TestRootCmdRejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"extra"})
	require.Error(t, cmd.Execute())
}

// flagsFrom reads the parsed flag values back off cmd.
func flagsFrom(t *testing.T, cmd *cobra.Command) flags {
	t.Helper()
	address, err := cmd.Flags().GetString("address")
	require.NoError(t, err)
	port, err := cmd.Flags().GetInt("port")
	require.NoError(t, err)
	adminPort, err := cmd.Flags().GetInt("admin-port")
	require.NoError(t, err)
	return flags{address: address, port: port, adminPort: adminPort}
}
