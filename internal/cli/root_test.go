package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootFlagDefaults(t *testing.T) {
	flags := rootCmd.Flags()

	cases := map[string]string{
		"url":           "http://127.0.0.1:30000",
		"model":         "Qwen/Qwen2.5-1.5B-Instruct",
		"backend":       "openai",
		"workers":       "8",
		"requests":      "50",
		"prompt-tokens": "50",
		"max-tokens":    "100",
		"stream":        "false",
	}
	for name, want := range cases {
		f := flags.Lookup(name)
		require.NotNil(t, f, "flag %q not registered", name)
		assert.Equal(t, want, f.DefValue, "flag %q default", name)
	}
}

func TestHistoryCommandRegistered(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"history"})
	require.NoError(t, err)
	assert.Equal(t, "history", cmd.Name())
	require.NotNil(t, cmd.Flags().Lookup("db"))
}
