package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCommand(t *testing.T) {
	t.Run("help", func(t *testing.T) {
		out, err := execute(t, "serve", "--help")
		require.NoError(t, err)
		assert.Contains(t, out, "Start the MineWatch API server")
	})

	t.Run("invalid port", func(t *testing.T) {
		_, err := execute(t, "serve", "--port", "invalid")
		assert.Error(t, err)
	})

	t.Run("starts and stops when the context ends", func(t *testing.T) {
		isolate(t)
		ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
		defer cancel()

		// subcommands keep the context of their first run
		serveCmd.SetContext(ctx)
		t.Cleanup(func() { serveCmd.SetContext(context.Background()) })

		_, err := execute(t, "serve", "--host", "127.0.0.1", "--port", "0")
		assert.NoError(t, err)
	})
}

func TestServeCommandFlags(t *testing.T) {
	serveCmd, _, err := NewRootCmd().Find([]string{"serve"})
	require.NoError(t, err)

	assert.NotNil(t, serveCmd.Flags().Lookup("port"))
	assert.NotNil(t, serveCmd.Flags().Lookup("host"))
}

func TestBuildInfo(t *testing.T) {
	info := buildInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, GitCommit, info.GitCommit)
	assert.NotEmpty(t, info.GoVersion)
}
