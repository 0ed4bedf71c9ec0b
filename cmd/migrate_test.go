package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		expectedOutput string
	}{
		{"migrate command with help", []string{"migrate", "--help"}, "Manage database migrations"},
		{"migrate up subcommand", []string{"migrate", "up", "--help"}, "Apply all pending database migrations"},
		{"migrate status subcommand", []string{"migrate", "status", "--help"}, "Display the current status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.expectedOutput)
		})
	}
}

func TestMigrateLifecycle(t *testing.T) {
	isolate(t)

	out, err := execute(t, "migrate", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "pending")
	assert.NotContains(t, out, "\n0 pending")

	out, err = execute(t, "migrate", "up", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "would create violations")

	out, err = execute(t, "migrate", "status")
	require.NoError(t, err)
	assert.NotContains(t, out, "\n0 pending", "dry run must not create tables")

	out, err = execute(t, "migrate", "up")
	require.NoError(t, err)
	assert.Contains(t, out, "Migrations applied")

	out, err = execute(t, "migrate", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "\n0 pending")
	assert.Contains(t, out, "violations")
}

func TestMigrateAfterHelp(t *testing.T) {
	isolate(t)

	out, err := execute(t, "migrate", "status", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")

	out, err = execute(t, "migrate", "status")
	require.NoError(t, err)
	assert.NotContains(t, out, "Usage:")
	assert.Contains(t, out, "Database Migration Status")
	assert.Contains(t, out, "pending")

	_, err = execute(t, "migrate", "up", "--dry-run")
	require.NoError(t, err)
	out, err = execute(t, "migrate", "up")
	require.NoError(t, err)
	assert.Contains(t, out, "Migrations applied", "dry run does not carry over")
}

func TestMigrateCommandSubcommands(t *testing.T) {
	migrateCmd, _, err := NewRootCmd().Find([]string{"migrate"})
	require.NoError(t, err)

	var names []string
	for _, child := range migrateCmd.Commands() {
		names = append(names, child.Name())
	}
	assert.ElementsMatch(t, []string{"up", "status"}, names)
}
