package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	expected := []string{
		"init", "lock", "check", "install",
		"add", "remove", "clean", "run", "activate",
	}
	for _, name := range expected {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "dev", root.Version)
}

func TestRootPersistentFlags(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"directory", "log-level", "verbose"} {
		require.NotNil(t, root.PersistentFlags().Lookup(name), "missing persistent flag: %s", name)
	}
	assert.Equal(t, ".", root.PersistentFlags().Lookup("directory").DefValue)
}

func TestInitCommandFlags(t *testing.T) {
	cmd := newInitCommand()
	for _, name := range []string{"name", "channel", "platforms", "conda-configs", "no-lock", "install"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestLockCommandFlags(t *testing.T) {
	cmd := newLockCommand()
	require.NotNil(t, cmd.Flags().Lookup("force"))
	assert.Equal(t, "false", cmd.Flags().Lookup("force").DefValue)
}

func TestInstallCommandFlags(t *testing.T) {
	cmd := newInstallCommand()
	for _, name := range []string{"all", "force", "as-platform"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestAddCommandFlags(t *testing.T) {
	cmd := newAddCommand()
	assert.NotNil(t, cmd.Flags().Lookup("environment"))
	assert.NotNil(t, cmd.Flags().Lookup("channel"))
}

func TestRemoveCommandRequiresArgs(t *testing.T) {
	cmd := newRemoveCommand()
	err := cmd.Args(cmd, nil)
	assert.Error(t, err)
}

func TestRunCommandKeepsTrailingArgs(t *testing.T) {
	cmd := newRunCommand()
	assert.False(t, cmd.Flags().ArgsLenAtDash() > 0)
	require.NoError(t, cmd.Flags().Parse([]string{"pytest", "--environment", "test"}))
	// --environment after the command name is passed through untouched.
	assert.Equal(t, []string{"pytest", "--environment", "test"}, cmd.Flags().Args())
}

func TestSplitEnvsPath(t *testing.T) {
	assert.Nil(t, splitEnvsPath(""))
	assert.Nil(t, splitEnvsPath("  "))
	got := splitEnvsPath("/tmp/a")
	assert.Equal(t, []string{"/tmp/a"}, got)
}
