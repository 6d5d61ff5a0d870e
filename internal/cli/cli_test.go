package cli

import (
	"errors"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------- Command tree tests ----------

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, name := range []string{"audit", "validate"} {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "dev", root.Version)
}

func TestAuditCommandFlags(t *testing.T) {
	cmd := newAuditCommand()
	flags := []string{
		"dir", "severity", "ignore-dev-deps",
		"retry-on-network-failure", "max-retries", "retry-delay-ms",
		"exclude", "fail-on-missing-exclusions",
		"format", "output", "iyarc", "manifest", "policy",
	}
	for _, name := range flags {
		flag := cmd.Flags().Lookup(name)
		assert.NotNil(t, flag, "missing flag: %s", name)
	}
}

func TestAuditCommandShorthands(t *testing.T) {
	cmd := newAuditCommand()
	assert.Equal(t, "s", cmd.Flags().Lookup("severity").Shorthand)
	assert.Equal(t, "e", cmd.Flags().Lookup("exclude").Shorthand)
	assert.Equal(t, "f", cmd.Flags().Lookup("format").Shorthand)
	assert.Equal(t, "o", cmd.Flags().Lookup("output").Shorthand)
}

func TestValidateCommandFlags(t *testing.T) {
	cmd := newValidateCommand()
	assert.NotNil(t, cmd.Flags().Lookup("dir"))
	assert.NotNil(t, cmd.Flags().Lookup("iyarc"))
	assert.NotNil(t, cmd.Flags().Lookup("manifest"))
	assert.NotNil(t, cmd.Flags().Lookup("policy"))
}

// ---------- Helper function tests ----------

func TestResolveString(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *cobra.Command
		value    string
		expected string
	}{
		{
			name:     "nil cmd with value returns value",
			cmd:      nil,
			value:    "explicit",
			expected: "explicit",
		},
		{
			name:     "nil cmd empty value returns empty",
			cmd:      nil,
			value:    "",
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveString(tt.cmd, tt.value, "test_key", "test-flag")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveStrings(t *testing.T) {
	got := resolveStrings(nil, []string{"1", "GHSA-pfrx-2q88-qq97"}, "test_key", "test-flag")
	assert.Equal(t, []string{"1", "GHSA-pfrx-2q88-qq97"}, got)

	got = resolveStrings(nil, nil, "test_key", "test-flag")
	assert.Nil(t, got)
}

func TestResolveBool(t *testing.T) {
	assert.True(t, resolveBool(nil, true, "test_key", "test-flag"))
	assert.False(t, resolveBool(nil, false, "test_key", "test-flag"))
}

func TestResolveInt(t *testing.T) {
	assert.Equal(t, 42, resolveInt(nil, 42, "test_key", "test-flag"))
}

func TestFlagChanged(t *testing.T) {
	assert.False(t, flagChanged(nil, "anything"), "nil cmd should return false")
	assert.False(t, flagChanged(nil, ""), "nil cmd with empty name")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	assert.False(t, flagChanged(cmd, "myflag"), "unchanged flag")
	assert.False(t, flagChanged(cmd, "nonexistent"), "nonexistent flag")
}

func TestFlagChangedAfterSet(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	require.NoError(t, cmd.Flags().Set("myflag", "val"))
	assert.True(t, flagChanged(cmd, "myflag"))
}

// ---------- Exit code tests ----------

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name: "invalid argument exits 2",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("unknown severity"),
			expected: 2,
		},
		{
			name: "internal error exits 1",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("audit command failed"),
			expected: 1,
		},
		{
			name:     "plain error exits 1",
			err:      errors.New("boom"),
			expected: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, exitCodeForError(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("network failure persisted after 3 attempt(s)").
		WithCause(errors.New("error ENOTFOUND registry.yarnpkg.com"))
	assert.Equal(t, "network failure persisted after 3 attempt(s)", errorMessage(err))

	assert.Equal(t, "boom", errorMessage(errors.New("boom")))
}
