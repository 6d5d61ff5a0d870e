// Package testutil provides shared test helpers used across integration,
// e2e, and unit test packages.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// AdvisoryLine builds one auditAdvisory NDJSON record the way yarn emits
// them, with a single finding reachable through the given path.
func AdvisoryLine(id int, severity string, module string, path string) string {
	return fmt.Sprintf(
		`{"type":"auditAdvisory","data":{"resolution":{"id":%d,"path":%q,"dev":false,"optional":false,"bundled":false},"advisory":{"id":%d,"module_name":%q,"severity":%q,"url":"https://npmjs.com/advisories/%d","title":"Prototype Pollution","vulnerable_versions":"<4.17.19","patched_versions":">=4.17.19","findings":[{"version":"4.17.15","paths":[%q]}]}}}`,
		id, path, id, module, severity, id, path,
	)
}

// SummaryLine builds the trailing auditSummary record.
func SummaryLine(dependencies int, devDependencies int) string {
	return fmt.Sprintf(
		`{"type":"auditSummary","data":{"vulnerabilities":{"info":0,"low":0,"moderate":0,"high":0,"critical":0},"dependencies":%d,"devDependencies":%d,"optionalDependencies":0,"totalDependencies":%d}}`,
		dependencies, devDependencies, dependencies+devDependencies,
	)
}

// AuditPayload joins records into the newline-delimited stream yarn audit
// writes to stdout.
func AuditPayload(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

// WriteFakeYarn writes an executable shell script named yarn into dir that
// prints the given payload and exits with the given status. It returns the
// script path and skips the test on Windows, where the shebang trick does
// not work.
func WriteFakeYarn(t *testing.T, dir string, payload string, exitStatus int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake yarn script requires a POSIX shell")
	}
	script := fmt.Sprintf("#!/bin/sh\ncat <<'AUDIT_EOF'\n%sAUDIT_EOF\nexit %d\n", payload, exitStatus)
	path := filepath.Join(dir, "yarn")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

// WriteFakeYarnScript writes an arbitrary shell script named yarn into dir,
// for tests that need per-invocation behavior (retry counting, fetching the
// payload from a server).
func WriteFakeYarnScript(t *testing.T, dir string, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake yarn script requires a POSIX shell")
	}
	path := filepath.Join(dir, "yarn")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

// WriteProject lays out a minimal yarn project directory with the given
// package.json content and returns the directory.
func WriteProject(t *testing.T, manifest string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(manifest), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "yarn.lock"), []byte("# yarn lockfile v1\n"), 0644))
	return dir
}
