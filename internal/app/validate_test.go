package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yarn-audit-gate/internal/adapters"
	"yarn-audit-gate/internal/ports"
)

func newValidateService() Service {
	return Service{
		ExclusionFile: adapters.NewIyarcFileAdapter(),
		PolicyFile:    adapters.NewPolicyFileAdapter(),
		Manifest:      adapters.NewPackageJSONAdapter(),
		ReportOutput:  adapters.NewReportOutputAdapter(),
		NewSink: func() (ports.SinkPort, error) {
			return &memorySink{}, nil
		},
		Clock: time.Now,
	}
}

func TestValidateNothingConfigured(t *testing.T) {
	service := newValidateService()

	result, err := service.Validate(ValidateRequest{Dir: t.TempDir()})
	require.NoError(t, err)

	assert.False(t, result.IyarcPresent)
	assert.False(t, result.PolicyPresent)
	assert.False(t, result.ManifestPresent)
}

func TestValidateCountsAllCollaborators(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".iyarc"), []byte("# accepted\n1, GHSA-pfrx-2q88-qq97\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "audit-policy.yaml"), []byte(`severity: moderate
exclusions:
  - id: "7"
    reason: transitive, fix pending upstream
  - id: "8"
    expires_at: "2020-01-01"
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{
  "dependencies": {"express": "^4.0.0"},
  "devDependencies": {"jest": "^29.0.0", "eslint": "^9.0.0"}
}`), 0644))

	service := newValidateService()
	result, err := service.Validate(ValidateRequest{Dir: dir})
	require.NoError(t, err)

	assert.True(t, result.IyarcPresent)
	assert.Equal(t, 2, result.IyarcEntries)
	assert.True(t, result.PolicyPresent)
	assert.Equal(t, 1, result.PolicyExclusions)
	assert.Equal(t, 1, result.ExpiredEntries)
	assert.True(t, result.ManifestPresent)
	assert.Equal(t, 2, result.DevDependencies)
}

func TestValidateRejectsMalformedPolicy(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "audit-policy.yaml"), []byte("severity: [not, a, string]\n"), 0644))

	service := newValidateService()
	_, err := service.Validate(ValidateRequest{Dir: dir})
	require.Error(t, err)
}
