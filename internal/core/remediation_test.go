package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yarn-audit-gate/internal/types"
)

func TestHintForUpgradeAvailable(t *testing.T) {
	advisory := types.Advisory{
		ModuleName:      "lodash",
		PatchedVersions: ">=1.2.0",
		Findings:        []types.Finding{{Version: "1.0.0", Paths: []string{"lodash"}}},
	}
	hint, ok := HintFor(advisory)
	require.True(t, ok)
	assert.True(t, hint.UpgradeAvailable)
	assert.Equal(t, "lodash", hint.ModuleName)
	assert.Equal(t, "1.0.0", hint.InstalledVersion)
	assert.Equal(t, ">=1.2.0", hint.PatchedVersions)
}

func TestHintForAlreadyPatched(t *testing.T) {
	advisory := types.Advisory{
		ModuleName:      "lodash",
		PatchedVersions: ">=1.2.0",
		Findings:        []types.Finding{{Version: "1.3.0", Paths: []string{"lodash"}}},
	}
	hint, ok := HintFor(advisory)
	require.True(t, ok)
	assert.False(t, hint.UpgradeAvailable)
}

func TestHintForNoHint(t *testing.T) {
	tests := []struct {
		name     string
		advisory types.Advisory
	}{
		{"no patch", types.Advisory{PatchedVersions: "<0.0.0", Findings: []types.Finding{{Version: "1.0.0"}}}},
		{"empty patched range", types.Advisory{Findings: []types.Finding{{Version: "1.0.0"}}}},
		{"no findings", types.Advisory{PatchedVersions: ">=1.2.0"}},
		{"no installed version", types.Advisory{PatchedVersions: ">=1.2.0", Findings: []types.Finding{{}}}},
		{"unparseable version", types.Advisory{PatchedVersions: ">=1.2.0", Findings: []types.Finding{{Version: "not-a-version"}}}},
	}
	for _, tt := range tests {
		_, ok := HintFor(tt.advisory)
		assert.False(t, ok, tt.name)
	}
}
