package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageJSONDevDependencies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "package.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "name": "fixture",
  "dependencies": {"express": "^4.18.0"},
  "devDependencies": {"jest": "^29.0.0", "@types/node": "^20.0.0"}
}`), 0644))

	names, present, err := NewPackageJSONAdapter().DevDependencies(path)
	require.NoError(t, err)
	assert.True(t, present)
	if diff := cmp.Diff([]string{"@types/node", "jest"}, names); diff != "" {
		t.Fatalf("unexpected names (-want +got):\n%s", diff)
	}
}

func TestPackageJSONMissing(t *testing.T) {
	names, present, err := NewPackageJSONAdapter().DevDependencies(filepath.Join(t.TempDir(), "package.json"))
	require.NoError(t, err)
	assert.False(t, present)
	assert.Empty(t, names)
}

func TestPackageJSONMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "package.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, present, err := NewPackageJSONAdapter().DevDependencies(path)
	require.Error(t, err)
	assert.True(t, present)
}

func TestPackageJSONNoDevDependencies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "package.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "fixture"}`), 0644))

	names, present, err := NewPackageJSONAdapter().DevDependencies(path)
	require.NoError(t, err)
	assert.True(t, present)
	assert.Empty(t, names)
}
