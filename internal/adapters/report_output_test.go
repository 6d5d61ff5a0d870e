package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportOutputWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "audit.json")
	require.NoError(t, NewReportOutputAdapter().Write(path, "content"))

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(written))
}

func TestReportOutputOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.txt")
	adapter := NewReportOutputAdapter()
	require.NoError(t, adapter.Write(path, "first"))
	require.NoError(t, adapter.Write(path, "second"))

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(written))
}
