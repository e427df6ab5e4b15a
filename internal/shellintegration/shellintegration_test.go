package shellintegration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitSelectionEmptyPathIsNoop(t *testing.T) {
	t.Setenv(OutputEnvVar, "")
	require.NoError(t, EmitSelection(""))
}

func TestEmitSelectionWritesOutputFile(t *testing.T) {
	dir := t.TempDir()
	outFile := filepath.Join(dir, "nested", "owt-out")
	t.Setenv(OutputEnvVar, outFile)

	require.NoError(t, EmitSelection("/repo/feature-a"))

	got, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, "/repo/feature-a\n", string(got))
}

func TestEmitSelectionWithoutEnvVarDoesNotError(t *testing.T) {
	t.Setenv(OutputEnvVar, "")
	assert.NoError(t, EmitSelection("/repo/feature-a"))
}
