package taxyear

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeOverrideFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "override.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile_PartialOverride(t *testing.T) {
	path := writeOverrideFile(t, "year: 2026\nss_wage_base: 181800\n")

	tc, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 2026, tc.Year)
	assert.Equal(t, 181800.0, tc.SSWageBase)
	// Everything not overridden keeps the compiled-in value.
	assert.Equal(t, Year2025().SSRate, tc.SSRate)
	assert.Equal(t, Year2025().StandardDeduction, tc.StandardDeduction)
}

func TestLoadFile_InvalidOverrideRejected(t *testing.T) {
	path := writeOverrideFile(t, "year: 2026\nss_rate: 0\n")

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFile_MalformedYAML(t *testing.T) {
	path := writeOverrideFile(t, "year: [not a scalar\n")
	_, err := LoadFile(path)
	assert.Error(t, err)
}
