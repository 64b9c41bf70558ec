package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDescriptorBytesEmptyPathUsesBundledDefault(t *testing.T) {
	raw, err := loadDescriptorBytes("")
	require.NoError(t, err)

	bundled, err := defaultDescriptor()
	require.NoError(t, err)
	assert.Equal(t, bundled, raw)
}

func TestLoadDescriptorBytesReadsExplicitPath(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "transforms.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"language":"ja"}`), 0o644))

	raw, err := loadDescriptorBytes(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"language":"ja"}`, string(raw))
}

func TestLoadDescriptorBytesMissingPath(t *testing.T) {
	_, err := loadDescriptorBytes(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
