package envfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unset clears key for the test and restores it afterwards.
func unset(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadKeepsExistingVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\n\nENVFILE_A=\"quoted value\"\nENVFILE_B = plain\nENVFILE_C=from-file\nnot a pair\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	unset(t, "ENVFILE_A")
	unset(t, "ENVFILE_B")
	t.Setenv("ENVFILE_C", "from-env")

	require.NoError(t, Load(path))

	assert.Equal(t, "quoted value", os.Getenv("ENVFILE_A"))
	assert.Equal(t, "plain", os.Getenv("ENVFILE_B"))
	assert.Equal(t, "from-env", os.Getenv("ENVFILE_C"))
}

func TestLoadMissingFile(t *testing.T) {
	assert.NoError(t, Load(filepath.Join(t.TempDir(), "absent.env")))
}
