package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_LoadConfig_MissingFileIsNoOp(t *testing.T) {
	var override NodeOverride
	err := LoadConfig(filepath.Join(t.TempDir(), "node.yaml"), &override)
	require.NoError(t, err)
	assert.Empty(t, override.Env)
	assert.Empty(t, override.Languages)
}

func Test_LoadConfig_DecodesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "node.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env:\n  FOO: bar\nlanguages:\n  - go\n  - en\n"), 0o644))

	var override NodeOverride
	require.NoError(t, LoadConfig(path, &override))
	assert.Equal(t, "bar", override.Env["FOO"])
	assert.Equal(t, []string{"go", "en"}, override.Languages)
}

func Test_LoadConfig_InvalidYAMLErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "node.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env: [this is not a map"), 0o644))

	var override NodeOverride
	assert.Error(t, LoadConfig(path, &override))
}
