package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProject(t *testing.T, ruleFile string) string {
	t.Helper()
	dir := t.TempDir()
	configDir := filepath.Join(dir, ".enb")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "enb-make.js"), []byte(ruleFile), 0o644))

	webDir := filepath.Join(dir, "web")
	require.NoError(t, os.MkdirAll(webDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(webDir, "main.go"), []byte("package main"), 0o644))
	return dir
}

func Test_NewPlatform_InitializesAgainstRuleFile(t *testing.T) {
	dir := newTestProject(t, `
project:node("web", function(nb)
  nb:addTargets("*")
  nb:addTechs("noop")
end)
`)

	ctx := context.Background()
	p, err := newPlatform(ctx, dir, "production")
	require.NoError(t, err)
	defer func() { _ = p.Destruct(ctx) }()

	assert.Equal(t, "production", p.GetMode())
	assert.Contains(t, p.GetProjectConfig().NodePaths(), "web")
}

func Test_NewPlatform_BuildRunsConfiguredNode(t *testing.T) {
	dir := newTestProject(t, `
project:node("web", function(nb)
  nb:addTargets("*")
  nb:addTechs("noop")
end)
`)

	ctx := context.Background()
	p, err := newPlatform(ctx, dir, "production")
	require.NoError(t, err)
	defer func() { _ = p.Destruct(ctx) }()

	require.NoError(t, p.LoadCache(ctx))
	result, err := p.Build(ctx, nil)
	require.NoError(t, err)
	assert.False(t, result.ExecutionID.IsZero())
}
