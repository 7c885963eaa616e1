package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zxqfox/enb/internal/enbconfig"
)

func Test_RootCmd_RegistersSubcommands(t *testing.T) {
	root := RootCmd()

	names := map[string]bool{}
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}

	assert.True(t, names["build"])
	assert.True(t, names["clean"])
	assert.True(t, names["graph"])
	assert.True(t, names["version"])
}

func Test_VersionCmd_PrintsVersion(t *testing.T) {
	root := RootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "enb version")
}

func Test_ConfigFromContext_ReturnsStoredConfig(t *testing.T) {
	cfg := &enbconfig.Config{Mode: "production"}
	ctx := context.WithValue(context.Background(), ctxConfigKey{}, cfg)

	got := configFromContext(ctx)
	assert.Same(t, cfg, got)
}

func Test_ConfigFromContext_DefaultsWhenAbsent(t *testing.T) {
	got := configFromContext(context.Background())
	require.NotNil(t, got)
	assert.Equal(t, ".", got.CWD)
}

func Test_SetupGlobalConfig_AttachesLoggerAndConfig(t *testing.T) {
	cmd := RootCmd()
	cmd.SetContext(context.Background())

	require.NoError(t, setupGlobalConfig(cmd))

	cfg := configFromContext(cmd.Context())
	assert.NotEmpty(t, cfg.Mode)
}
