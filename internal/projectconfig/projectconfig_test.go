package projectconfig

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zxqfox/enb/internal/platform"
)

func Test_RegisterNode_And_Node(t *testing.T) {
	c := New(nil)
	c.RegisterNode(platform.NodeEntry{Path: "web"})

	entry, ok := c.Node("web")
	require.True(t, ok)
	assert.Equal(t, "web", entry.Path)

	_, ok = c.Node("missing")
	assert.False(t, ok)
}

func Test_RegisterNode_Idempotent_NodePaths(t *testing.T) {
	c := New(nil)
	c.RegisterNode(platform.NodeEntry{Path: "web"})
	c.RegisterNode(platform.NodeEntry{Path: "web"})
	c.RegisterNode(platform.NodeEntry{Path: "api"})

	assert.Equal(t, []string{"web", "api"}, c.NodePaths())
}

func Test_NodeMasksFor_MatchesGlob(t *testing.T) {
	c := New(nil)
	var ran []string
	mask := platform.NodeMaskEntry{
		Mask: "services/**",
		Configure: func(ctx context.Context, nb platform.NodeBuilder) error {
			ran = append(ran, "matched")
			return nil
		},
	}
	c.RegisterNodeMask(mask)

	matches := c.NodeMasksFor("services/web")
	require.Len(t, matches, 1)

	none := c.NodeMasksFor("other/web")
	assert.Empty(t, none)
}

func Test_Task_SetAndGet(t *testing.T) {
	c := New(nil)
	c.SetTask(platform.TaskEntry{Name: "clean"})

	entry, ok := c.Task("clean")
	require.True(t, ok)
	assert.Equal(t, "clean", entry.Name)
}

func Test_ModeConfig(t *testing.T) {
	c := New(nil)
	c.RegisterModeConfig("production", func(ctx context.Context, pc platform.ProjectConfig) error {
		return nil
	})

	_, ok := c.ModeConfig("production")
	assert.True(t, ok)
	_, ok = c.ModeConfig("development")
	assert.False(t, ok)
}

func Test_Env_And_Languages(t *testing.T) {
	c := New(nil)
	c.SetLanguages([]string{"go"})
	assert.Equal(t, []string{"go"}, c.Languages())

	c.SetEnv(nil)
	assert.Nil(t, c.Env())
}

func Test_IncludedFiles_And_LevelNamingSchemes(t *testing.T) {
	c := New(nil)
	c.AddIncludedFile("shared.js")
	assert.Equal(t, []string{"shared.js"}, c.IncludedFiles())

	c.SetLevelNamingScheme("services", platform.LevelNamingScheme{BuildLevel: "service"})
	schemes := c.LevelNamingSchemes()
	assert.Equal(t, "service", schemes["services"].BuildLevel)
}
