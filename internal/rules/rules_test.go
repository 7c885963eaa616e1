package rules

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zxqfox/enb/internal/core"
	"github.com/zxqfox/enb/internal/platform"
	"github.com/zxqfox/enb/internal/projectconfig"
)

func writeRuleFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "enb-make.js")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func Test_Evaluate_RegistersNodesAndLanguages(t *testing.T) {
	path := writeRuleFile(t, `
project:setLanguages({"go", "lua"})
project:node("web", function(nb)
  nb:addTargets("build")
  nb:addTechs("noop")
end)
`)

	pc := projectconfig.New(nil)
	loader := NewLoader()
	defer loader.Close()

	err := loader.Evaluate(context.Background(), path, pc)
	require.NoError(t, err)

	assert.Equal(t, []string{"go", "lua"}, pc.Languages())
	assert.Contains(t, pc.NodePaths(), "web")
}

func Test_Evaluate_NodeConfigureRunsLaterAgainstTheSameState(t *testing.T) {
	path := writeRuleFile(t, `
project:node("web", function(nb)
  nb:addTargets("build")
end)
`)

	pc := projectconfig.New(nil)
	loader := NewLoader()
	defer loader.Close()
	require.NoError(t, loader.Evaluate(context.Background(), path, pc))

	entry, ok := pc.Node("web")
	require.True(t, ok)
	require.NotNil(t, entry.Configure)

	builder := newTestBuilder()
	// The rule file's Lua closure must still be callable well after
	// Evaluate returned, proving the VM isn't closed prematurely.
	assert.NoError(t, entry.Configure(context.Background(), builder))
	assert.Equal(t, []string{"build"}, builder.buildTargets)
}

func Test_Evaluate_TaskIsCallableAfterEvaluate(t *testing.T) {
	path := writeRuleFile(t, `
project:task("greet", function(project, args)
  return "hi"
end)
`)

	pc := projectconfig.New(nil)
	loader := NewLoader()
	defer loader.Close()
	require.NoError(t, loader.Evaluate(context.Background(), path, pc))

	entry, ok := pc.Task("greet")
	require.True(t, ok)
	result, err := entry.Run(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "hi", result)
}

func Test_Evaluate_ErrorsOnSyntaxError(t *testing.T) {
	path := writeRuleFile(t, `this is not valid lua (`)
	pc := projectconfig.New(nil)
	loader := NewLoader()
	defer loader.Close()

	err := loader.Evaluate(context.Background(), path, pc)
	assert.Error(t, err)
}

// testBuilder is a minimal platform.NodeBuilder recorder for exercising
// Configure callbacks directly in tests.
type testBuilder struct {
	languages    []string
	buildTargets []string
	cleanTargets []string
	techs        []string
}

func newTestBuilder() *testBuilder { return &testBuilder{} }

func (b *testBuilder) SetLanguages(langs []string)        { b.languages = langs }
func (b *testBuilder) AddTargets(targets ...string)       { b.buildTargets = append(b.buildTargets, targets...) }
func (b *testBuilder) AddCleanTargets(targets ...string)  { b.cleanTargets = append(b.cleanTargets, targets...) }
func (b *testBuilder) AddTechs(names ...string)           { b.techs = append(b.techs, names...) }
func (b *testBuilder) SetEnv(_ core.EnvMap) {}
func (b *testBuilder) Mode() string                       { return "" }

var _ platform.NodeBuilder = (*testBuilder)(nil)
