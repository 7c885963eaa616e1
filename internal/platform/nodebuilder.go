package platform

import "github.com/zxqfox/enb/internal/core"

// nodeBuilder is the concrete NodeBuilder accumulating one node's
// layered settings across base config, node-masks, and mode override.
type nodeBuilder struct {
	languages    []string
	buildTargets []string
	cleanTargets []string
	techs        []string
	env          core.EnvMap
	buildState   map[string]any
	mode         string
}

func newNodeBuilder() *nodeBuilder {
	return &nodeBuilder{}
}

func (b *nodeBuilder) SetLanguages(langs []string) { b.languages = langs }

func (b *nodeBuilder) AddTargets(targets ...string) {
	b.buildTargets = append(b.buildTargets, targets...)
}

func (b *nodeBuilder) AddCleanTargets(targets ...string) {
	b.cleanTargets = append(b.cleanTargets, targets...)
}

func (b *nodeBuilder) AddTechs(names ...string) {
	b.techs = append(b.techs, names...)
}

func (b *nodeBuilder) SetEnv(env core.EnvMap) { b.env = env }

func (b *nodeBuilder) Mode() string { return b.mode }

func (b *nodeBuilder) settings() NodeSettings {
	return NodeSettings{
		Languages:    b.languages,
		BuildTargets: b.buildTargets,
		CleanTargets: b.cleanTargets,
		Techs:        b.techs,
		Env:          b.env,
		BuildState:   b.buildState,
	}
}
