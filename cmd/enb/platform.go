package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/zxqfox/enb/internal/buildgraph"
	"github.com/zxqfox/enb/internal/cachestore"
	"github.com/zxqfox/enb/internal/core"
	"github.com/zxqfox/enb/internal/metrics"
	"github.com/zxqfox/enb/internal/node"
	"github.com/zxqfox/enb/internal/platform"
	"github.com/zxqfox/enb/internal/projectconfig"
	"github.com/zxqfox/enb/internal/rules"
)

// newPlatform wires the default collaborator set (a Lua rule loader, a
// Badger-backed cache, the default glob/tech node, and a YAML build
// graph) and initializes it against projectDir/mode.
func newPlatform(ctx context.Context, projectDir, mode string) (*platform.Platform, error) {
	registry := node.NewRegistry()
	registerBuiltinTechs(registry)

	reg := prometheus.NewRegistry()

	deps := platform.Deps{
		NewProjectConfig: func(cwd *core.CWD) platform.ProjectConfig {
			return projectconfig.New(cwd)
		},
		RuleLoader:    rules.NewLoader(),
		NodeFactory:   node.NewFactory(registry),
		NewBuildGraph: func(name string) platform.BuildGraph { return buildgraph.New(name) },
		NewCacheStorage: func(path string) (platform.CacheStorage, error) {
			return cachestore.NewBadgerStorage(path)
		},
		NewCache: func(storage platform.CacheStorage, projectName string) platform.Cache {
			return newSimpleCache(storage, projectName)
		},
		Metrics: metrics.New(reg),
	}

	p := platform.New(deps)
	absDir, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("resolve project dir %s: %w", projectDir, err)
	}
	if err := p.Init(ctx, absDir, mode); err != nil {
		return nil, err
	}
	return p, nil
}

// simpleCache is the default platform.Cache: a thin, stateless view over
// one CacheStorage scoped to a project name.
type simpleCache struct {
	storage     platform.CacheStorage
	projectName string
}

func newSimpleCache(storage platform.CacheStorage, projectName string) *simpleCache {
	return &simpleCache{storage: storage, projectName: projectName}
}

func (c *simpleCache) Storage() platform.CacheStorage { return c.storage }
func (c *simpleCache) ProjectName() string            { return c.projectName }

// registerBuiltinTechs wires the handful of techs every project can rely
// on without a rule file registering its own. A tech is an opaque
// callable the platform never interprets.
func registerBuiltinTechs(registry *node.Registry) {
	registry.Register("noop", func(ctx context.Context, files []string) ([]string, error) {
		return nil, nil
	})
}
