// Package platform implements MakePlatform, the top-level
// build-orchestration coordinator: configuration composition,
// target-to-node routing, memoized node initialization, cache-validity
// policy, and fan-out/fan-in build/clean concurrency.
package platform

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/zxqfox/enb/internal/core"
	"github.com/zxqfox/enb/internal/enberr"
	"github.com/zxqfox/enb/internal/enblog"
	"github.com/zxqfox/enb/internal/metrics"
)

const defaultMode = "development"

// Deps bundles the collaborators Platform needs but does not own the
// construction of.
type Deps struct {
	NewProjectConfig func(cwd *core.CWD) ProjectConfig
	RuleLoader       RuleLoader
	NodeFactory      NodeFactory
	NewBuildGraph    func(name string) BuildGraph
	NewCacheStorage  func(path string) (CacheStorage, error)
	NewCache         func(storage CacheStorage, projectName string) Cache
	// Metrics is optional; a nil Registry is valid and every method on it
	// is a no-op.
	Metrics *metrics.Registry
}

// Platform is MakePlatform: one long-lived coordinator per project
// instance.
type Platform struct {
	deps Deps

	mu sync.Mutex

	projectDir  string
	projectName string
	mode        string
	configDir   string

	makefilePaths []string

	projectConfig ProjectConfig
	env           core.EnvMap
	languages     []string
	levelNaming   map[string]LevelNamingScheme

	logger     enblog.Logger
	buildGraph BuildGraph

	cacheStorage CacheStorage
	cache        Cache

	buildState map[string]any

	nodes           map[string]Node
	nodeInitPromise map[string]*nodeInitFuture

	destructed bool
}

// New constructs an un-initialized Platform bound to deps. Call Init
// before using it.
func New(deps Deps) *Platform {
	return &Platform{deps: deps}
}

// Init resolves mode, discovers the config directory and primary rule
// file, evaluates the rule files against a fresh ProjectConfig, and
// readies the platform for loadCache/build/cleanTargets.
func (p *Platform) Init(ctx context.Context, projectDir string, mode string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	absDir, err := filepath.Abs(projectDir)
	if err != nil {
		return enberr.New(err, enberr.ConfigDirNotFound, map[string]any{"projectDir": projectDir})
	}
	p.projectDir = absDir
	p.projectName = filepath.Base(absDir)
	p.mode = resolveMode(mode)

	configDir, err := getConfigDir(p.projectDir)
	if err != nil {
		return err
	}
	p.configDir = configDir

	primary, err := getMakeFile(configDir, "make")
	if err != nil {
		return err
	}
	if primary == "" {
		return enberr.Newf(enberr.MakefileNotFound, map[string]any{"configDir": configDir},
			"no primary rule file found in %s", configDir)
	}
	personal, err := getMakeFile(configDir, "make.personal")
	if err != nil {
		return err
	}

	p.logger = enblog.NewLogger(os.Stderr, enblog.InfoLevel)
	p.buildState = make(map[string]any)
	p.nodes = make(map[string]Node)
	p.nodeInitPromise = make(map[string]*nodeInitFuture)
	p.buildGraph = p.deps.NewBuildGraph(p.projectName)

	cwd, err := core.CWDFromPath(p.projectDir)
	if err != nil {
		return enberr.New(err, enberr.ConfigDirNotFound, nil)
	}
	pc := p.deps.NewProjectConfig(cwd)

	p.makefilePaths = []string{primary}
	if personal != "" {
		p.makefilePaths = append(p.makefilePaths, personal)
	}

	for _, file := range p.makefilePaths {
		if err := p.deps.RuleLoader.Evaluate(ctx, file, pc); err != nil {
			return enberr.New(err, enberr.RuleEvaluationErr, map[string]any{"file": file})
		}
	}
	p.makefilePaths = append(p.makefilePaths, pc.IncludedFiles()...)

	if modeFn, ok := pc.ModeConfig(p.mode); ok {
		if err := modeFn(ctx, pc); err != nil {
			return enberr.New(err, enberr.RuleEvaluationErr, map[string]any{"mode": p.mode})
		}
	}

	p.projectConfig = pc
	p.languages = pc.Languages()
	p.env = pc.Env()
	p.levelNaming = pc.LevelNamingSchemes()

	pc.SetTask(TaskEntry{
		Name: "clean",
		Run: func(ctx context.Context, plat *Platform, args []string) (any, error) {
			return nil, plat.CleanTargets(ctx, args)
		},
	})

	tmpDir := filepath.Join(configDir, "tmp")
	if err := core.EnsureDir(tmpDir); err != nil {
		return enberr.New(err, enberr.ConfigDirNotFound, map[string]any{"tmpDir": tmpDir})
	}
	storage, err := p.deps.NewCacheStorage(filepath.Join(tmpDir, "cache.js"))
	if err != nil {
		return enberr.New(err, enberr.ConfigDirNotFound, map[string]any{"cacheFile": "cache.js"})
	}
	p.cacheStorage = storage
	p.nodes = make(map[string]Node)

	return nil
}

func resolveMode(mode string) string {
	if mode != "" {
		return mode
	}
	if env := os.Getenv("YENV"); env != "" {
		return env
	}
	return defaultMode
}

// Destruct tears down the platform. Double-destruct must not panic.
func (p *Platform) Destruct(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.destructed {
		return nil
	}
	p.destructed = true

	p.buildState = nil
	p.projectConfig = nil

	for path, node := range p.nodes {
		if err := node.Destruct(ctx); err != nil {
			p.logger.Warn("node destruct failed", "node", path, "error", err)
		}
	}
	p.nodes = nil

	if closer, ok := p.deps.RuleLoader.(interface{ Close() }); ok {
		closer.Close()
	}

	if p.cacheStorage != nil {
		if err := p.cacheStorage.Drop(ctx); err != nil {
			p.logger.Warn("cache drop failed", "error", err)
		}
		if err := p.cacheStorage.Close(ctx); err != nil {
			p.logger.Warn("cache close failed", "error", err)
		}
		p.cacheStorage = nil
	}
	p.cache = nil
	p.levelNaming = nil

	return nil
}

func (p *Platform) requireNotDestructed() error {
	if p.destructed {
		return enberr.Newf(enberr.PlatformDestructed, nil, "platform instance is destructed")
	}
	return nil
}

// --- Accessors ---

func (p *Platform) GetDir() string { return p.projectDir }

func (p *Platform) GetMode() string { return p.mode }

func (p *Platform) GetConfigDir() string { return p.configDir }

func (p *Platform) GetEnv() core.EnvMap { return p.env }

func (p *Platform) SetEnv(env core.EnvMap) { p.env = env }

// GetLanguages is deprecated but retained for compatibility.
func (p *Platform) GetLanguages() []string { return p.languages }

// SetLanguages is deprecated but retained for compatibility.
func (p *Platform) SetLanguages(langs []string) { p.languages = langs }

func (p *Platform) GetLogger() enblog.Logger { return p.logger }

func (p *Platform) SetLogger(l enblog.Logger) { p.logger = l }

func (p *Platform) GetCacheStorage() CacheStorage { return p.cacheStorage }

func (p *Platform) SetCacheStorage(s CacheStorage) { p.cacheStorage = s }

func (p *Platform) GetBuildGraph() BuildGraph { return p.buildGraph }

func (p *Platform) GetProjectConfig() ProjectConfig { return p.projectConfig }

func (p *Platform) GetLevelNamingScheme(levelPath string) (LevelNamingScheme, bool) {
	scheme, ok := p.levelNaming[levelPath]
	return scheme, ok
}

func (p *Platform) makefileMTimes() map[string]int64 {
	result := make(map[string]int64, len(p.makefilePaths))
	for _, path := range p.makefilePaths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		result[path] = info.ModTime().UnixMilli()
	}
	return result
}
