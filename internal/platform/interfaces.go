package platform

import (
	"context"

	"github.com/zxqfox/enb/internal/core"
	"github.com/zxqfox/enb/internal/enblog"
)

// LevelNamingScheme is an opaque per-directory file-layout convention.
type LevelNamingScheme struct {
	BuildLevel    string
	BuildFilePath string
}

// NodeEntry is the base node-config bound to one node path: a callable
// that mutates a NodeBuilder, plus the node's own overrides.
type NodeEntry struct {
	Path string
	// Configure runs the base node-config against the project.
	Configure func(ctx context.Context, nb NodeBuilder) error
	// ModeConfigure, if set, runs for the active mode.
	ModeConfigure map[string]func(ctx context.Context, nb NodeBuilder) error
}

// NodeMaskEntry is a node-mask config: a glob-like mask plus a callable
// run against every node whose path matches it.
type NodeMaskEntry struct {
	Mask      string
	Configure func(ctx context.Context, nb NodeBuilder) error
}

// TaskEntry is a named ad-hoc task.
type TaskEntry struct {
	Name string
	Run  func(ctx context.Context, p *Platform, args []string) (any, error)
}

// NodeBuilder accumulates the effective settings for one node across base
// config, matching node-masks, and mode override.
type NodeBuilder interface {
	SetLanguages(langs []string)
	AddTargets(targets ...string)
	AddCleanTargets(targets ...string)
	AddTechs(names ...string)
	SetEnv(env core.EnvMap)
	// Mode returns the platform's active mode, letting a base
	// node-config branch on it without a registered ModeConfigure entry.
	Mode() string
}

// NodeSettings is the fully layered result of running a node's base
// config, matching node-masks, and mode override, applied to the node
// just before it loads its techs.
type NodeSettings struct {
	Languages    []string
	BuildTargets []string
	CleanTargets []string
	Techs        []string
	Env          core.EnvMap
	BuildState   map[string]any
}

// ProjectConfig is the external collaborator evaluated by user rule
// files. The platform core only consumes this surface.
type ProjectConfig interface {
	// NodePaths returns every registered node path, in registration order.
	NodePaths() []string
	// Node returns the base node-config for path.
	Node(path string) (NodeEntry, bool)
	// NodeMasksFor returns every node-mask config matching path, in the
	// order they were registered.
	NodeMasksFor(path string) []NodeMaskEntry
	// ModeConfig returns the project-level mode-config for mode, if any.
	ModeConfig(mode string) (func(ctx context.Context, pc ProjectConfig) error, bool)
	// Task returns the named task, if registered.
	Task(name string) (TaskEntry, bool)
	// SetTask registers a task, used by Platform.init to install the
	// built-in "clean" task.
	SetTask(entry TaskEntry)
	// RegisterNode records a node-config, called while evaluating a rule
	// file.
	RegisterNode(entry NodeEntry)
	// RegisterNodeMask records a node-mask config.
	RegisterNodeMask(entry NodeMaskEntry)
	// RegisterModeConfig records a project-level mode-config.
	RegisterModeConfig(mode string, fn func(ctx context.Context, pc ProjectConfig) error)
	// SetLanguages records the project-wide language tags.
	SetLanguages(langs []string)
	// SetEnv records the project-wide environment values.
	SetEnv(env core.EnvMap)
	// AddIncludedFile records one included-config fragment path.
	AddIncludedFile(path string)
	// SetLevelNamingScheme records one entry of the level-naming table.
	SetLevelNamingScheme(levelPath string, scheme LevelNamingScheme)
	// Languages returns the project-wide language tags, if declared.
	Languages() []string
	// Env returns the project-wide environment values.
	Env() core.EnvMap
	// IncludedFiles returns the filenames of any included-config
	// fragments reported during evaluation.
	IncludedFiles() []string
	// LevelNamingSchemes returns the declared level-naming table.
	LevelNamingSchemes() map[string]LevelNamingScheme
}

// RuleLoader evaluates a rule file against a fresh ProjectConfig.
// Implementations must be safe to call repeatedly across distinct
// Platform.init invocations with no cross-call module cache.
type RuleLoader interface {
	Evaluate(ctx context.Context, filePath string, pc ProjectConfig) error
}

// Node is the per-node builder: the out-of-scope collaborator that
// actually builds/cleans targets.
type Node interface {
	Path() string
	ApplySettings(settings NodeSettings)
	LoadTechs(ctx context.Context) error
	Build(ctx context.Context, targets []string) (builtTargets []string, err error)
	Clean(ctx context.Context, targets []string) error
	RequireSources(ctx context.Context, sources []string) error
	// SetLogger swaps the node's logger, used to silence a node's
	// sub-logger once a build has finished successfully.
	SetLogger(log enblog.Logger)
	Destruct(ctx context.Context) error
}

// NodeFactory constructs a Node bound to one platform/cache pair.
type NodeFactory func(nodePath string, p *Platform, cache Cache, log enblog.Logger) (Node, error)

// CacheStorage is the persistent, key-namespaced dictionary collaborator.
// Namespaces are opaque string keys; the reserved namespace ":make" is
// owned by the platform core.
type CacheStorage interface {
	Load(ctx context.Context) error
	Save(ctx context.Context) error
	Drop(ctx context.Context) error
	Get(ctx context.Context, namespace, key string) (any, bool, error)
	Set(ctx context.Context, namespace, key string, value any) error
	Close(ctx context.Context) error
}

// Cache is the per-build view over CacheStorage that nodes share
// read/write during one buildTargets/cleanTargets call.
type Cache interface {
	Storage() CacheStorage
	ProjectName() string
}

// BuildGraph is the append-only visualization sink shared by every node
// initialized during one platform lifetime.
type BuildGraph interface {
	AddNode(path string)
	AddEdge(from, to string)
}
