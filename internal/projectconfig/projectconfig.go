// Package projectconfig provides the default platform.ProjectConfig: the
// in-memory registry a rule file populates as it evaluates (small
// structs accumulated by an evaluator, consumed by a coordinator).
package projectconfig

import (
	"context"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/zxqfox/enb/internal/core"
	"github.com/zxqfox/enb/internal/platform"
)

// ProjectConfig is the default platform.ProjectConfig implementation.
type ProjectConfig struct {
	cwd *core.CWD

	mu sync.Mutex

	nodeOrder []string
	nodes     map[string]platform.NodeEntry
	masks     []platform.NodeMaskEntry
	modes     map[string]func(ctx context.Context, pc platform.ProjectConfig) error
	tasks     map[string]platform.TaskEntry

	languages []string
	env       core.EnvMap

	includedFiles []string
	levelNaming   map[string]platform.LevelNamingScheme
}

// New constructs an empty ProjectConfig rooted at cwd, ready for a rule
// loader to evaluate a rule file against.
func New(cwd *core.CWD) *ProjectConfig {
	return &ProjectConfig{
		cwd:         cwd,
		nodes:       make(map[string]platform.NodeEntry),
		modes:       make(map[string]func(ctx context.Context, pc platform.ProjectConfig) error),
		tasks:       make(map[string]platform.TaskEntry),
		env:         make(core.EnvMap),
		levelNaming: make(map[string]platform.LevelNamingScheme),
	}
}

func (c *ProjectConfig) CWD() *core.CWD { return c.cwd }

// NodePaths returns every registered node path, in registration order.
func (c *ProjectConfig) NodePaths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.nodeOrder...)
}

func (c *ProjectConfig) Node(path string) (platform.NodeEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.nodes[path]
	return entry, ok
}

func (c *ProjectConfig) NodeMasksFor(path string) []platform.NodeMaskEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]platform.NodeMaskEntry, 0, len(c.masks))
	for _, mask := range c.masks {
		if matchesMask(mask.Mask, path) {
			result = append(result, mask)
		}
	}
	return result
}

func (c *ProjectConfig) ModeConfig(mode string) (func(ctx context.Context, pc platform.ProjectConfig) error, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn, ok := c.modes[mode]
	return fn, ok
}

func (c *ProjectConfig) Task(name string) (platform.TaskEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.tasks[name]
	return entry, ok
}

func (c *ProjectConfig) SetTask(entry platform.TaskEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks[entry.Name] = entry
}

func (c *ProjectConfig) RegisterNode(entry platform.NodeEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.nodes[entry.Path]; !exists {
		c.nodeOrder = append(c.nodeOrder, entry.Path)
	}
	c.nodes[entry.Path] = entry
}

func (c *ProjectConfig) RegisterNodeMask(entry platform.NodeMaskEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.masks = append(c.masks, entry)
}

func (c *ProjectConfig) RegisterModeConfig(mode string, fn func(ctx context.Context, pc platform.ProjectConfig) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modes[mode] = fn
}

func (c *ProjectConfig) SetLanguages(langs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.languages = langs
}

func (c *ProjectConfig) SetEnv(env core.EnvMap) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.env = env
}

func (c *ProjectConfig) AddIncludedFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.includedFiles = append(c.includedFiles, path)
}

func (c *ProjectConfig) SetLevelNamingScheme(levelPath string, scheme platform.LevelNamingScheme) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.levelNaming[levelPath] = scheme
}

func (c *ProjectConfig) Languages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.languages
}

func (c *ProjectConfig) Env() core.EnvMap {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.env
}

func (c *ProjectConfig) IncludedFiles() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.includedFiles...)
}

func (c *ProjectConfig) LevelNamingSchemes() map[string]platform.LevelNamingScheme {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make(map[string]platform.LevelNamingScheme, len(c.levelNaming))
	for k, v := range c.levelNaming {
		result[k] = v
	}
	return result
}

// matchesMask reports whether a node path satisfies a node-mask pattern,
// using the same doublestar glob semantics the default node builder uses
// for source globbing.
func matchesMask(mask, path string) bool {
	ok, err := doublestar.Match(mask, path)
	return err == nil && ok
}
