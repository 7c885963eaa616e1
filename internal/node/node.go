// Package node implements the platform's default Node/Builder: a
// minimal but real build unit that globs files with
// github.com/bmatcuk/doublestar/v4 and dispatches each configured tech
// by name. A tech is an opaque func(ctx, files) ([]string, error), with
// no plugin ABI beyond that signature.
package node

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/zxqfox/enb/internal/enblog"
	"github.com/zxqfox/enb/internal/platform"
)

// Tech is one named build step: given the files its glob matched, it
// returns the list of output targets it produced.
type Tech func(ctx context.Context, files []string) ([]string, error)

// Registry resolves a tech name to its implementation. Nodes share one
// Registry across a platform's lifetime.
type Registry struct {
	mu    sync.RWMutex
	techs map[string]Tech
}

// NewRegistry constructs an empty tech registry.
func NewRegistry() *Registry {
	return &Registry{techs: make(map[string]Tech)}
}

// Register binds name to fn. Re-registering a name overwrites it.
func (r *Registry) Register(name string, fn Tech) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.techs[name] = fn
}

func (r *Registry) lookup(name string) (Tech, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.techs[name]
	return fn, ok
}

// Node is the default platform.Node implementation.
type Node struct {
	path  string
	dir   string
	p     *platform.Platform
	cache platform.Cache
	log   enblog.Logger

	registry *Registry

	mu       sync.Mutex
	settings platform.NodeSettings
}

// NewFactory returns a platform.NodeFactory bound to a shared tech
// registry, suitable for wiring as Deps.NodeFactory.
func NewFactory(registry *Registry) platform.NodeFactory {
	return func(nodePath string, p *platform.Platform, cache platform.Cache, log enblog.Logger) (platform.Node, error) {
		return &Node{
			path:     nodePath,
			dir:      filepath.Join(p.GetDir(), nodePath),
			p:        p,
			cache:    cache,
			log:      log,
			registry: registry,
		}, nil
	}
}

func (n *Node) Path() string { return n.path }

func (n *Node) ApplySettings(settings platform.NodeSettings) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.settings = settings
}

// LoadTechs verifies every configured tech name resolves against the
// shared registry, failing fast rather than at build time.
func (n *Node) LoadTechs(ctx context.Context) error {
	n.mu.Lock()
	techs := append([]string(nil), n.settings.Techs...)
	n.mu.Unlock()

	for _, name := range techs {
		if _, ok := n.registry.lookup(name); !ok {
			return fmt.Errorf("node %s: unknown tech %q", n.path, name)
		}
	}
	return nil
}

// Build runs every configured tech against the node's globbed build
// sources and returns the flattened list of produced targets. "*" means
// "run every configured tech".
func (n *Node) Build(ctx context.Context, targets []string) ([]string, error) {
	n.mu.Lock()
	techs := append([]string(nil), n.settings.Techs...)
	sources := append([]string(nil), n.settings.BuildTargets...)
	n.mu.Unlock()

	files, err := n.glob(sources)
	if err != nil {
		return nil, err
	}

	var built []string
	for _, name := range techs {
		if !wantsTech(targets, name) {
			continue
		}
		fn, ok := n.registry.lookup(name)
		if !ok {
			return nil, fmt.Errorf("node %s: unknown tech %q", n.path, name)
		}
		out, err := fn(ctx, files)
		if err != nil {
			return nil, fmt.Errorf("node %s: tech %q: %w", n.path, name, err)
		}
		built = append(built, out...)
	}
	return built, nil
}

// Clean runs each tech named in the node's clean targets (by convention
// "clean:X"), selected by targets the same way Build selects techs. The
// tech is called with no files; removing outputs is left to the tech
// itself.
func (n *Node) Clean(ctx context.Context, targets []string) error {
	n.mu.Lock()
	cleanTechs := append([]string(nil), n.settings.CleanTargets...)
	n.mu.Unlock()

	for _, name := range cleanTechs {
		if !wantsTech(targets, name) {
			continue
		}
		fn, ok := n.registry.lookup(name)
		if !ok {
			return fmt.Errorf("node %s: unknown clean tech %q", n.path, name)
		}
		if _, err := fn(ctx, nil); err != nil {
			return fmt.Errorf("node %s: clean tech %q: %w", n.path, name, err)
		}
	}
	return nil
}

// RequireSources globs sources relative to the node directory, failing
// if none match.
func (n *Node) RequireSources(ctx context.Context, sources []string) error {
	files, err := n.glob(sources)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("node %s: no sources matched %v", n.path, sources)
	}
	return nil
}

func (n *Node) SetLogger(log enblog.Logger) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.log = log
}

func (n *Node) Destruct(ctx context.Context) error { return nil }

func (n *Node) glob(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"**"}
	}

	fsys := os.DirFS(n.dir)
	var matched []string
	for _, pattern := range patterns {
		files, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("node %s: glob %q: %w", n.path, pattern, err)
		}
		matched = append(matched, files...)
	}
	return matched, nil
}

func wantsTech(targets []string, tech string) bool {
	for _, t := range targets {
		if t == "*" || t == tech {
			return true
		}
	}
	return false
}

