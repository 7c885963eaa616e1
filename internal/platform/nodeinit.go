package platform

import (
	"context"
	"path/filepath"

	"github.com/zxqfox/enb/internal/core"
	"github.com/zxqfox/enb/internal/enberr"
)

// nodeInitFuture memoizes the outcome of initializing one node path. The
// future is registered in Platform.nodeInitPromise before its goroutine
// starts, so concurrent callers always observe the same outcome.
type nodeInitFuture struct {
	done chan struct{}
	node Node
	err  error
}

func (f *nodeInitFuture) wait(ctx context.Context) (Node, error) {
	select {
	case <-f.done:
		return f.node, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// initNode ensures nodePath is initialized exactly once for the lifetime
// of the platform.
func (p *Platform) initNode(ctx context.Context, nodePath string) (Node, error) {
	p.mu.Lock()
	future, exists := p.nodeInitPromise[nodePath]
	if !exists {
		future = &nodeInitFuture{done: make(chan struct{})}
		p.nodeInitPromise[nodePath] = future
		p.mu.Unlock()
		go p.runNodeInit(ctx, nodePath, future)
	} else {
		p.mu.Unlock()
	}
	return future.wait(ctx)
}

func (p *Platform) runNodeInit(ctx context.Context, nodePath string, future *nodeInitFuture) {
	defer close(future.done)
	node, err := p.initNodeOnce(ctx, nodePath)
	future.node = node
	future.err = err
}

func (p *Platform) initNodeOnce(ctx context.Context, nodePath string) (Node, error) {
	dir := filepath.Join(p.projectDir, nodePath)
	if err := core.EnsureDir(dir); err != nil {
		return nil, enberr.New(err, enberr.NodeInitError, map[string]any{"node": nodePath})
	}

	log := p.logger.With("node", nodePath)
	node, err := p.deps.NodeFactory(nodePath, p, p.cache, log)
	if err != nil {
		return nil, enberr.New(err, enberr.NodeInitError, map[string]any{"node": nodePath})
	}

	p.mu.Lock()
	p.nodes[nodePath] = node
	p.mu.Unlock()
	p.buildGraph.AddNode(nodePath)
	p.deps.Metrics.IncNodeInit()

	entry, ok := p.projectConfig.Node(nodePath)
	if !ok {
		return nil, enberr.Newf(enberr.NodeInitError, map[string]any{"node": nodePath},
			"no node-config registered for %s", nodePath)
	}

	builder := newNodeBuilder()
	builder.mode = p.mode
	if entry.Configure != nil {
		if err := entry.Configure(ctx, builder); err != nil {
			return nil, enberr.New(err, enberr.NodeInitError, map[string]any{"node": nodePath})
		}
	}

	for _, mask := range p.projectConfig.NodeMasksFor(nodePath) {
		if mask.Configure == nil {
			continue
		}
		if err := mask.Configure(ctx, builder); err != nil {
			return nil, enberr.New(err, enberr.NodeInitError,
				map[string]any{"node": nodePath, "mask": mask.Mask})
		}
	}

	if entry.ModeConfigure != nil {
		if modeFn, ok := entry.ModeConfigure[p.mode]; ok {
			if err := modeFn(ctx, builder); err != nil {
				return nil, enberr.New(err, enberr.NodeInitError,
					map[string]any{"node": nodePath, "mode": p.mode})
			}
		}
	}

	if len(builder.languages) == 0 {
		builder.languages = p.languages
	}
	builder.buildState = p.buildState

	if err := applyNodeOverride(dir, builder); err != nil {
		return nil, enberr.New(err, enberr.NodeInitError, map[string]any{"node": nodePath})
	}

	node.ApplySettings(builder.settings())

	if err := node.LoadTechs(ctx); err != nil {
		return nil, enberr.New(err, enberr.NodeInitError, map[string]any{"node": nodePath})
	}

	return node, nil
}

// applyNodeOverride layers an optional {nodeDir}/node.yaml file on top of
// whatever the rule file's base/mask/mode configs already accumulated: it
// can widen a node's language set and add env values without touching
// Lua. A missing file is a no-op.
func applyNodeOverride(nodeDir string, builder *nodeBuilder) error {
	var override core.NodeOverride
	if err := core.LoadConfig(filepath.Join(nodeDir, "node.yaml"), &override); err != nil {
		return err
	}
	if len(override.Languages) > 0 {
		builder.languages = append(builder.languages, override.Languages...)
	}
	if len(override.Env) > 0 {
		merged, err := builder.env.Merge(core.EnvMap(override.Env))
		if err != nil {
			return err
		}
		builder.env = merged
	}
	return nil
}
