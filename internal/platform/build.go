package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/zxqfox/enb/internal/core"
	"github.com/zxqfox/enb/internal/enberr"
	"github.com/zxqfox/enb/internal/enblog"
	"golang.org/x/sync/errgroup"
)

// BuildResult aggregates the flat list of targets built across all
// resolved nodes.
type BuildResult struct {
	// ExecutionID identifies this one build invocation; it is logged with
	// "build started".
	ExecutionID core.ID
	BuiltTargets []string
}

// Build dispatches targets: if targets[0] names a registered task, it is
// a task invocation; otherwise targets is a list of build targets.
func (p *Platform) Build(ctx context.Context, targets []string) (*BuildResult, error) {
	execID := core.MustNewID()
	start := time.Now()
	p.logger.Info("build started", "execution", execID)

	result, err := p.build(ctx, targets)
	if result != nil {
		result.ExecutionID = execID
	}
	elapsed := time.Since(start)
	if err != nil {
		p.logger.Error("build failed", "error", err)
		p.deps.Metrics.ObserveBuild("failure", elapsed.Seconds())
		return nil, err
	}

	p.logger.Info(fmt.Sprintf("build finished - %dms", elapsed.Milliseconds()))
	p.deps.Metrics.ObserveBuild("success", elapsed.Seconds())
	p.disableNodeLoggers()
	return result, nil
}

func (p *Platform) build(ctx context.Context, targets []string) (*BuildResult, error) {
	if len(targets) > 0 {
		if _, ok := p.projectConfig.Task(targets[0]); ok {
			value, err := p.BuildTask(ctx, targets[0], targets[1:])
			if err != nil {
				return nil, err
			}
			if result, ok := value.(*BuildResult); ok {
				return result, nil
			}
			return &BuildResult{}, nil
		}
	}
	return p.BuildTargets(ctx, targets)
}

func (p *Platform) disableNodeLoggers() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, node := range p.nodes {
		node.SetLogger(enblog.Disabled())
	}
}

// BuildTargets resolves targets, initializes every resolved node
// concurrently, then builds each node's sub-targets concurrently.
func (p *Platform) BuildTargets(ctx context.Context, targets []string) (*BuildResult, error) {
	if err := p.requireNotDestructed(); err != nil {
		return nil, err
	}
	p.cache = p.deps.NewCache(p.cacheStorage, p.projectName)

	resolved, err := p.ResolveTargets(targets)
	if err != nil {
		return nil, err
	}

	nodes, err := p.initAll(ctx, resolved)
	if err != nil {
		return nil, err
	}

	group, gctx := errgroup.WithContext(ctx)
	built := make([][]string, len(resolved))
	for i, rn := range resolved {
		i, rn, node := i, rn, nodes[i]
		group.Go(func() error {
			targets, err := node.Build(gctx, rn.Targets)
			if err != nil {
				return enberr.New(err, enberr.NodeBuildError, map[string]any{"node": rn.NodePath})
			}
			built[i] = targets
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	result := &BuildResult{}
	for _, targets := range built {
		result.BuiltTargets = append(result.BuiltTargets, targets...)
	}
	return result, nil
}

// CleanTargets mirrors BuildTargets but calls each node's Clean and
// discards the result.
func (p *Platform) CleanTargets(ctx context.Context, targets []string) error {
	if err := p.requireNotDestructed(); err != nil {
		return err
	}
	p.cache = p.deps.NewCache(p.cacheStorage, p.projectName)

	resolved, err := p.ResolveTargets(targets)
	if err != nil {
		return err
	}

	nodes, err := p.initAll(ctx, resolved)
	if err != nil {
		return err
	}

	group, gctx := errgroup.WithContext(ctx)
	for i, rn := range resolved {
		rn, node := rn, nodes[i]
		group.Go(func() error {
			if err := node.Clean(gctx, rn.Targets); err != nil {
				return enberr.New(err, enberr.NodeCleanError, map[string]any{"node": rn.NodePath})
			}
			return nil
		})
	}
	return group.Wait()
}

// initAll initializes every resolved node concurrently and waits for all
// of them before any build/clean begins.
func (p *Platform) initAll(ctx context.Context, resolved []ResolvedNode) ([]Node, error) {
	nodes := make([]Node, len(resolved))
	group, gctx := errgroup.WithContext(ctx)
	for i, rn := range resolved {
		i, rn := i, rn
		group.Go(func() error {
			node, err := p.initNode(gctx, rn.NodePath)
			if err != nil {
				return err
			}
			nodes[i] = node
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return nodes, nil
}

// InitTargets resolves targets and initializes every resolved node
// without building or cleaning anything, used by tooling that only
// needs nodes to exist (e.g. graph visualization).
func (p *Platform) InitTargets(ctx context.Context, targets []string) error {
	if err := p.requireNotDestructed(); err != nil {
		return err
	}
	if p.cache == nil {
		p.cache = p.deps.NewCache(p.cacheStorage, p.projectName)
	}

	resolved, err := p.ResolveTargets(targets)
	if err != nil {
		return err
	}
	_, err = p.initAll(ctx, resolved)
	return err
}

// RequireNodeSources initializes nodePath then asks it to require the
// given sources.
func (p *Platform) RequireNodeSources(ctx context.Context, nodePath string, sources []string) error {
	node, err := p.initNode(ctx, nodePath)
	if err != nil {
		return err
	}
	return node.RequireSources(ctx, sources)
}
