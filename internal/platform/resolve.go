package platform

import (
	"sort"
	"strings"

	"github.com/zxqfox/enb/internal/enberr"
)

// ResolvedNode is one (node, sub-targets) pair produced by resolveTargets.
type ResolvedNode struct {
	NodePath string
	Targets  []string
}

// ResolveTargets maps user-supplied target strings to (node, sub-targets)
// pairs via longest-prefix matching.
func (p *Platform) ResolveTargets(inputs []string) ([]ResolvedNode, error) {
	nodePaths := append([]string(nil), p.projectConfig.NodePaths()...)

	if len(inputs) == 0 {
		result := make([]ResolvedNode, 0, len(nodePaths))
		for _, path := range nodePaths {
			result = append(result, ResolvedNode{NodePath: path, Targets: []string{"*"}})
		}
		return result, nil
	}

	sort.SliceStable(nodePaths, func(i, j int) bool {
		return len(nodePaths[i]) > len(nodePaths[j])
	})

	order := make([]string, 0, len(inputs))
	targetsByNode := make(map[string][]string, len(inputs))
	seenByNode := make(map[string]map[string]bool, len(inputs))

	for _, raw := range inputs {
		target := stripLeadingDots(raw)
		nodePath, subTarget, found := matchNode(nodePaths, target)
		if !found {
			return nil, enberr.Newf(enberr.TargetNotFound, map[string]any{"target": raw},
				"target not found: %s", raw)
		}
		if _, ok := seenByNode[nodePath]; !ok {
			seenByNode[nodePath] = make(map[string]bool)
			order = append(order, nodePath)
		}
		if !seenByNode[nodePath][subTarget] {
			seenByNode[nodePath][subTarget] = true
			targetsByNode[nodePath] = append(targetsByNode[nodePath], subTarget)
		}
	}

	result := make([]ResolvedNode, 0, len(order))
	for _, nodePath := range order {
		result = append(result, ResolvedNode{NodePath: nodePath, Targets: targetsByNode[nodePath]})
	}
	return result, nil
}

func stripLeadingDots(target string) string {
	for {
		trimmed := strings.TrimPrefix(target, "./")
		if trimmed == target {
			return target
		}
		target = trimmed
	}
}

func matchNode(nodePathsDescByLen []string, target string) (nodePath, subTarget string, found bool) {
	for _, np := range nodePathsDescByLen {
		if target == np {
			return np, "*", true
		}
		if !strings.HasPrefix(target, np) {
			continue
		}
		sep := target[len(np)]
		if sep != '/' && sep != '\\' {
			continue
		}
		return np, target[len(np)+1:], true
	}
	return "", "", false
}
