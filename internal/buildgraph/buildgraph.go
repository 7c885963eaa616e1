// Package buildgraph implements the platform's append-only build-graph
// sink: every node the platform initializes is recorded for later
// visualization, dumped as YAML via github.com/goccy/go-yaml for a
// human-readable artifact. Edges are recorded only when a caller invokes
// AddEdge; the platform core itself adds nodes, not edges.
package buildgraph

import (
	"sync"

	"github.com/goccy/go-yaml"
)

// Edge is one declared node-to-node dependency.
type Edge struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Graph is the default platform.BuildGraph: an append-only, concurrency-safe
// node/edge log scoped to one project name.
type Graph struct {
	projectName string

	mu    sync.Mutex
	nodes []string
	seen  map[string]bool
	edges []Edge
}

// New constructs an empty Graph for projectName.
func New(projectName string) *Graph {
	return &Graph{projectName: projectName, seen: make(map[string]bool)}
}

func (g *Graph) AddNode(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.seen[path] {
		return
	}
	g.seen[path] = true
	g.nodes = append(g.nodes, path)
}

func (g *Graph) AddEdge(from, to string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.edges = append(g.edges, Edge{From: from, To: to})
}

// document is the shape written to a graph dump file.
type document struct {
	Project string   `yaml:"project"`
	Nodes   []string `yaml:"nodes"`
	Edges   []Edge   `yaml:"edges"`
}

// MarshalYAML renders the current graph snapshot as YAML, suitable for
// `enb graph` to write to disk or print.
func (g *Graph) MarshalYAML() ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	doc := document{Project: g.projectName, Nodes: g.nodes, Edges: g.edges}
	return yaml.Marshal(doc)
}
