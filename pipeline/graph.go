// Package pipeline wires the feature stages into an explicit directed acyclic
// graph of named table artifacts and runs them in dependency order.
package pipeline

import (
	"errors"
	"fmt"

	"airbnb-features/models"
	"airbnb-features/utils"
)

var (
	ErrCycle           = errors.New("pipeline: dependency cycle")
	ErrMissingArtifact = errors.New("pipeline: missing artifact")
	ErrDuplicateOutput = errors.New("pipeline: artifact produced twice")
	ErrUnknownTarget   = errors.New("pipeline: no node produces target")
)

// Catalog maps artifact names to tables.
type Catalog map[string]*models.Table

// StageFunc receives its input tables in port order and returns its outputs in port order.
type StageFunc func(in []*models.Table) ([]*models.Table, error)

// Node is one stage with named input and output ports.
type Node struct {
	Name    string
	Inputs  []string
	Outputs []string
	Run     StageFunc
}

// Graph is a set of nodes connected through artifact names.
type Graph struct {
	nodes    []Node
	producer map[string]int
	logger   *utils.Logger
}

func New(logger *utils.Logger) *Graph {
	return &Graph{producer: make(map[string]int), logger: logger}
}

// Add registers a node. Every artifact may have only one producer.
func (g *Graph) Add(n Node) error {
	for _, out := range n.Outputs {
		if prev, ok := g.producer[out]; ok {
			return fmt.Errorf("%q from %q and %q: %w", out, g.nodes[prev].Name, n.Name, ErrDuplicateOutput)
		}
	}
	for _, out := range n.Outputs {
		g.producer[out] = len(g.nodes)
	}
	g.nodes = append(g.nodes, n)
	return nil
}

// Nodes returns the registered nodes in registration order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Order sorts the nodes topologically. Among nodes that are ready at the same
// time, registration order wins, so the order is stable across runs.
func (g *Graph) Order() ([]Node, error) {
	indegree := make([]int, len(g.nodes))
	dependents := make([][]int, len(g.nodes))
	for i, n := range g.nodes {
		for _, in := range n.Inputs {
			p, ok := g.producer[in]
			if !ok {
				continue
			}
			indegree[i]++
			dependents[p] = append(dependents[p], i)
		}
	}

	done := make([]bool, len(g.nodes))
	order := make([]Node, 0, len(g.nodes))
	for len(order) < len(g.nodes) {
		next := -1
		for i := range g.nodes {
			if !done[i] && indegree[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, ErrCycle
		}
		done[next] = true
		order = append(order, g.nodes[next])
		for _, d := range dependents[next] {
			indegree[d]--
		}
	}
	return order, nil
}

// Narrow returns the subgraph of nodes needed to produce targets.
func (g *Graph) Narrow(targets ...string) (*Graph, error) {
	need := make(map[int]bool)
	var visit func(artifact string)
	visit = func(artifact string) {
		p, ok := g.producer[artifact]
		if !ok || need[p] {
			return
		}
		need[p] = true
		for _, in := range g.nodes[p].Inputs {
			visit(in)
		}
	}
	for _, t := range targets {
		if _, ok := g.producer[t]; !ok {
			return nil, fmt.Errorf("%q: %w", t, ErrUnknownTarget)
		}
		visit(t)
	}

	sub := New(g.logger)
	for i, n := range g.nodes {
		if need[i] {
			if err := sub.Add(n); err != nil {
				return nil, err
			}
		}
	}
	return sub, nil
}

// Inputs lists the artifacts no node produces, in first-use order.
func (g *Graph) Inputs() []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range g.nodes {
		for _, in := range n.Inputs {
			if _, produced := g.producer[in]; produced || seen[in] {
				continue
			}
			seen[in] = true
			out = append(out, in)
		}
	}
	return out
}

// Run executes every node in dependency order against a copy of inputs and
// returns the catalog holding inputs and every produced artifact.
func (g *Graph) Run(inputs Catalog) (Catalog, error) {
	order, err := g.Order()
	if err != nil {
		return nil, err
	}

	cat := make(Catalog, len(inputs))
	for k, v := range inputs {
		cat[k] = v
	}

	for _, n := range order {
		in := make([]*models.Table, len(n.Inputs))
		for i, name := range n.Inputs {
			t, ok := cat[name]
			if !ok {
				return nil, fmt.Errorf("node %q needs %q: %w", n.Name, name, ErrMissingArtifact)
			}
			in[i] = t
		}

		g.logger.Debug("[pipeline] Running node %s: %v -> %v", n.Name, n.Inputs, n.Outputs)
		out, err := n.Run(in)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.Name, err)
		}
		if len(out) != len(n.Outputs) {
			return nil, fmt.Errorf("node %q returned %d tables for %d outputs", n.Name, len(out), len(n.Outputs))
		}
		for i, name := range n.Outputs {
			cat[name] = out[i]
		}
	}
	return cat, nil
}
