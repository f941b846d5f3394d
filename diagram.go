package mckp

import (
	"context"
	"fmt"
)

// Diagram is a layered decision diagram of every feasible configuration.
//
// Layer c holds one node per remaining capacity reachable after choosing in
// categories 0..c-1. Each arc chooses one item of the layer's category, and
// every path from the root to OneNode is a configuration that fits the
// budget. States with equal (layer, remaining) are shared, so the diagram
// never exceeds categories × (capacity+1) nodes and is usually far smaller.
//
// Diagrams are immutable after Build.
type Diagram struct {
	root  NodeID
	nodes *NodeTable
	p     *problem
}

// newDiagram creates an empty diagram for a discretized problem.
func newDiagram(p *problem) *Diagram {
	return &Diagram{
		root:  NullNode,
		nodes: NewNodeTable(),
		p:     p,
	}
}

// Build constructs the diagram top-down from the full capacity.
//
// Returns an error if the context is cancelled during construction.
// A problem without feasible configurations yields a ZeroNode root.
func (d *Diagram) Build(ctx context.Context) error {
	root, err := d.buildRecursive(ctx, 0, d.p.capacity)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	d.root = root
	return nil
}

func (d *Diagram) buildRecursive(ctx context.Context, layer, remaining int) (NodeID, error) {
	if err := ctx.Err(); err != nil {
		return NullNode, err
	}

	if layer == d.p.categories() {
		return OneNode, nil
	}

	if existing := d.nodes.lookup(layer, remaining); existing != NullNode {
		return existing, nil
	}

	var arcs []Arc
	for i, w := range d.p.weights[layer] {
		if w > remaining {
			continue
		}
		child, err := d.buildRecursive(ctx, layer+1, remaining-w)
		if err != nil {
			return NullNode, err
		}
		if child == ZeroNode {
			continue
		}
		arcs = append(arcs, Arc{Item: i, Child: child})
	}

	return d.nodes.add(layer, remaining, arcs), nil
}

// Root returns the root node, NullNode before Build.
func (d *Diagram) Root() NodeID {
	return d.root
}

// Size returns the number of nodes, terminals included.
func (d *Diagram) Size() int {
	return d.nodes.Size()
}

// Layers returns the number of categories.
func (d *Diagram) Layers() int {
	return d.p.categories()
}

// GetNode retrieves a node by ID for traversal.
func (d *Diagram) GetNode(id NodeID) (Node, error) {
	return d.nodes.GetNode(id)
}

// Feasible reports whether at least one configuration fits the budget.
func (d *Diagram) Feasible() bool {
	return d.root != NullNode && d.root != ZeroNode
}
