package mckp

import (
	"fmt"
	"sync"
)

// NodeID identifies a node of a decision diagram.
// IDs are assigned sequentially and stay valid for the lifetime of the table.
type NodeID uint32

// Special node IDs for terminals and invalid references.
const (
	// NullNode represents an invalid or uninitialized node reference.
	NullNode NodeID = 0

	// ZeroNode is the rejecting terminal: no completion fits the budget.
	ZeroNode NodeID = 1

	// OneNode is the accepting terminal: every category has been filled.
	OneNode NodeID = 2
)

// Arc is an outgoing edge of a node: choosing Item of the node's category
// leads to Child.
type Arc struct {
	Item  int
	Child NodeID
}

// Node is a decision point for one category.
//
// Node invariants:
//   - Layer is the category index; terminals carry the layer count
//   - Remaining is the scaled capacity left before choosing in this layer
//   - Arcs are in listed item order and never point to ZeroNode
type Node struct {
	Layer     int
	Remaining int
	Arcs      []Arc
}

// IsTerminal reports whether the node is ZeroNode or OneNode.
func (n Node) IsTerminal() bool {
	return len(n.Arcs) == 0
}

// stateKey identifies equivalent states: same layer, same remaining capacity.
type stateKey struct {
	layer     int
	remaining int
}

// NodeTable stores diagram nodes and deduplicates them by state.
//
// Nodes are never deleted once created to keep NodeIDs valid.
type NodeTable struct {
	mu sync.RWMutex

	nodes []Node

	// states maps a (layer, remaining) state to its node
	states map[stateKey]NodeID
}

// NewNodeTable creates a table holding only the null and terminal nodes.
func NewNodeTable() *NodeTable {
	return &NodeTable{
		nodes:  make([]Node, 3),
		states: make(map[stateKey]NodeID),
	}
}

// GetNode retrieves a node by ID.
func (nt *NodeTable) GetNode(id NodeID) (Node, error) {
	nt.mu.RLock()
	defer nt.mu.RUnlock()

	if id == NullNode || int(id) >= len(nt.nodes) {
		return Node{}, fmt.Errorf("%w: node ID %d", ErrInvalidConfiguration, id)
	}
	return nt.nodes[id], nil
}

// lookup returns the node already built for a state, or NullNode.
func (nt *NodeTable) lookup(layer, remaining int) NodeID {
	nt.mu.RLock()
	defer nt.mu.RUnlock()
	return nt.states[stateKey{layer, remaining}]
}

// add registers the node for a state. A state without arcs collapses to
// ZeroNode so that no arc ever leads to a dead end.
func (nt *NodeTable) add(layer, remaining int, arcs []Arc) NodeID {
	nt.mu.Lock()
	defer nt.mu.Unlock()

	key := stateKey{layer, remaining}
	if len(arcs) == 0 {
		nt.states[key] = ZeroNode
		return ZeroNode
	}
	if existing, ok := nt.states[key]; ok {
		return existing
	}

	id := NodeID(len(nt.nodes))
	nt.nodes = append(nt.nodes, Node{Layer: layer, Remaining: remaining, Arcs: arcs})
	nt.states[key] = id
	return id
}

// Size returns the number of nodes, terminals included.
func (nt *NodeTable) Size() int {
	nt.mu.RLock()
	defer nt.mu.RUnlock()
	return len(nt.nodes) - 1
}
