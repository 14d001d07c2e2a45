// Package tree provides the arena-indexed reasoning tree searched by the
// MCTS engine.
package tree

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Tree is an arena of nodes keyed by opaque id. All access is synchronized;
// accessors return detached clones so callers can never mutate arena state.
type Tree struct {
	mu     sync.RWMutex
	nodes  map[string]*Node
	order  []string // insertion order, the tie-break order for traversals
	rootID string
}

// New creates an empty tree.
func New() *Tree {
	return &Tree{
		nodes: make(map[string]*Node),
	}
}

// AddNode inserts a copy of seed under parentID and returns the generated
// node id. An empty parentID creates the root; only one root may exist.
// Depth, id and link fields on the seed are ignored and assigned by the
// tree.
func (t *Tree) AddNode(parentID string, seed *Node) (string, error) {
	if seed == nil {
		return "", fmt.Errorf("node cannot be nil")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	node := seed.Clone()
	node.ID = uuid.NewString()
	node.ParentID = parentID
	node.Children = nil
	node.VisitCount = 0
	node.TotalValue = 0

	if parentID == "" {
		if t.rootID != "" {
			return "", &RootConflictError{ExistingID: t.rootID}
		}
		node.Depth = 0
		t.rootID = node.ID
	} else {
		parent, ok := t.nodes[parentID]
		if !ok {
			return "", &NodeNotFoundError{ID: parentID}
		}
		node.Depth = parent.Depth + 1
		parent.Children = append(parent.Children, node.ID)
	}

	t.nodes[node.ID] = node
	t.order = append(t.order, node.ID)
	return node.ID, nil
}

// Node retrieves a node by id.
func (t *Tree) Node(id string) (*Node, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	node, ok := t.nodes[id]
	if !ok {
		return nil, false
	}
	return node.Clone(), true
}

// Root returns the root node, if the tree is non-empty.
func (t *Tree) Root() (*Node, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.rootID == "" {
		return nil, false
	}
	return t.nodes[t.rootID].Clone(), true
}

// AncestorPath returns the path from the root to id, both ends included.
func (t *Tree) AncestorPath(id string) ([]*Node, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	node, ok := t.nodes[id]
	if !ok {
		return nil, &NodeNotFoundError{ID: id}
	}

	var reversed []*Node
	for node != nil {
		reversed = append(reversed, node.Clone())
		if node.ParentID == "" {
			break
		}
		node = t.nodes[node.ParentID]
	}

	path := make([]*Node, len(reversed))
	for i, n := range reversed {
		path[len(reversed)-1-i] = n
	}
	return path, nil
}

// Children returns a node's children in insertion order.
func (t *Tree) Children(id string) ([]*Node, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	node, ok := t.nodes[id]
	if !ok {
		return nil, &NodeNotFoundError{ID: id}
	}

	children := make([]*Node, 0, len(node.Children))
	for _, childID := range node.Children {
		if child, ok := t.nodes[childID]; ok {
			children = append(children, child.Clone())
		}
	}
	return children, nil
}

// ExpandableNodes returns non-terminal nodes in insertion order.
func (t *Tree) ExpandableNodes() []*Node {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var expandable []*Node
	for _, id := range t.order {
		if node := t.nodes[id]; node != nil && !node.IsTerminal {
			expandable = append(expandable, node.Clone())
		}
	}
	return expandable
}

// AllNodes returns every node in insertion order.
func (t *Tree) AllNodes() []*Node {
	t.mu.RLock()
	defer t.mu.RUnlock()

	all := make([]*Node, 0, len(t.order))
	for _, id := range t.order {
		if node := t.nodes[id]; node != nil {
			all = append(all, node.Clone())
		}
	}
	return all
}

// AddReward increments the node's visit count and accumulates reward. This
// is the only mutation path for the visit/value accumulators, which keeps
// the visit count monotonic.
func (t *Tree) AddReward(id string, reward float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	node, ok := t.nodes[id]
	if !ok {
		return &NodeNotFoundError{ID: id}
	}
	node.VisitCount++
	node.TotalValue += reward
	return nil
}

// BranchIDs returns the distinct branch labels present in the tree, sorted.
func (t *Tree) BranchIDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, node := range t.nodes {
		if node.BranchID != "" {
			seen[node.BranchID] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// BranchCount returns the number of distinct branch labels in the tree.
func (t *Tree) BranchCount() int {
	return len(t.BranchIDs())
}

// RemoveBranch removes every node labeled with branchID along with all
// descendants of those nodes, detaching them from surviving parents.
// Returns the removed ids, sorted.
func (t *Tree) RemoveBranch(branchID string) []string {
	if branchID == "" {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	doomed := make(map[string]struct{})
	var mark func(id string)
	mark = func(id string) {
		if _, done := doomed[id]; done {
			return
		}
		node, ok := t.nodes[id]
		if !ok {
			return
		}
		doomed[id] = struct{}{}
		for _, childID := range node.Children {
			mark(childID)
		}
	}
	for id, node := range t.nodes {
		if node.BranchID == branchID {
			mark(id)
		}
	}
	if len(doomed) == 0 {
		return nil
	}

	removed := make([]string, 0, len(doomed))
	for id := range doomed {
		removed = append(removed, id)
		delete(t.nodes, id)
	}

	// Detach removed ids from surviving children lists and ordering.
	for _, node := range t.nodes {
		kept := node.Children[:0]
		for _, childID := range node.Children {
			if _, gone := doomed[childID]; !gone {
				kept = append(kept, childID)
			}
		}
		node.Children = kept
	}
	keptOrder := t.order[:0]
	for _, id := range t.order {
		if _, gone := doomed[id]; !gone {
			keptOrder = append(keptOrder, id)
		}
	}
	t.order = keptOrder
	if _, gone := doomed[t.rootID]; gone {
		t.rootID = ""
	}

	sort.Strings(removed)
	return removed
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}

// IsEmpty reports whether the tree has no nodes.
func (t *Tree) IsEmpty() bool {
	return t.Len() == 0
}

// Clear removes all nodes.
func (t *Tree) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nodes = make(map[string]*Node)
	t.order = nil
	t.rootID = ""
}
