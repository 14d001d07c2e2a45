package tree

// Node is one thought in the reasoning tree. The tree owns all nodes
// exclusively; links are opaque ids, never pointers, so subtrees can be
// pruned or the tree serialized without dangling references.
type Node struct {
	// ID is the opaque node identifier assigned by the tree.
	ID string `json:"id"`

	// ParentID is empty for the root.
	ParentID string `json:"parent_id,omitempty"`

	// Children holds child ids in insertion order.
	Children []string `json:"children,omitempty"`

	// ThoughtNumber is the sequence number of the underlying thought.
	ThoughtNumber int `json:"thought_number"`

	// Thought is the reasoning text.
	Thought string `json:"thought"`

	// BranchID labels nodes that belong to a named branch.
	BranchID string `json:"branch_id,omitempty"`

	// Depth is 0 for the root and parent depth + 1 otherwise.
	Depth int `json:"depth"`

	// VisitCount only grows, via backpropagation.
	VisitCount int64 `json:"visit_count"`

	// TotalValue is the sum of backpropagated rewards.
	TotalValue float64 `json:"total_value"`

	// IsTerminal excludes the node from expansion candidates.
	IsTerminal bool `json:"is_terminal"`
}

// AvgValue returns the mean backpropagated reward, 0 for unvisited nodes.
func (n *Node) AvgValue() float64 {
	if n.VisitCount == 0 {
		return 0
	}
	return n.TotalValue / float64(n.VisitCount)
}

// Clone returns a detached copy.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	clone := *n
	clone.Children = append([]string(nil), n.Children...)
	return &clone
}
