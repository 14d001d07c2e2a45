package tree

import "fmt"

// TreeError is the base interface for all tree errors.
type TreeError interface {
	error
	// NodeID returns the node id associated with the error, if any.
	NodeID() string
}

// NodeNotFoundError is returned when a referenced node does not exist.
type NodeNotFoundError struct {
	ID string
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("node not found: %s", e.ID)
}

// NodeID returns the node id.
func (e *NodeNotFoundError) NodeID() string {
	return e.ID
}

// RootConflictError is returned when a second parentless node is added.
type RootConflictError struct {
	ExistingID string
}

func (e *RootConflictError) Error() string {
	return fmt.Sprintf("tree already has a root: %s", e.ExistingID)
}

// NodeID returns the existing root id.
func (e *RootConflictError) NodeID() string {
	return e.ExistingID
}
