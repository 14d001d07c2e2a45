// Package mcts scores and selects reasoning branches over the thought tree
// using UCB1-guided Monte Carlo tree search.
package mcts

import (
	"fmt"
	"math"
	"sort"

	apperr "github.com/gothink/gothink/pkg/errors"
	"github.com/gothink/gothink/pkg/tree"
)

// maxAlternatives caps the runner-up list in a suggestion.
const maxAlternatives = 3

// Strategy selects the explore/exploit balance for suggestions.
type Strategy string

const (
	StrategyExplore  Strategy = "explore"
	StrategyExploit  Strategy = "exploit"
	StrategyBalanced Strategy = "balanced"
)

// ParseStrategy parses a strategy name. The empty string means balanced.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "":
		return StrategyBalanced, nil
	case StrategyExplore, StrategyExploit, StrategyBalanced:
		return Strategy(s), nil
	default:
		return "", apperr.NewValidation("INVALID_STRATEGY",
			fmt.Sprintf("unknown strategy %q (want explore, exploit or balanced)", s))
	}
}

// ExplorationConstant returns the UCB1 constant for the strategy. Unknown
// strategies fall back to balanced.
func (s Strategy) ExplorationConstant() float64 {
	switch s {
	case StrategyExplore:
		return 2.0
	case StrategyExploit:
		return 0.5
	default:
		return math.Sqrt2
	}
}

// UCB1 computes the upper confidence bound for a node. Unvisited nodes score
// +Inf so they are always explored first.
func UCB1(visits int64, value float64, parentVisits int64, c float64) float64 {
	if visits == 0 {
		return math.Inf(1)
	}
	exploitation := value / float64(visits)
	exploration := c * math.Sqrt(math.Log(float64(parentVisits))/float64(visits))
	return exploitation + exploration
}

// Candidate is one scored expandable node.
type Candidate struct {
	Node      *tree.Node `json:"node"`
	Score     float64    `json:"-"`
	Rationale string     `json:"rationale"`
}

// Suggestion is the engine's pick of the next node to expand, with up to
// three runners-up for context.
type Suggestion struct {
	Node         *tree.Node  `json:"node"`
	Score        float64     `json:"-"`
	Rationale    string      `json:"rationale"`
	Strategy     Strategy    `json:"strategy"`
	TotalVisits  int64       `json:"total_visits"`
	Alternatives []Candidate `json:"alternatives,omitempty"`
}

// TreeStats aggregates search statistics over the whole tree. All fields are
// zero for an empty tree.
type TreeStats struct {
	NodeCount        int     `json:"node_count"`
	MaxDepth         int     `json:"max_depth"`
	UnvisitedCount   int     `json:"unvisited_count"`
	TerminalCount    int     `json:"terminal_count"`
	AvgValuePerVisit float64 `json:"avg_value_per_visit"`
}

// engineLogger is the minimal logger interface used by Engine.
type engineLogger interface {
	Debug(msg string, args ...any)
}

// nopEngineLogger is a no-op logger.
type nopEngineLogger struct{}

func (n *nopEngineLogger) Debug(msg string, args ...any) {}

// Engine runs UCB1 selection, backpropagation and path extraction. It holds
// no tree state; every call operates on the tree it is given.
type Engine struct {
	logger engineLogger
}

// NewEngine creates an engine.
func NewEngine(logger engineLogger) *Engine {
	if logger == nil {
		logger = &nopEngineLogger{}
	}
	return &Engine{logger: logger}
}

// Backpropagate adds reward along the ancestor path of nodeID, the node
// itself included, incrementing each visit count once. Returns how many
// nodes were updated.
func (e *Engine) Backpropagate(t *tree.Tree, nodeID string, reward float64) (int, error) {
	path, err := t.AncestorPath(nodeID)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, node := range path {
		if err := t.AddReward(node.ID, reward); err != nil {
			return updated, err
		}
		updated++
	}

	e.logger.Debug("backpropagated reward",
		"node_id", nodeID,
		"reward", reward,
		"updated", updated,
	)
	return updated, nil
}

// SuggestNext scores every expandable node under the strategy and returns
// the best candidate plus up to three runners-up. A tree with no expandable
// nodes yields a nil suggestion and no error.
func (e *Engine) SuggestNext(t *tree.Tree, strategy Strategy) (*Suggestion, error) {
	expandable := t.ExpandableNodes()
	if len(expandable) == 0 {
		return nil, nil
	}

	// Shared parent-visit proxy across siblings-at-large.
	var totalVisits int64
	for _, node := range expandable {
		totalVisits += node.VisitCount
	}
	if totalVisits < 1 {
		totalVisits = 1
	}

	c := strategy.ExplorationConstant()
	candidates := make([]Candidate, 0, len(expandable))
	for _, node := range expandable {
		score := UCB1(node.VisitCount, node.TotalValue, totalVisits, c)
		candidates = append(candidates, Candidate{
			Node:      node,
			Score:     score,
			Rationale: rationaleFor(node, score),
		})
	}

	// Stable sort keeps insertion order among equal scores, so ties go to
	// the first-encountered node.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	best := candidates[0]
	alternatives := candidates[1:]
	if len(alternatives) > maxAlternatives {
		alternatives = alternatives[:maxAlternatives]
	}

	e.logger.Debug("suggested next node",
		"node_id", best.Node.ID,
		"strategy", string(strategy),
		"rationale", best.Rationale,
		"candidates", len(candidates),
	)

	return &Suggestion{
		Node:         best.Node,
		Score:        best.Score,
		Rationale:    best.Rationale,
		Strategy:     strategy,
		TotalVisits:  totalVisits,
		Alternatives: alternatives,
	}, nil
}

func rationaleFor(node *tree.Node, score float64) string {
	if node.VisitCount == 0 {
		return "unexplored"
	}
	return fmt.Sprintf("ucb1 score %.4f", score)
}

// BestPath walks from the root following the child with the highest average
// value, ties broken by first-encountered, and returns the full path
// including the root. An empty tree yields an empty path.
func (e *Engine) BestPath(t *tree.Tree) []*tree.Node {
	root, ok := t.Root()
	if !ok {
		return nil
	}

	path := []*tree.Node{root}
	current := root
	for {
		children, err := t.Children(current.ID)
		if err != nil || len(children) == 0 {
			break
		}

		best := children[0]
		for _, child := range children[1:] {
			if child.AvgValue() > best.AvgValue() {
				best = child
			}
		}
		path = append(path, best)
		current = best
	}
	return path
}

// Stats aggregates node, depth, visit and value statistics for the tree.
func (e *Engine) Stats(t *tree.Tree) TreeStats {
	var stats TreeStats
	var totalValue float64
	var totalVisits int64

	for _, node := range t.AllNodes() {
		stats.NodeCount++
		if node.Depth > stats.MaxDepth {
			stats.MaxDepth = node.Depth
		}
		if node.VisitCount == 0 {
			stats.UnvisitedCount++
		}
		if node.IsTerminal {
			stats.TerminalCount++
		}
		totalValue += node.TotalValue
		totalVisits += node.VisitCount
	}

	if totalVisits > 0 {
		stats.AvgValuePerVisit = totalValue / float64(totalVisits)
	}
	return stats
}
