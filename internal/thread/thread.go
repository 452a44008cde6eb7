// Package thread builds comment trees from the flat rows the store returns.
// It is pure: no storage access, no rendering. The interactive reply cap is
// a presentation rule enforced here, not in the database, so existing deeper
// chains still display in full.
package thread

import (
	"github.com/iitconnect/iitconnect/pkg/models"
)

// MaxReplyDepth is the deepest level that still offers a reply action.
// Roots sit at depth 0.
const MaxReplyDepth = 3

// Node is one comment with its resolved children and depth.
type Node struct {
	Comment  models.Comment `json:"comment"`
	Depth    int            `json:"depth"`
	CanReply bool           `json:"can_reply"`
	Children []*Node        `json:"children,omitempty"`
}

// CanReply reports whether a comment at the given depth still accepts
// interactive replies.
func CanReply(depth int) bool {
	return depth < MaxReplyDepth
}

// Build assembles the forest for one forum from a flat slice ordered by
// creation time. Input order is preserved among siblings. Comments whose
// parent is missing from the slice are dropped; a consistent store never
// produces them.
func Build(comments []models.Comment) []*Node {
	byID := make(map[int64]*Node, len(comments))
	for i := range comments {
		byID[comments[i].ID] = &Node{Comment: comments[i]}
	}

	var roots []*Node
	for i := range comments {
		n := byID[comments[i].ID]
		if p := comments[i].ParentID; p != nil {
			parent, ok := byID[*p]
			if !ok {
				continue
			}
			parent.Children = append(parent.Children, n)
			continue
		}
		roots = append(roots, n)
	}

	for _, r := range roots {
		annotate(r, 0)
	}
	return roots
}

func annotate(n *Node, depth int) {
	n.Depth = depth
	n.CanReply = CanReply(depth)
	for _, c := range n.Children {
		annotate(c, depth+1)
	}
}

// Count returns the number of nodes in the forest.
func Count(roots []*Node) int {
	total := 0
	for _, r := range roots {
		total += 1 + Count(r.Children)
	}
	return total
}
