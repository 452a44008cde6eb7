package thread_test

import (
	"testing"

	"github.com/iitconnect/iitconnect/internal/thread"
	"github.com/iitconnect/iitconnect/pkg/models"
)

func ptr(v int64) *int64 { return &v }

func comment(id int64, parent *int64, created int64) models.Comment {
	return models.Comment{ID: id, TargetID: 1, TargetKind: models.KindPost, ParentID: parent, Created: created}
}

func TestBuildPreservesSiblingOrder(t *testing.T) {
	flat := []models.Comment{
		comment(1, nil, 100),
		comment(2, nil, 200),
		comment(3, ptr(1), 300),
		comment(4, ptr(1), 400),
	}

	roots := thread.Build(flat)
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if roots[0].Comment.ID != 1 || roots[1].Comment.ID != 2 {
		t.Fatalf("root order lost: %d, %d", roots[0].Comment.ID, roots[1].Comment.ID)
	}
	kids := roots[0].Children
	if len(kids) != 2 || kids[0].Comment.ID != 3 || kids[1].Comment.ID != 4 {
		t.Fatalf("sibling order lost under root 1")
	}
	if len(roots[1].Children) != 0 {
		t.Fatalf("root 2 should be a leaf")
	}
	if thread.Count(roots) != 4 {
		t.Fatalf("Count = %d, want 4", thread.Count(roots))
	}
}

func TestBuildDepthAndReplyCap(t *testing.T) {
	// chain of 6: depths 0..5
	flat := []models.Comment{
		comment(1, nil, 1),
		comment(2, ptr(1), 2),
		comment(3, ptr(2), 3),
		comment(4, ptr(3), 4),
		comment(5, ptr(4), 5),
		comment(6, ptr(5), 6),
	}

	roots := thread.Build(flat)
	if len(roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(roots))
	}

	n := roots[0]
	for depth := 0; ; depth++ {
		if n.Depth != depth {
			t.Fatalf("node %d: depth = %d, want %d", n.Comment.ID, n.Depth, depth)
		}
		wantReply := depth < thread.MaxReplyDepth
		if n.CanReply != wantReply {
			t.Fatalf("node %d at depth %d: CanReply = %v, want %v", n.Comment.ID, depth, n.CanReply, wantReply)
		}
		if len(n.Children) == 0 {
			if depth != 5 {
				t.Fatalf("chain ended early at depth %d", depth)
			}
			break
		}
		n = n.Children[0]
	}
}

func TestBuildDropsOrphans(t *testing.T) {
	flat := []models.Comment{
		comment(1, nil, 1),
		comment(2, ptr(99), 2),
	}

	roots := thread.Build(flat)
	if len(roots) != 1 || roots[0].Comment.ID != 1 {
		t.Fatalf("unexpected forest: %+v", roots)
	}
	if thread.Count(roots) != 1 {
		t.Fatalf("orphan should be dropped")
	}
}

func TestBuildEmpty(t *testing.T) {
	if roots := thread.Build(nil); len(roots) != 0 {
		t.Fatalf("expected empty forest, got %d roots", len(roots))
	}
}
