package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iitconnect/iitconnect/pkg/models"
	"github.com/iitconnect/iitconnect/pkg/repository"
)

func TestFollowEdges(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	mustUser(t, repo, "alice")
	mustUser(t, repo, "bob")

	if err := repo.Follow(ctx, "alice", "alice"); err == nil {
		t.Fatalf("expected error on self-follow")
	}
	if err := repo.Follow(ctx, "alice", "ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Follow(ctx, "alice", models.AnonymousUser); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for anonymous followee, got %v", err)
	}

	if err := repo.Follow(ctx, "alice", "bob"); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if err := repo.Follow(ctx, "alice", "bob"); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	followers, _ := repo.ListFollowers(ctx, "bob")
	if len(followers) != 1 || followers[0] != "alice" {
		t.Fatalf("unexpected followers: %v", followers)
	}
	following, _ := repo.ListFollowing(ctx, "alice")
	if len(following) != 1 || following[0] != "bob" {
		t.Fatalf("unexpected following: %v", following)
	}

	if err := repo.Unfollow(ctx, "alice", "bob"); err != nil {
		t.Fatalf("Unfollow: %v", err)
	}
	if err := repo.Unfollow(ctx, "alice", "bob"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second unfollow, got %v", err)
	}
}

func TestToggleBookmark(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	mustUser(t, repo, "alice")
	postID := mustPost(t, repo, "alice", models.TypeResource)

	if _, err := repo.ToggleBookmark(ctx, "alice", 9999); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	saved, err := repo.ToggleBookmark(ctx, "alice", postID)
	if err != nil {
		t.Fatalf("ToggleBookmark: %v", err)
	}
	if !saved {
		t.Fatalf("expected saved=true on first toggle")
	}
	list, _ := repo.ListBookmarked(ctx, "alice")
	if len(list) != 1 || list[0].ID != postID {
		t.Fatalf("unexpected bookmarks: %+v", list)
	}

	saved, err = repo.ToggleBookmark(ctx, "alice", postID)
	if err != nil {
		t.Fatalf("ToggleBookmark: %v", err)
	}
	if saved {
		t.Fatalf("expected saved=false on second toggle")
	}
	list, _ = repo.ListBookmarked(ctx, "alice")
	if len(list) != 0 {
		t.Fatalf("expected empty bookmarks, got %+v", list)
	}
}

func TestNotifications(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	mustUser(t, repo, "alice")

	// self and anonymous targets are dropped
	if err := repo.Notify(ctx, "alice", "alice", "noop"); err != nil {
		t.Fatalf("Notify self: %v", err)
	}
	if err := repo.Notify(ctx, models.AnonymousUser, "alice", "noop"); err != nil {
		t.Fatalf("Notify anonymous: %v", err)
	}
	if n, _ := repo.UnreadCount(ctx, "alice"); n != 0 {
		t.Fatalf("expected 0 unread, got %d", n)
	}

	for _, msg := range []string{"one", "two", "three"} {
		if err := repo.Notify(ctx, "alice", "bob", msg); err != nil {
			t.Fatalf("Notify: %v", err)
		}
	}
	if n, _ := repo.UnreadCount(ctx, "alice"); n != 3 {
		t.Fatalf("expected 3 unread, got %d", n)
	}

	recent, err := repo.ListRecent(ctx, "alice", 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(recent) != 2 || recent[0].Message != "three" {
		t.Fatalf("unexpected recent list: %+v", recent)
	}

	if err := repo.MarkAllRead(ctx, "alice"); err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if n, _ := repo.UnreadCount(ctx, "alice"); n != 0 {
		t.Fatalf("expected 0 unread after mark, got %d", n)
	}
}

func TestReportsAndCourseRequests(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	mustUser(t, repo, "alice")
	postID := mustPost(t, repo, "alice", models.TypeResource)

	id, err := repo.CreateReport(ctx, &models.Report{Reporter: "alice", PostID: postID, Reason: "spam"})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected non-zero report id")
	}
	reports, err := repo.ListReports(ctx)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(reports) != 1 || reports[0].Status != "pending" {
		t.Fatalf("unexpected reports: %+v", reports)
	}

	if _, err := repo.CreateCourseRequest(ctx, &models.CourseRequest{Username: "alice", CourseName: "Signals", Reason: "exam prep"}); err != nil {
		t.Fatalf("CreateCourseRequest: %v", err)
	}
	reqs, err := repo.ListCourseRequests(ctx)
	if err != nil {
		t.Fatalf("ListCourseRequests: %v", err)
	}
	if len(reqs) != 1 || reqs[0].CourseName != "Signals" {
		t.Fatalf("unexpected course requests: %+v", reqs)
	}
}
