package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iitconnect/iitconnect/pkg/models"
	"github.com/iitconnect/iitconnect/pkg/repository"
)

func TestCreatePostBumpsCounters(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	mustUser(t, repo, "alice")
	id := mustPost(t, repo, "alice", models.TypeResource)

	p, err := repo.GetPost(ctx, id)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if p.Author != "alice" || p.Votes != 0 || p.IsVerified {
		t.Fatalf("unexpected post: %+v", p)
	}

	u, _ := repo.GetUser(ctx, "alice")
	if u.PostsCount != 1 || u.Reputation != 5 {
		t.Fatalf("counters not bumped: posts=%d rep=%d", u.PostsCount, u.Reputation)
	}

	// anonymous doubts carry no counters
	mustPost(t, repo, models.AnonymousUser, models.TypeDoubt)
	if _, err := repo.GetUser(ctx, models.AnonymousUser); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected no anonymous account, got %v", err)
	}

	if _, err := repo.CreatePost(ctx, &models.Post{Author: "alice", Type: models.PostType("ESSAY")}); err == nil {
		t.Fatalf("expected error for invalid post type")
	}
}

func TestListAndSearchPosts(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	mustUser(t, repo, "alice")
	if _, err := repo.CreatePost(ctx, &models.Post{Author: "alice", Subject: "Maths", Title: "Calculus notes", Tags: "integration,limits", Type: models.TypeResource}); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if _, err := repo.CreatePost(ctx, &models.Post{Author: "alice", Subject: "Physics", Title: "Optics doubt", Type: models.TypeDoubt}); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	all, err := repo.ListPosts(ctx, "", "", 0, 0)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(all))
	}

	maths, _ := repo.ListPosts(ctx, "Maths", "", 0, 0)
	if len(maths) != 1 || maths[0].Subject != "Maths" {
		t.Fatalf("subject filter failed: %+v", maths)
	}
	doubts, _ := repo.ListPosts(ctx, "", models.TypeDoubt, 0, 0)
	if len(doubts) != 1 || doubts[0].Type != models.TypeDoubt {
		t.Fatalf("type filter failed: %+v", doubts)
	}

	byTitle, _ := repo.SearchPosts(ctx, "calculus", 0, 0)
	if len(byTitle) != 1 {
		t.Fatalf("title search failed: %+v", byTitle)
	}
	byTag, _ := repo.SearchPosts(ctx, "limits", 0, 0)
	if len(byTag) != 1 {
		t.Fatalf("tag search failed: %+v", byTag)
	}
	none, _ := repo.SearchPosts(ctx, "chemistry", 0, 0)
	if len(none) != 0 {
		t.Fatalf("expected no matches, got %+v", none)
	}
}

func TestUpdateAndVerifyPost(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	mustUser(t, repo, "alice")
	mustUser(t, repo, "mallory")
	id := mustPost(t, repo, "alice", models.TypeResource)

	if err := repo.UpdatePost(ctx, id, "mallory", "stolen", "x"); !errors.Is(err, repository.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := repo.UpdatePost(ctx, id, "alice", "new title", "new body"); err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	p, _ := repo.GetPost(ctx, id)
	if p.Title != "new title" || p.Body != "new body" {
		t.Fatalf("post not updated: %+v", p)
	}

	if err := repo.SetVerified(ctx, id, true); err != nil {
		t.Fatalf("SetVerified: %v", err)
	}
	p, _ = repo.GetPost(ctx, id)
	if !p.IsVerified {
		t.Fatalf("expected verified post")
	}
	if err := repo.SetVerified(ctx, 9999, true); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeletePostCleansEverything(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	mustUser(t, repo, "asker")
	mustUser(t, repo, "helper")
	mustUser(t, repo, "voter")
	postID := mustPost(t, repo, "asker", models.TypeDoubt)
	answerID, err := repo.AddAnswer(ctx, &models.Answer{PostID: postID, Author: "helper", Body: "try this"})
	if err != nil {
		t.Fatalf("AddAnswer: %v", err)
	}
	if _, err := repo.CastVote(ctx, "voter", postID, models.KindPost, 1); err != nil {
		t.Fatalf("CastVote post: %v", err)
	}
	if _, err := repo.CastVote(ctx, "voter", answerID, models.KindAnswer, 1); err != nil {
		t.Fatalf("CastVote answer: %v", err)
	}
	mustComment(t, repo, postID, models.KindPost, nil, "voter", "same doubt")
	mustComment(t, repo, answerID, models.KindAnswer, nil, "asker", "thanks")
	if _, err := repo.ToggleBookmark(ctx, "voter", postID); err != nil {
		t.Fatalf("ToggleBookmark: %v", err)
	}

	if err := repo.DeletePost(ctx, postID, "helper"); !errors.Is(err, repository.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := repo.DeletePost(ctx, postID, "asker"); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}

	if _, err := repo.GetPost(ctx, postID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("post survived delete: %v", err)
	}
	answers, _ := repo.ListByPost(ctx, postID)
	if len(answers) != 0 {
		t.Fatalf("answers survived delete: %+v", answers)
	}
	if _, err := repo.GetVote(ctx, "voter", postID, models.KindPost); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("post ledger row survived: %v", err)
	}
	if _, err := repo.GetVote(ctx, "voter", answerID, models.KindAnswer); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("answer ledger row survived: %v", err)
	}
	comments, _ := repo.ListThread(ctx, postID, models.KindPost)
	if len(comments) != 0 {
		t.Fatalf("comments survived delete: %+v", comments)
	}
	saved, _ := repo.ListBookmarked(ctx, "voter")
	if len(saved) != 0 {
		t.Fatalf("bookmark survived delete: %+v", saved)
	}

	u, _ := repo.GetUser(ctx, "asker")
	if u.PostsCount != 0 {
		t.Fatalf("posts_count not decremented: %d", u.PostsCount)
	}
}

func TestAnswerLifecycle(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	mustUser(t, repo, "asker")
	mustUser(t, repo, "helper")
	doubtID := mustPost(t, repo, "asker", models.TypeDoubt)
	resourceID := mustPost(t, repo, "asker", models.TypeResource)

	// only doubts take answers
	if _, err := repo.AddAnswer(ctx, &models.Answer{PostID: resourceID, Author: "helper", Body: "nope"}); err == nil {
		t.Fatalf("expected error answering a resource")
	}
	if _, err := repo.AddAnswer(ctx, &models.Answer{PostID: 9999, Author: "helper", Body: "nope"}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.AddAnswer(ctx, &models.Answer{PostID: doubtID, Author: "helper", Body: "  "}); err == nil {
		t.Fatalf("expected error for blank body")
	}

	id, err := repo.AddAnswer(ctx, &models.Answer{PostID: doubtID, Author: "helper", Body: "first"})
	if err != nil {
		t.Fatalf("AddAnswer: %v", err)
	}
	u, _ := repo.GetUser(ctx, "helper")
	if u.AnswersCount != 1 || u.Reputation != 3 {
		t.Fatalf("answer counters: count=%d rep=%d", u.AnswersCount, u.Reputation)
	}
	// asker gets notified
	if n, _ := repo.UnreadCount(ctx, "asker"); n != 1 {
		t.Fatalf("expected answer notification, got %d", n)
	}

	if err := repo.UpdateAnswer(ctx, id, "asker", "hijack"); !errors.Is(err, repository.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := repo.UpdateAnswer(ctx, id, "helper", "revised"); err != nil {
		t.Fatalf("UpdateAnswer: %v", err)
	}

	if err := repo.DeleteAnswer(ctx, id, "helper"); err != nil {
		t.Fatalf("DeleteAnswer: %v", err)
	}
	u, _ = repo.GetUser(ctx, "helper")
	if u.AnswersCount != 0 || u.Reputation != 0 {
		t.Fatalf("counters after delete: count=%d rep=%d", u.AnswersCount, u.Reputation)
	}
	answers, _ := repo.ListByPost(ctx, doubtID)
	if len(answers) != 0 {
		t.Fatalf("answer survived delete: %+v", answers)
	}
}

func TestListByPostOrdersByVotes(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	mustUser(t, repo, "asker")
	mustUser(t, repo, "helper")
	mustUser(t, repo, "voter")
	doubtID := mustPost(t, repo, "asker", models.TypeDoubt)

	first, _ := repo.AddAnswer(ctx, &models.Answer{PostID: doubtID, Author: "helper", Body: "early"})
	second, _ := repo.AddAnswer(ctx, &models.Answer{PostID: doubtID, Author: "helper", Body: "better"})
	if _, err := repo.CastVote(ctx, "voter", second, models.KindAnswer, 1); err != nil {
		t.Fatalf("CastVote: %v", err)
	}

	answers, err := repo.ListByPost(ctx, doubtID)
	if err != nil {
		t.Fatalf("ListByPost: %v", err)
	}
	if len(answers) != 2 || answers[0].ID != second || answers[1].ID != first {
		t.Fatalf("unexpected order: %+v", answers)
	}
}
