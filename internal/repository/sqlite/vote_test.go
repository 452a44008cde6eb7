package sqlite_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/iitconnect/iitconnect/pkg/models"
	"github.com/iitconnect/iitconnect/pkg/repository"
)

func TestCastVoteLedgerTransitions(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	mustUser(t, repo, "author")
	mustUser(t, repo, "voter")
	postID := mustPost(t, repo, "author", models.TypeResource)

	// first vote inserts
	res, err := repo.CastVote(ctx, "voter", postID, models.KindPost, 1)
	if err != nil {
		t.Fatalf("CastVote: %v", err)
	}
	if res.Total != 1 || res.Removed || res.Net != 1 {
		t.Fatalf("unexpected insert result: %+v", res)
	}

	// same direction again toggles off
	res, err = repo.CastVote(ctx, "voter", postID, models.KindPost, 1)
	if err != nil {
		t.Fatalf("CastVote toggle: %v", err)
	}
	if res.Total != 0 || !res.Removed || res.Net != -1 {
		t.Fatalf("unexpected toggle result: %+v", res)
	}
	if _, err := repo.GetVote(ctx, "voter", postID, models.KindPost); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ledger row gone, got %v", err)
	}

	// vote up then swing down: total moves by 2
	if _, err := repo.CastVote(ctx, "voter", postID, models.KindPost, 1); err != nil {
		t.Fatalf("CastVote: %v", err)
	}
	res, err = repo.CastVote(ctx, "voter", postID, models.KindPost, -1)
	if err != nil {
		t.Fatalf("CastVote swing: %v", err)
	}
	if res.Total != -1 || res.Removed || res.Net != -2 {
		t.Fatalf("unexpected swing result: %+v", res)
	}
	v, err := repo.GetVote(ctx, "voter", postID, models.KindPost)
	if err != nil {
		t.Fatalf("GetVote: %v", err)
	}
	if v.Direction != -1 {
		t.Fatalf("expected stored direction -1, got %d", v.Direction)
	}
}

func TestCastVoteUpdatesAuthorReputation(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	mustUser(t, repo, "author")
	mustUser(t, repo, "voter")
	postID := mustPost(t, repo, "author", models.TypeResource)

	// 1 post, 0 answers, 1 upvote: 2*1 + 5*1 = 7
	if _, err := repo.CastVote(ctx, "voter", postID, models.KindPost, 1); err != nil {
		t.Fatalf("CastVote: %v", err)
	}
	u, _ := repo.GetUser(ctx, "author")
	if u.UpvotesReceived != 1 || u.Reputation != 7 {
		t.Fatalf("after upvote: upvotes=%d rep=%d", u.UpvotesReceived, u.Reputation)
	}

	// swing to downvote: counter moves by -2
	if _, err := repo.CastVote(ctx, "voter", postID, models.KindPost, -1); err != nil {
		t.Fatalf("CastVote swing: %v", err)
	}
	u, _ = repo.GetUser(ctx, "author")
	if u.UpvotesReceived != -1 || u.Reputation != 3 {
		t.Fatalf("after swing: upvotes=%d rep=%d", u.UpvotesReceived, u.Reputation)
	}

	// toggle the downvote off: back to zero
	if _, err := repo.CastVote(ctx, "voter", postID, models.KindPost, -1); err != nil {
		t.Fatalf("CastVote toggle: %v", err)
	}
	u, _ = repo.GetUser(ctx, "author")
	if u.UpvotesReceived != 0 || u.Reputation != 5 {
		t.Fatalf("after toggle: upvotes=%d rep=%d", u.UpvotesReceived, u.Reputation)
	}
}

func TestCastVoteAnonymousAuthorExempt(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	mustUser(t, repo, "voter")
	postID := mustPost(t, repo, models.AnonymousUser, models.TypeDoubt)

	res, err := repo.CastVote(ctx, "voter", postID, models.KindPost, 1)
	if err != nil {
		t.Fatalf("CastVote: %v", err)
	}
	if res.Total != 1 {
		t.Fatalf("expected total 1, got %d", res.Total)
	}
	// the anonymous identity never appears in users
	if _, err := repo.GetUser(ctx, models.AnonymousUser); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected no anonymous account, got %v", err)
	}
}

func TestCastVoteMissingItem(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	mustUser(t, repo, "voter")
	if _, err := repo.CastVote(ctx, "voter", 9999, models.KindPost, 1); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.CastVote(ctx, "voter", 1, models.ItemKind("THING"), 1); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown kind, got %v", err)
	}
	if _, err := repo.CastVote(ctx, "voter", 1, models.KindPost, 3); err == nil {
		t.Fatalf("expected error for direction 3")
	}
}

func TestCastVoteAnswerKind(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	mustUser(t, repo, "asker")
	mustUser(t, repo, "helper")
	mustUser(t, repo, "voter")
	postID := mustPost(t, repo, "asker", models.TypeDoubt)
	a := &models.Answer{PostID: postID, Author: "helper", Body: "use induction"}
	answerID, err := repo.AddAnswer(ctx, a)
	if err != nil {
		t.Fatalf("AddAnswer: %v", err)
	}

	if _, err := repo.CastVote(ctx, "voter", answerID, models.KindAnswer, 1); err != nil {
		t.Fatalf("CastVote: %v", err)
	}
	answers, err := repo.ListByPost(ctx, postID)
	if err != nil {
		t.Fatalf("ListByPost: %v", err)
	}
	if len(answers) != 1 || answers[0].Votes != 1 {
		t.Fatalf("answer total not refreshed: %+v", answers)
	}
	// helper: 1 answer, 1 upvote: 2 + 3 = 5
	u, _ := repo.GetUser(ctx, "helper")
	if u.Reputation != 5 {
		t.Fatalf("helper reputation = %d, want 5", u.Reputation)
	}
}

// TestCastVoteTotalsMatchLedger drives a random voter sequence and checks the
// displayed total always equals the sum of live ledger rows.
func TestCastVoteTotalsMatchLedger(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	mustUser(t, repo, "author")
	voters := make([]string, 5)
	for i := range voters {
		voters[i] = fmt.Sprintf("voter%d", i)
		mustUser(t, repo, voters[i])
	}
	postID := mustPost(t, repo, "author", models.TypeResource)

	rng := rand.New(rand.NewSource(1))
	var lastTotal int64
	for i := 0; i < 200; i++ {
		voter := voters[rng.Intn(len(voters))]
		dir := 1
		if rng.Intn(2) == 0 {
			dir = -1
		}
		res, err := repo.CastVote(ctx, voter, postID, models.KindPost, dir)
		if err != nil {
			t.Fatalf("step %d: CastVote: %v", i, err)
		}
		lastTotal = res.Total

		var sum int64
		for _, v := range voters {
			row, err := repo.GetVote(ctx, v, postID, models.KindPost)
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			if err != nil {
				t.Fatalf("step %d: GetVote: %v", i, err)
			}
			sum += int64(row.Direction)
		}
		if res.Total != sum {
			t.Fatalf("step %d: total %d != ledger sum %d", i, res.Total, sum)
		}
	}

	p, err := repo.GetPost(ctx, postID)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if p.Votes != lastTotal {
		t.Fatalf("cached total %d != last result %d", p.Votes, lastTotal)
	}
}
