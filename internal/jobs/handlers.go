package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iitconnect/iitconnect/internal/ai"
	"github.com/iitconnect/iitconnect/pkg/repository"
)

// FanoutPayload is carried by a notify.fanout job after a post lands.
type FanoutPayload struct {
	PostID int64  `json:"post_id"`
	Author string `json:"author"`
	Title  string `json:"title"`
}

// VerifyPayload is carried by an ai.verify_upload job.
type VerifyPayload struct {
	PostID  int64  `json:"post_id"`
	Subject string `json:"subject"`
	Excerpt string `json:"excerpt"`
}

// NotifyFollowersHandler notifies every follower of the author about a new
// post. A failed single notification fails the job; the retry re-inserts,
// which is harmless since duplicates only repeat the message.
func NotifyFollowersHandler(follows repository.FollowRepo, notes repository.NotificationRepo) Handler {
	return func(ctx context.Context, j *Job) error {
		var p FanoutPayload
		if err := json.Unmarshal(j.Payload, &p); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}

		followers, err := follows.ListFollowers(ctx, p.Author)
		if err != nil {
			return fmt.Errorf("list followers: %w", err)
		}

		msg := fmt.Sprintf("%s shared a new post: %s", p.Author, p.Title)
		for _, f := range followers {
			if err := notes.Notify(ctx, f, p.Author, msg); err != nil {
				return fmt.Errorf("notify %s: %w", f, err)
			}
		}
		return nil
	}
}

// VerifyUploadHandler asks the study engine whether an upload is legitimate
// material and records the verdict. Verification is a badge on the post, not
// a gate: while the model host is down the post simply stays unverified.
func VerifyUploadHandler(engine *ai.Engine, posts repository.PostRepo) Handler {
	return func(ctx context.Context, j *Job) error {
		var p VerifyPayload
		if err := json.Unmarshal(j.Payload, &p); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}

		ok, err := engine.VerifyUpload(ctx, p.Subject, p.Excerpt)
		if err != nil {
			return fmt.Errorf("verify post %d: %w", p.PostID, err)
		}
		if !ok {
			return nil
		}

		if err := posts.SetVerified(ctx, p.PostID, true); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// post deleted while the job waited
				return nil
			}
			return fmt.Errorf("mark post %d verified: %w", p.PostID, err)
		}
		return nil
	}
}
