package repository

import (
	"context"

	"github.com/iitconnect/iitconnect/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, u *models.User) error
	ChangeUsername(ctx context.Context, oldName, newName string) error
	SetActive(ctx context.Context, username string, active bool) error
	DeleteUser(ctx context.Context, username string) error
	Leaderboard(ctx context.Context, limit int) ([]models.User, error)
}

type PostRepo interface {
	CreatePost(ctx context.Context, p *models.Post) (int64, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	ListPosts(ctx context.Context, subject string, postType models.PostType, limit, offset int) ([]models.Post, error)
	SearchPosts(ctx context.Context, term string, limit, offset int) ([]models.Post, error)
	UpdatePost(ctx context.Context, id int64, author, title, body string) error
	SetVerified(ctx context.Context, id int64, verified bool) error
	DeletePost(ctx context.Context, id int64, author string) error
}

type AnswerRepo interface {
	AddAnswer(ctx context.Context, a *models.Answer) (int64, error)
	ListByPost(ctx context.Context, postID int64) ([]models.Answer, error)
	UpdateAnswer(ctx context.Context, id int64, author, body string) error
	DeleteAnswer(ctx context.Context, id int64, author string) error
}

// VoteResult describes the outcome of one CastVote call.
type VoteResult struct {
	// Total is the item's displayed total after the call, recomputed from
	// the ledger.
	Total int64 `json:"total"`
	// Removed reports a toggle-off (the voter's row was deleted).
	Removed bool `json:"removed"`
	// Net is the change this call produced on the item's author's
	// upvotes_received counter.
	Net int `json:"net"`
}

type VoteRepo interface {
	CastVote(ctx context.Context, voter string, itemID int64, kind models.ItemKind, direction int) (*VoteResult, error)
	GetVote(ctx context.Context, voter string, itemID int64, kind models.ItemKind) (*models.Vote, error)
}

type CommentRepo interface {
	AddComment(ctx context.Context, c *models.Comment) (int64, error)
	ListReplies(ctx context.Context, targetID int64, kind models.ItemKind, parentID *int64) ([]models.Comment, error)
	ListThread(ctx context.Context, targetID int64, kind models.ItemKind) ([]models.Comment, error)
	UpdateComment(ctx context.Context, id int64, author, body string) error
	DeleteComment(ctx context.Context, id int64, author string) error
}

type FollowRepo interface {
	Follow(ctx context.Context, follower, followee string) error
	Unfollow(ctx context.Context, follower, followee string) error
	ListFollowers(ctx context.Context, followee string) ([]string, error)
	ListFollowing(ctx context.Context, follower string) ([]string, error)
}

type BookmarkRepo interface {
	ToggleBookmark(ctx context.Context, username string, postID int64) (saved bool, err error)
	ListBookmarked(ctx context.Context, username string) ([]models.Post, error)
}

type NotificationRepo interface {
	// Notify records a notification for target unless target is the actor
	// themselves or the anonymous identity.
	Notify(ctx context.Context, target, actor, message string) error
	UnreadCount(ctx context.Context, username string) (int64, error)
	ListRecent(ctx context.Context, username string, limit int) ([]models.Notification, error)
	MarkAllRead(ctx context.Context, username string) error
}

type ReportRepo interface {
	CreateReport(ctx context.Context, r *models.Report) (int64, error)
	ListReports(ctx context.Context) ([]models.Report, error)
}

type CourseRequestRepo interface {
	CreateCourseRequest(ctx context.Context, cr *models.CourseRequest) (int64, error)
	ListCourseRequests(ctx context.Context) ([]models.CourseRequest, error)
}

type SchemaRepo interface {
	CreateSchema(ctx context.Context, version, description, schemaJSON string) (int64, error)
	GetSchemaByVersion(ctx context.Context, version string) (*models.Schema, error)
	ListSchemas(ctx context.Context) ([]models.Schema, error)
	DeleteSchema(ctx context.Context, version string) error
}

type TemplateRepo interface {
	CreateTemplate(ctx context.Context, name, version, templateText string, schemaVersion, metadata *string) (int64, error)
	GetTemplate(ctx context.Context, name, version string) (*models.Template, error)
	ListTemplates(ctx context.Context) ([]models.Template, error)
	DeleteTemplate(ctx context.Context, name, version string) error
}
