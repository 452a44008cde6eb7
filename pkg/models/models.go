package models

// Domain models matching the database schema in db/migrations/0001_init.sql

// AnonymousUser is the sentinel identity for anonymous doubts. It never
// accrues counters or reputation and never receives notifications.
const AnonymousUser = "Anonymous"

// ItemKind identifies a votable item. It is a closed enum: every statement
// that needs the backing table dispatches through a switch, never through
// string formatting into SQL.
type ItemKind string

const (
	KindPost   ItemKind = "POST"
	KindAnswer ItemKind = "ANSWER"
)

// Valid reports whether k is one of the known kinds.
func (k ItemKind) Valid() bool {
	return k == KindPost || k == KindAnswer
}

// PostType distinguishes uploaded study material from asked doubts.
type PostType string

const (
	TypeResource PostType = "RESOURCE"
	TypeDoubt    PostType = "DOUBT"
)

func (t PostType) Valid() bool {
	return t == TypeResource || t == TypeDoubt
}

type User struct {
	Username        string `json:"username" db:"username"`
	PasswordHash    string `json:"-" db:"password_hash"`
	FullName        string `json:"full_name,omitempty" db:"full_name"`
	College         string `json:"college,omitempty" db:"college"`
	Year            string `json:"year,omitempty" db:"year"`
	Branch          string `json:"branch,omitempty" db:"branch"`
	Bio             string `json:"bio,omitempty" db:"bio"`
	PostsCount      int64  `json:"posts_count" db:"posts_count"`
	AnswersCount    int64  `json:"answers_count" db:"answers_count"`
	UpvotesReceived int64  `json:"upvotes_received" db:"upvotes_received"`
	Reputation      int64  `json:"reputation" db:"reputation"`
	IsActive        bool   `json:"is_active" db:"is_active"`
	Created         int64  `json:"created" db:"created"`
	Updated         int64  `json:"updated" db:"updated"`
}

type Post struct {
	ID         int64    `json:"id" db:"id"`
	Author     string   `json:"author" db:"author"`
	Subject    string   `json:"subject" db:"subject"`
	Title      string   `json:"title" db:"title"`
	Body       string   `json:"body,omitempty" db:"body"`
	Filename   string   `json:"filename,omitempty" db:"filename"`
	Tags       string   `json:"tags,omitempty" db:"tags"`
	Type       PostType `json:"post_type" db:"post_type"`
	Votes      int64    `json:"votes" db:"votes"`
	IsVerified bool     `json:"is_verified" db:"is_verified"`
	Created    int64    `json:"created" db:"created"`
}

type Answer struct {
	ID      int64  `json:"id" db:"id"`
	PostID  int64  `json:"post_id" db:"post_id"`
	Author  string `json:"author" db:"author"`
	Body    string `json:"body" db:"body"`
	Votes   int64  `json:"votes" db:"votes"`
	Created int64  `json:"created" db:"created"`
}

// Vote is one row of the ledger: the single source of truth for item totals.
// Post.Votes and Answer.Votes are cached projections recomputed from it.
type Vote struct {
	Voter     string   `json:"voter" db:"voter"`
	ItemID    int64    `json:"item_id" db:"item_id"`
	ItemKind  ItemKind `json:"item_kind" db:"item_kind"`
	Direction int      `json:"direction" db:"direction"`
	Created   int64    `json:"created" db:"created"`
}

// Comment belongs to one (TargetID, TargetKind) forum and optionally to a
// parent comment within the same forum.
type Comment struct {
	ID         int64    `json:"id" db:"id"`
	TargetID   int64    `json:"target_id" db:"target_id"`
	TargetKind ItemKind `json:"target_kind" db:"target_kind"`
	ParentID   *int64   `json:"parent_id,omitempty" db:"parent_id"`
	Author     string   `json:"author" db:"author"`
	Body       string   `json:"body" db:"body"`
	Created    int64    `json:"created" db:"created"`
}

type Follow struct {
	Follower string `json:"follower" db:"follower"`
	Followee string `json:"followee" db:"followee"`
	Created  int64  `json:"created" db:"created"`
}

type Bookmark struct {
	Username string `json:"username" db:"username"`
	PostID   int64  `json:"post_id" db:"post_id"`
	Created  int64  `json:"created" db:"created"`
}

type Notification struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Message  string `json:"message" db:"message"`
	IsRead   bool   `json:"is_read" db:"is_read"`
	Created  int64  `json:"created" db:"created"`
}

type CourseRequest struct {
	ID         int64  `json:"id" db:"id"`
	Username   string `json:"username" db:"username"`
	CourseName string `json:"course_name" db:"course_name"`
	Reason     string `json:"reason,omitempty" db:"reason"`
	Created    int64  `json:"created" db:"created"`
}

type Report struct {
	ID       int64  `json:"id" db:"id"`
	Reporter string `json:"reporter" db:"reporter"`
	PostID   int64  `json:"post_id" db:"post_id"`
	Reason   string `json:"reason" db:"reason"`
	Details  string `json:"details,omitempty" db:"details"`
	Status   string `json:"status" db:"status"`
	Created  int64  `json:"created" db:"created"`
}

type Schema struct {
	ID          int64  `json:"id" db:"id"`
	Version     string `json:"version" db:"version"`
	Description string `json:"description,omitempty" db:"description"`
	SchemaJSON  string `json:"schema_json" db:"schema_json"`
	Created     int64  `json:"created" db:"created"`
	Updated     int64  `json:"updated" db:"updated"`
}

type Template struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Version     string  `json:"version" db:"version"`
	TemplateTxt string  `json:"template_text" db:"template_text"`
	SchemaVer   *string `json:"schema_version,omitempty" db:"schema_version"`
	Metadata    *string `json:"metadata,omitempty" db:"metadata"`
	Created     int64   `json:"created" db:"created"`
	Updated     int64   `json:"updated" db:"updated"`
}
