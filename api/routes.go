package api

import (
	"github.com/iitconnect/iitconnect/internal/ai"
	"github.com/iitconnect/iitconnect/internal/config"
	"github.com/iitconnect/iitconnect/internal/db"
	"github.com/iitconnect/iitconnect/internal/files"
	"github.com/iitconnect/iitconnect/internal/jobs"
	"github.com/iitconnect/iitconnect/internal/repository/sqlite"
	"github.com/gorilla/mux"
)

// SetupRoutes wires every handler onto the router. The engine and pool may
// be nil in tests; study and follow-up features then simply stay off.
func SetupRoutes(cfg *config.Config, version, buildTime string, conn *db.DB, engine *ai.Engine, pool *jobs.WorkerPool, store *files.Store) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository
	repo := sqlite.New(conn, logger)

	// Handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, cfg.JWTSecret, cfg.TokenDuration)
	usersHandler := NewUsersHandler(repo, repo)
	postsHandler := NewPostsHandler(repo, repo, store, pool)
	answersHandler := NewAnswersHandler(repo)
	votesHandler := NewVotesHandler(repo)
	commentsHandler := NewCommentsHandler(repo)
	socialHandler := NewSocialHandler(repo, repo, repo)
	moderationHandler := NewModerationHandler(repo, repo, repo)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/signout", authHandler.Signout).Methods("POST")

	// Users
	apiV1.HandleFunc("/users/{username}", usersHandler.GetProfile).Methods("GET")
	apiV1.HandleFunc("/me", usersHandler.UpdateProfile).Methods("PUT")
	apiV1.HandleFunc("/me/username", usersHandler.ChangeUsername).Methods("POST")
	apiV1.HandleFunc("/me/deactivate", usersHandler.Deactivate).Methods("POST")
	apiV1.HandleFunc("/me", usersHandler.Delete).Methods("DELETE")
	apiV1.HandleFunc("/leaderboard", usersHandler.Leaderboard).Methods("GET")

	// Posts
	apiV1.HandleFunc("/posts", postsHandler.CreatePost).Methods("POST")
	apiV1.HandleFunc("/posts", postsHandler.ListPosts).Methods("GET")
	apiV1.HandleFunc("/posts/search", postsHandler.SearchPosts).Methods("GET")
	apiV1.HandleFunc("/posts/{id:[0-9]+}", postsHandler.GetPost).Methods("GET")
	apiV1.HandleFunc("/posts/{id:[0-9]+}", postsHandler.UpdatePost).Methods("PUT")
	apiV1.HandleFunc("/posts/{id:[0-9]+}", postsHandler.DeletePost).Methods("DELETE")
	apiV1.HandleFunc("/files/{name}", postsHandler.ServeFile).Methods("GET")

	// Answers
	apiV1.HandleFunc("/posts/{id:[0-9]+}/answers", answersHandler.AddAnswer).Methods("POST")
	apiV1.HandleFunc("/posts/{id:[0-9]+}/answers", answersHandler.ListAnswers).Methods("GET")
	apiV1.HandleFunc("/answers/{id:[0-9]+}", answersHandler.UpdateAnswer).Methods("PUT")
	apiV1.HandleFunc("/answers/{id:[0-9]+}", answersHandler.DeleteAnswer).Methods("DELETE")

	// Votes
	apiV1.HandleFunc("/votes", votesHandler.CastVote).Methods("POST")

	// Comments
	apiV1.HandleFunc("/comments", commentsHandler.AddComment).Methods("POST")
	apiV1.HandleFunc("/items/{id:[0-9]+}/comments", commentsHandler.GetThread).Methods("GET")
	apiV1.HandleFunc("/comments/{id:[0-9]+}", commentsHandler.UpdateComment).Methods("PUT")
	apiV1.HandleFunc("/comments/{id:[0-9]+}", commentsHandler.DeleteComment).Methods("DELETE")

	// Social
	apiV1.HandleFunc("/users/{username}/follow", socialHandler.Follow).Methods("POST")
	apiV1.HandleFunc("/users/{username}/follow", socialHandler.Unfollow).Methods("DELETE")
	apiV1.HandleFunc("/users/{username}/followers", socialHandler.ListFollowers).Methods("GET")
	apiV1.HandleFunc("/users/{username}/following", socialHandler.ListFollowing).Methods("GET")
	apiV1.HandleFunc("/posts/{id:[0-9]+}/bookmark", socialHandler.ToggleBookmark).Methods("POST")
	apiV1.HandleFunc("/bookmarks", socialHandler.ListBookmarks).Methods("GET")
	apiV1.HandleFunc("/notifications", socialHandler.ListNotifications).Methods("GET")
	apiV1.HandleFunc("/notifications/read", socialHandler.MarkNotificationsRead).Methods("POST")

	// Moderation
	apiV1.HandleFunc("/reports", moderationHandler.CreateReport).Methods("POST")
	apiV1.HandleFunc("/reports", moderationHandler.ListReports).Methods("GET")
	apiV1.HandleFunc("/course-requests", moderationHandler.CreateCourseRequest).Methods("POST")
	apiV1.HandleFunc("/course-requests", moderationHandler.ListCourseRequests).Methods("GET")

	// Study engine
	if engine != nil {
		studyHandler := NewStudyHandler(engine, repo)
		apiV1.HandleFunc("/study/{task}", studyHandler.Generate).Methods("POST")
		apiV1.HandleFunc("/posts/{id:[0-9]+}/tutor", studyHandler.AnswerDoubt).Methods("POST")
		apiV1.HandleFunc("/study/schemas/reload", studyHandler.ReloadSchemas).Methods("POST")
	}

	return r
}
