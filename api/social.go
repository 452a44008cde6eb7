package api

import (
	"net/http"
	"strconv"

	"github.com/iitconnect/iitconnect/pkg/models"
	"github.com/iitconnect/iitconnect/pkg/repository"
	"github.com/gorilla/mux"
)

type SocialHandler struct {
	follows   repository.FollowRepo
	bookmarks repository.BookmarkRepo
	notes     repository.NotificationRepo
}

func NewSocialHandler(follows repository.FollowRepo, bookmarks repository.BookmarkRepo, notes repository.NotificationRepo) *SocialHandler {
	return &SocialHandler{follows: follows, bookmarks: bookmarks, notes: notes}
}

func (h *SocialHandler) Follow(w http.ResponseWriter, r *http.Request) {
	followee := mux.Vars(r)["username"]
	follower := usernameFrom(r)
	if follower == followee {
		http.Error(w, "Cannot follow yourself", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if err := h.follows.Follow(ctx, follower, followee); err != nil {
		writeRepoError(w, err)
		return
	}
	if err := h.notes.Notify(ctx, followee, follower, follower+" started following you."); err != nil {
		logger.Warn("follow notification", "err", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SocialHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	followee := mux.Vars(r)["username"]
	if err := h.follows.Unfollow(r.Context(), usernameFrom(r), followee); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SocialHandler) ListFollowers(w http.ResponseWriter, r *http.Request) {
	out, err := h.follows.ListFollowers(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if out == nil {
		out = []string{}
	}
	writeJSON(w, out, http.StatusOK)
}

func (h *SocialHandler) ListFollowing(w http.ResponseWriter, r *http.Request) {
	out, err := h.follows.ListFollowing(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if out == nil {
		out = []string{}
	}
	writeJSON(w, out, http.StatusOK)
}

func (h *SocialHandler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	saved, err := h.bookmarks.ToggleBookmark(r.Context(), usernameFrom(r), postID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"saved": saved}, http.StatusOK)
}

func (h *SocialHandler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	posts, err := h.bookmarks.ListBookmarked(r.Context(), usernameFrom(r))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	writeJSON(w, posts, http.StatusOK)
}

func (h *SocialHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	username := usernameFrom(r)
	ctx := r.Context()

	unread, err := h.notes.UnreadCount(ctx, username)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	recent, err := h.notes.ListRecent(ctx, username, limit)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if recent == nil {
		recent = []models.Notification{}
	}
	writeJSON(w, map[string]any{"unread": unread, "notifications": recent}, http.StatusOK)
}

func (h *SocialHandler) MarkNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notes.MarkAllRead(r.Context(), usernameFrom(r)); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
