package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/iitconnect/iitconnect/pkg/models"
	"github.com/iitconnect/iitconnect/pkg/repository"
	"github.com/gorilla/mux"
)

type UsersHandler struct {
	users   repository.UserRepo
	follows repository.FollowRepo
}

func NewUsersHandler(users repository.UserRepo, follows repository.FollowRepo) *UsersHandler {
	return &UsersHandler{users: users, follows: follows}
}

type profileResponse struct {
	models.User
	Badge     models.Badge `json:"badge"`
	Followers []string     `json:"followers"`
	Following []string     `json:"following"`
}

func (h *UsersHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	ctx := r.Context()

	user, err := h.users.GetUser(ctx, username)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	user.PasswordHash = ""

	followers, err := h.follows.ListFollowers(ctx, username)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	following, err := h.follows.ListFollowing(ctx, username)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	resp := profileResponse{
		User:      *user,
		Badge:     models.BadgeFor(user.Reputation),
		Followers: followers,
		Following: following,
	}
	if resp.Followers == nil {
		resp.Followers = []string{}
	}
	if resp.Following == nil {
		resp.Following = []string{}
	}
	writeJSON(w, resp, http.StatusOK)
}

type updateProfileRequest struct {
	FullName string `json:"full_name"`
	College  string `json:"college"`
	Year     string `json:"year"`
	Branch   string `json:"branch"`
	Bio      string `json:"bio"`
}

func (h *UsersHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	u := models.User{
		Username: usernameFrom(r),
		FullName: req.FullName,
		College:  req.College,
		Year:     req.Year,
		Branch:   req.Branch,
		Bio:      req.Bio,
	}
	if err := h.users.UpdateProfile(r.Context(), &u); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type changeUsernameRequest struct {
	NewUsername string `json:"new_username"`
}

func (h *UsersHandler) ChangeUsername(w http.ResponseWriter, r *http.Request) {
	var req changeUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.NewUsername == "" || req.NewUsername == models.AnonymousUser {
		http.Error(w, "Username not available", http.StatusBadRequest)
		return
	}

	if err := h.users.ChangeUsername(r.Context(), usernameFrom(r), req.NewUsername); err != nil {
		writeRepoError(w, err)
		return
	}
	// old tokens still name the previous user; the client must sign in again
	writeJSON(w, map[string]string{"username": req.NewUsername}, http.StatusOK)
}

func (h *UsersHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.users.SetActive(r.Context(), usernameFrom(r), false); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.DeleteUser(r.Context(), usernameFrom(r)); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type leaderboardEntry struct {
	Username   string       `json:"username"`
	Reputation int64        `json:"reputation"`
	Badge      models.Badge `json:"badge"`
}

func (h *UsersHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	top, err := h.users.Leaderboard(r.Context(), limit)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	out := make([]leaderboardEntry, 0, len(top))
	for _, u := range top {
		out = append(out, leaderboardEntry{
			Username:   u.Username,
			Reputation: u.Reputation,
			Badge:      models.BadgeFor(u.Reputation),
		})
	}
	writeJSON(w, out, http.StatusOK)
}
