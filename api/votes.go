package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/iitconnect/iitconnect/pkg/models"
	"github.com/iitconnect/iitconnect/pkg/repository"
)

type VotesHandler struct {
	votes repository.VoteRepo
}

func NewVotesHandler(votes repository.VoteRepo) *VotesHandler {
	return &VotesHandler{votes: votes}
}

type voteRequest struct {
	ItemID    int64  `json:"item_id"`
	ItemKind  string `json:"item_kind"`
	Direction int    `json:"direction"`
}

// CastVote applies one vote action and returns the item's new total.
func (h *VotesHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	kind := models.ItemKind(strings.ToUpper(req.ItemKind))
	if !kind.Valid() {
		http.Error(w, "Invalid item kind", http.StatusBadRequest)
		return
	}
	if req.Direction != 1 && req.Direction != -1 {
		http.Error(w, "Direction must be 1 or -1", http.StatusBadRequest)
		return
	}

	res, err := h.votes.CastVote(r.Context(), usernameFrom(r), req.ItemID, kind, req.Direction)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, res, http.StatusOK)
}
