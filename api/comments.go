package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/iitconnect/iitconnect/internal/thread"
	"github.com/iitconnect/iitconnect/pkg/models"
	"github.com/iitconnect/iitconnect/pkg/repository"
)

type CommentsHandler struct {
	comments repository.CommentRepo
}

func NewCommentsHandler(comments repository.CommentRepo) *CommentsHandler {
	return &CommentsHandler{comments: comments}
}

type addCommentRequest struct {
	TargetID   int64  `json:"target_id"`
	TargetKind string `json:"target_kind"`
	ParentID   *int64 `json:"parent_id,omitempty"`
	Body       string `json:"body"`
}

// AddComment posts a comment. Replies under a parent already at the maximum
// interactive depth are refused here; the store itself accepts any depth.
func (h *CommentsHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	kind := models.ItemKind(strings.ToUpper(req.TargetKind))
	if !kind.Valid() {
		http.Error(w, "Invalid target kind", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		http.Error(w, "Missing body", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if req.ParentID != nil {
		flat, err := h.comments.ListThread(ctx, req.TargetID, kind)
		if err != nil {
			writeRepoError(w, err)
			return
		}
		parent := findNode(thread.Build(flat), *req.ParentID)
		if parent == nil {
			writeJSON(w, errResponse{Error: "not found"}, http.StatusNotFound)
			return
		}
		if !parent.CanReply {
			writeJSON(w, errResponse{Error: "reply depth limit reached"}, http.StatusBadRequest)
			return
		}
	}

	comment := models.Comment{
		TargetID:   req.TargetID,
		TargetKind: kind,
		ParentID:   req.ParentID,
		Author:     usernameFrom(r),
		Body:       req.Body,
	}
	if _, err := h.comments.AddComment(ctx, &comment); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, comment, http.StatusCreated)
}

func findNode(roots []*thread.Node, id int64) *thread.Node {
	for _, n := range roots {
		if n.Comment.ID == id {
			return n
		}
		if found := findNode(n.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// GetThread returns the full comment tree for one item, annotated with depth
// and reply availability.
func (h *CommentsHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	targetID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}
	kind := models.ItemKind(strings.ToUpper(r.URL.Query().Get("kind")))
	if kind == "" {
		kind = models.KindPost
	}
	if !kind.Valid() {
		http.Error(w, "Invalid target kind", http.StatusBadRequest)
		return
	}

	flat, err := h.comments.ListThread(r.Context(), targetID, kind)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	roots := thread.Build(flat)
	if roots == nil {
		roots = []*thread.Node{}
	}
	writeJSON(w, map[string]any{
		"comments": roots,
		"count":    thread.Count(roots),
	}, http.StatusOK)
}

type updateCommentRequest struct {
	Body string `json:"body"`
}

func (h *CommentsHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}
	var req updateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		http.Error(w, "Missing body", http.StatusBadRequest)
		return
	}

	if err := h.comments.UpdateComment(r.Context(), id, usernameFrom(r), req.Body); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CommentsHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	if err := h.comments.DeleteComment(r.Context(), id, usernameFrom(r)); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
