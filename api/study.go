package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/iitconnect/iitconnect/internal/ai"
	"github.com/iitconnect/iitconnect/pkg/models"
	"github.com/iitconnect/iitconnect/pkg/repository"
	"github.com/gorilla/mux"
)

// StudyHandler exposes the AI study features: question generation,
// flashcards, summaries, concept maps and tutor answers for doubts.
type StudyHandler struct {
	engine *ai.Engine
	posts  repository.PostRepo
}

func NewStudyHandler(engine *ai.Engine, posts repository.PostRepo) *StudyHandler {
	return &StudyHandler{engine: engine, posts: posts}
}

type studyRequest struct {
	PostID int64  `json:"post_id,omitempty"`
	Text   string `json:"text,omitempty"`
}

// material resolves the study text: either inline or the body of a post.
func (h *StudyHandler) material(r *http.Request, req studyRequest) (string, error) {
	if req.Text != "" {
		return req.Text, nil
	}
	if req.PostID == 0 {
		return "", fmt.Errorf("either post_id or text is required")
	}
	post, err := h.posts.GetPost(r.Context(), req.PostID)
	if err != nil {
		return "", err
	}
	if post.Body == "" {
		return post.Title, nil
	}
	return post.Body, nil
}

// Generate dispatches on the task path segment: mcq, subjective, flashcards,
// summary, conceptmap.
func (h *StudyHandler) Generate(w http.ResponseWriter, r *http.Request) {
	task := mux.Vars(r)["task"]

	var req studyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	text, err := h.material(r, req)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	ctx := r.Context()
	var (
		result any
		genErr error
	)
	switch task {
	case "mcq":
		result, genErr = h.engine.GenerateMCQs(ctx, text)
	case "subjective":
		result, genErr = h.engine.GenerateSubjective(ctx, text)
	case "flashcards":
		result, genErr = h.engine.GenerateFlashcards(ctx, text)
	case "conceptmap":
		result, genErr = h.engine.GenerateConceptMap(ctx, text)
	case "summary":
		var s string
		s, genErr = h.engine.Summarize(ctx, text)
		result = map[string]string{"summary": s}
	default:
		http.Error(w, "Unknown study task", http.StatusNotFound)
		return
	}
	if genErr != nil {
		writeEngineError(w, genErr)
		return
	}
	writeJSON(w, result, http.StatusOK)
}

// AnswerDoubt produces a tutor answer for a posted doubt.
func (h *StudyHandler) AnswerDoubt(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	post, err := h.posts.GetPost(r.Context(), postID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if post.Type != models.TypeDoubt {
		http.Error(w, "Post is not a doubt", http.StatusBadRequest)
		return
	}

	answer, err := h.engine.AnswerDoubt(r.Context(), post.Subject, post.Title, post.Body)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, map[string]string{"answer": answer}, http.StatusOK)
}

// ReloadSchemas recompiles the output schemas from the database.
func (h *StudyHandler) ReloadSchemas(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.ReloadSchemas(r.Context()); err != nil {
		http.Error(w, fmt.Sprintf("reload schemas: %v", err), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
