package api

import (
	"encoding/json"
	"net/http"

	"github.com/iitconnect/iitconnect/pkg/models"
	"github.com/iitconnect/iitconnect/pkg/repository"
)

type AnswersHandler struct {
	answers repository.AnswerRepo
}

func NewAnswersHandler(answers repository.AnswerRepo) *AnswersHandler {
	return &AnswersHandler{answers: answers}
}

type answerRequest struct {
	Body string `json:"body"`
}

func (h *AnswersHandler) AddAnswer(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Body == "" {
		http.Error(w, "Missing body", http.StatusBadRequest)
		return
	}

	answer := models.Answer{PostID: postID, Author: usernameFrom(r), Body: req.Body}
	if _, err := h.answers.AddAnswer(r.Context(), &answer); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, answer, http.StatusCreated)
}

func (h *AnswersHandler) ListAnswers(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	answers, err := h.answers.ListByPost(r.Context(), postID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if answers == nil {
		answers = []models.Answer{}
	}
	writeJSON(w, answers, http.StatusOK)
}

func (h *AnswersHandler) UpdateAnswer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Body == "" {
		http.Error(w, "Missing body", http.StatusBadRequest)
		return
	}

	if err := h.answers.UpdateAnswer(r.Context(), id, usernameFrom(r), req.Body); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AnswersHandler) DeleteAnswer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	if err := h.answers.DeleteAnswer(r.Context(), id, usernameFrom(r)); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
