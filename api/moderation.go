package api

import (
	"encoding/json"
	"net/http"

	"github.com/iitconnect/iitconnect/pkg/models"
	"github.com/iitconnect/iitconnect/pkg/repository"
)

type ModerationHandler struct {
	reports  repository.ReportRepo
	requests repository.CourseRequestRepo
	posts    repository.PostRepo
}

func NewModerationHandler(reports repository.ReportRepo, requests repository.CourseRequestRepo, posts repository.PostRepo) *ModerationHandler {
	return &ModerationHandler{reports: reports, requests: requests, posts: posts}
}

type reportRequest struct {
	PostID  int64  `json:"post_id"`
	Reason  string `json:"reason"`
	Details string `json:"details"`
}

func (h *ModerationHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Reason == "" {
		http.Error(w, "Missing reason", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if _, err := h.posts.GetPost(ctx, req.PostID); err != nil {
		writeRepoError(w, err)
		return
	}

	report := models.Report{
		Reporter: usernameFrom(r),
		PostID:   req.PostID,
		Reason:   req.Reason,
		Details:  req.Details,
	}
	id, err := h.reports.CreateReport(ctx, &report)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	report.ID = id
	writeJSON(w, report, http.StatusCreated)
}

func (h *ModerationHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.ListReports(r.Context())
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}
	writeJSON(w, reports, http.StatusOK)
}

type courseRequestPayload struct {
	CourseName string `json:"course_name"`
	Reason     string `json:"reason"`
}

func (h *ModerationHandler) CreateCourseRequest(w http.ResponseWriter, r *http.Request) {
	var req courseRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.CourseName == "" {
		http.Error(w, "Missing course name", http.StatusBadRequest)
		return
	}

	cr := models.CourseRequest{
		Username:   usernameFrom(r),
		CourseName: req.CourseName,
		Reason:     req.Reason,
	}
	id, err := h.requests.CreateCourseRequest(r.Context(), &cr)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	cr.ID = id
	writeJSON(w, cr, http.StatusCreated)
}

func (h *ModerationHandler) ListCourseRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.requests.ListCourseRequests(r.Context())
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if reqs == nil {
		reqs = []models.CourseRequest{}
	}
	writeJSON(w, reqs, http.StatusOK)
}
