package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/iitconnect/iitconnect/internal/files"
	"github.com/iitconnect/iitconnect/internal/jobs"
	"github.com/iitconnect/iitconnect/pkg/models"
	"github.com/iitconnect/iitconnect/pkg/repository"
	"github.com/gorilla/mux"
)

// verifyExcerptLen caps how much text rides along in a verification job.
const verifyExcerptLen = 2000

type PostsHandler struct {
	posts   repository.PostRepo
	answers repository.AnswerRepo
	store   *files.Store
	pool    *jobs.WorkerPool
}

func NewPostsHandler(posts repository.PostRepo, answers repository.AnswerRepo, store *files.Store, pool *jobs.WorkerPool) *PostsHandler {
	return &PostsHandler{posts: posts, answers: answers, store: store, pool: pool}
}

type createPostRequest struct {
	Subject   string `json:"subject"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Tags      string `json:"tags"`
	PostType  string `json:"post_type"`
	Anonymous bool   `json:"anonymous"`
}

// CreatePost accepts either JSON or multipart form data; the multipart form
// may carry a file for uploaded study material.
func (h *PostsHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var (
		req      createPostRequest
		filename string
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(files.MaxUploadBytes); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}
		req.Subject = r.FormValue("subject")
		req.Title = r.FormValue("title")
		req.Body = r.FormValue("body")
		req.Tags = r.FormValue("tags")
		req.PostType = r.FormValue("post_type")
		req.Anonymous = r.FormValue("anonymous") == "true"

		if f, hdr, err := r.FormFile("file"); err == nil {
			defer f.Close()
			stored, serr := h.store.Save(hdr.Filename, f)
			if serr != nil {
				http.Error(w, "Could not store upload", http.StatusBadRequest)
				return
			}
			filename = stored
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	if req.Subject == "" || req.Title == "" {
		http.Error(w, "Missing fields", http.StatusBadRequest)
		return
	}
	postType := models.PostType(strings.ToUpper(req.PostType))
	if !postType.Valid() {
		http.Error(w, "Invalid post type", http.StatusBadRequest)
		return
	}

	author := usernameFrom(r)
	// only doubts can be asked anonymously
	if req.Anonymous && postType == models.TypeDoubt {
		author = models.AnonymousUser
	}

	post := models.Post{
		Author:   author,
		Subject:  req.Subject,
		Title:    req.Title,
		Body:     req.Body,
		Filename: filename,
		Tags:     req.Tags,
		Type:     postType,
	}
	if _, err := h.posts.CreatePost(r.Context(), &post); err != nil {
		writeRepoError(w, err)
		return
	}

	h.enqueueFollowups(r, &post)
	writeJSON(w, post, http.StatusCreated)
}

// enqueueFollowups schedules the follower fan-out and, for uploaded
// material, AI verification. Queue failures are logged, never surfaced: the
// post is already in.
func (h *PostsHandler) enqueueFollowups(r *http.Request, post *models.Post) {
	if h.pool == nil {
		return
	}
	ctx := r.Context()

	if post.Author != models.AnonymousUser {
		payload := jobs.FanoutPayload{PostID: post.ID, Author: post.Author, Title: post.Title}
		if _, err := h.pool.Enqueue(ctx, jobs.TypeNotifyFanout, payload, 50, 3); err != nil {
			logger.Error("enqueue fanout", "post_id", post.ID, "err", err)
		}
	}

	if post.Type == models.TypeResource {
		excerpt := post.Body
		if len(excerpt) > verifyExcerptLen {
			excerpt = excerpt[:verifyExcerptLen]
		}
		if excerpt == "" {
			excerpt = post.Title
		}
		payload := jobs.VerifyPayload{PostID: post.ID, Subject: post.Subject, Excerpt: excerpt}
		if _, err := h.pool.Enqueue(ctx, jobs.TypeVerifyUpload, payload, 100, 3); err != nil {
			logger.Error("enqueue verification", "post_id", post.ID, "err", err)
		}
	}
}

func (h *PostsHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	postType := models.PostType(strings.ToUpper(q.Get("type")))
	if q.Get("type") != "" && !postType.Valid() {
		http.Error(w, "Invalid post type", http.StatusBadRequest)
		return
	}

	posts, err := h.posts.ListPosts(r.Context(), q.Get("subject"), postType, limit, offset)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	writeJSON(w, posts, http.StatusOK)
}

func (h *PostsHandler) SearchPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	term := strings.TrimSpace(q.Get("q"))
	if term == "" {
		http.Error(w, "Missing search term", http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	posts, err := h.posts.SearchPosts(r.Context(), term, limit, offset)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	writeJSON(w, posts, http.StatusOK)
}

type postDetail struct {
	models.Post
	Answers []models.Answer `json:"answers"`
}

func (h *PostsHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	post, err := h.posts.GetPost(r.Context(), id)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	answers, err := h.answers.ListByPost(r.Context(), id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if answers == nil {
		answers = []models.Answer{}
	}
	writeJSON(w, postDetail{Post: *post, Answers: answers}, http.StatusOK)
}

type updatePostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (h *PostsHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}
	var req updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "Missing title", http.StatusBadRequest)
		return
	}

	if err := h.posts.UpdatePost(r.Context(), id, usernameFrom(r), req.Title, req.Body); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PostsHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	post, err := h.posts.GetPost(ctx, id)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	if err := h.posts.DeletePost(ctx, id, usernameFrom(r)); err != nil {
		writeRepoError(w, err)
		return
	}
	if post.Filename != "" && h.store != nil {
		if err := h.store.Remove(post.Filename); err != nil {
			logger.Warn("remove upload", "name", post.Filename, "err", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServeFile streams an uploaded document.
func (h *PostsHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	f, err := h.store.Open(name)
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	http.ServeContent(w, r, name, st.ModTime(), f)
}

func pathID(r *http.Request, key string) (int64, error) {
	v, ok := mux.Vars(r)[key]
	if !ok {
		return 0, errors.New("missing path id")
	}
	return strconv.ParseInt(v, 10, 64)
}
