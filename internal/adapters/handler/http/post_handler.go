package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
	"github.com/fanzoneapp/fanzone/internal/core/ports"
)

type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{
		service: service,
	}
}

type createPostRequest struct {
	Content   string `json:"content" validate:"required"`
	ImageURL  string `json:"image_url"`
	Highlight bool   `json:"highlight"`
}

func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, &domain.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	post, err := h.service.Create(r.Context(), ports.CreatePostInput{
		AuthorID:  userID,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		Highlight: req.Highlight,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, post)
}

func (h *PostHandler) RecentPosts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	posts, err := h.service.Recent(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

type countResponse struct {
	Count int `json:"count"`
}

func (h *PostHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, h.service.Like)
}

func (h *PostHandler) RepostPost(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, h.service.Repost)
}

func (h *PostHandler) react(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, postID, userID uuid.UUID) (int, error)) {
	userID, ok := userFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}

	count, err := fn(r.Context(), postID, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, countResponse{Count: count})
}
