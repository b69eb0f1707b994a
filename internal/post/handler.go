package post

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"piazza/internal/common"
	"piazza/internal/dbmongo"
)

// Handler wires HTTP requests to the post service.
type Handler struct {
	postService PostService
}

func NewHandler(postService PostService) *Handler {
	return &Handler{postService: postService}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/posts", h.CreatePost).Methods(http.MethodPost)
	r.HandleFunc("/api/posts", h.ListPosts).Methods(http.MethodGet)
	r.HandleFunc("/api/posts/{postId}", h.GetPost).Methods(http.MethodGet)
	r.HandleFunc("/api/posts/{postId}/like", h.Like).Methods(http.MethodPost)
	r.HandleFunc("/api/posts/{postId}/dislike", h.Dislike).Methods(http.MethodPost)
	r.HandleFunc("/api/posts/{postId}/comments", h.AddComment).Methods(http.MethodPost)
	r.HandleFunc("/api/comments/{commentId}", h.GetComment).Methods(http.MethodGet)
	r.HandleFunc("/api/comments/{commentId}", h.UpdateComment).Methods(http.MethodPatch)
	r.HandleFunc("/api/comments/{commentId}", h.DeleteComment).Methods(http.MethodDelete)
}

type createPostRequest struct {
	Title            string   `json:"title"`
	Content          string   `json:"content"`
	Topics           []string `json:"topics"`
	ExpiresInMinutes int      `json:"expiresInMinutes"`
}

type commentRequest struct {
	Content string `json:"content"`
}

// postResponse exposes reaction counts, never the raw member sets.
type postResponse struct {
	*dbmongo.Post
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}

func toPostResponse(p *dbmongo.Post) postResponse {
	return postResponse{Post: p, Likes: len(p.Likes), Dislikes: len(p.Dislikes)}
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	callerID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.postService.CreatePost(r.Context(), callerID, req.Title, req.Content, req.Topics, req.ExpiresInMinutes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPostResponse(post))
}

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	topic := q.Get("topic")
	active := q.Has("active") && q.Get("active") != "false"
	var expired *bool
	if q.Has("expired") {
		v := q.Get("expired") != "false"
		expired = &v
	}

	// active selects the ranking mode and cannot combine with expired
	if active && expired != nil {
		http.Error(w, "active cannot be combined with expired", http.StatusBadRequest)
		return
	}

	if active {
		post, err := h.postService.GetActivePost(r.Context(), topic)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPostResponse(post))
		return
	}

	posts, err := h.postService.ListPosts(r.Context(), topic, expired)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]postResponse, 0, len(posts))
	for i := range posts {
		out = append(out, toPostResponse(&posts[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.postService.GetPost(r.Context(), mux.Vars(r)["postId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostResponse(post))
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	h.reactHandler(w, r, h.postService.Like)
}

func (h *Handler) Dislike(w http.ResponseWriter, r *http.Request) {
	h.reactHandler(w, r, h.postService.Dislike)
}

func (h *Handler) reactHandler(w http.ResponseWriter, r *http.Request, react func(ctx context.Context, postID, userID string) error) {
	callerID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}
	if err := react(r.Context(), mux.Vars(r)["postId"], callerID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "reaction recorded"})
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	callerID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	comment, err := h.postService.AddComment(r.Context(), mux.Vars(r)["postId"], callerID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (h *Handler) GetComment(w http.ResponseWriter, r *http.Request) {
	comment, err := h.postService.GetComment(r.Context(), mux.Vars(r)["commentId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	callerID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.postService.UpdateComment(r.Context(), mux.Vars(r)["commentId"], callerID, req.Content); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "comment updated"})
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	callerID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}
	if err := h.postService.DeleteComment(r.Context(), mux.Vars(r)["commentId"], callerID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "comment deleted"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrExpired),
		errors.Is(err, common.ErrSelfReaction),
		errors.Is(err, common.ErrDuplicateReaction):
		status = http.StatusForbidden
	case errors.Is(err, common.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"message": err.Error()})
}
