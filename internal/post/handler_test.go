package post

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"piazza/internal/common"
	"piazza/internal/dbmongo"
)

// ---- Fake PostService for handler tests ----

type fakePostSvc struct {
	CreatePostFn    func(ctx context.Context, authorID, title, content string, topics []string, expiresInMinutes int) (*dbmongo.Post, error)
	GetPostFn       func(ctx context.Context, postID string) (*dbmongo.Post, error)
	ListPostsFn     func(ctx context.Context, topic string, expired *bool) ([]dbmongo.Post, error)
	GetActivePostFn func(ctx context.Context, topic string) (*dbmongo.Post, error)
	LikeFn          func(ctx context.Context, postID, userID string) error
	DislikeFn       func(ctx context.Context, postID, userID string) error
	AddCommentFn    func(ctx context.Context, postID, authorID, content string) (*dbmongo.Comment, error)
	GetCommentFn    func(ctx context.Context, commentID string) (*dbmongo.Comment, error)
	UpdateCommentFn func(ctx context.Context, commentID, callerID, content string) error
	DeleteCommentFn func(ctx context.Context, commentID, callerID string) error
}

func (f *fakePostSvc) CreatePost(ctx context.Context, a, t, c string, topics []string, e int) (*dbmongo.Post, error) {
	return f.CreatePostFn(ctx, a, t, c, topics, e)
}
func (f *fakePostSvc) GetPost(ctx context.Context, id string) (*dbmongo.Post, error) {
	return f.GetPostFn(ctx, id)
}
func (f *fakePostSvc) ListPosts(ctx context.Context, topic string, expired *bool) ([]dbmongo.Post, error) {
	return f.ListPostsFn(ctx, topic, expired)
}
func (f *fakePostSvc) GetActivePost(ctx context.Context, topic string) (*dbmongo.Post, error) {
	return f.GetActivePostFn(ctx, topic)
}
func (f *fakePostSvc) Like(ctx context.Context, postID, userID string) error {
	return f.LikeFn(ctx, postID, userID)
}
func (f *fakePostSvc) Dislike(ctx context.Context, postID, userID string) error {
	return f.DislikeFn(ctx, postID, userID)
}
func (f *fakePostSvc) AddComment(ctx context.Context, postID, authorID, content string) (*dbmongo.Comment, error) {
	return f.AddCommentFn(ctx, postID, authorID, content)
}
func (f *fakePostSvc) GetComment(ctx context.Context, id string) (*dbmongo.Comment, error) {
	return f.GetCommentFn(ctx, id)
}
func (f *fakePostSvc) UpdateComment(ctx context.Context, id, callerID, content string) error {
	return f.UpdateCommentFn(ctx, id, callerID, content)
}
func (f *fakePostSvc) DeleteComment(ctx context.Context, id, callerID string) error {
	return f.DeleteCommentFn(ctx, id, callerID)
}

func serveAs(h *Handler, userID, method, target, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	h.Register(router)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if userID != "" {
		req = req.WithContext(common.ContextWithUserID(req.Context(), userID))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListPosts_ActiveExcludesExpired(t *testing.T) {
	h := NewHandler(&fakePostSvc{})

	w := serveAs(h, "", http.MethodGet, "/api/posts?active=true&expired=true", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPosts_ActiveMode(t *testing.T) {
	p := &dbmongo.Post{
		ID:        primitive.NewObjectID(),
		Status:    dbmongo.StatusLive,
		Likes:     []primitive.ObjectID{primitive.NewObjectID()},
		Dislikes:  []primitive.ObjectID{primitive.NewObjectID()},
		ExpiresAt: time.Now().Add(time.Hour),
	}
	var gotTopic string
	h := NewHandler(&fakePostSvc{
		GetActivePostFn: func(_ context.Context, topic string) (*dbmongo.Post, error) {
			gotTopic = topic
			return p, nil
		},
	})

	w := serveAs(h, "", http.MethodGet, "/api/posts?active=true&topic=Sports", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Sports", gotTopic)
	// counts exposed, member sets hidden
	assert.Contains(t, w.Body.String(), `"likes":1`)
	assert.Contains(t, w.Body.String(), `"dislikes":1`)
}

func TestLike_ErrorMapping(t *testing.T) {
	postID := primitive.NewObjectID().Hex()
	caller := primitive.NewObjectID().Hex()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", common.ErrNotFound, http.StatusNotFound},
		{"expired", common.ErrExpired, http.StatusForbidden},
		{"self reaction", common.ErrSelfReaction, http.StatusForbidden},
		{"duplicate", common.ErrDuplicateReaction, http.StatusForbidden},
		{"validation", common.ErrValidation, http.StatusBadRequest},
		{"store down", common.ErrStoreUnavailable, http.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(&fakePostSvc{
				LikeFn: func(_ context.Context, _, _ string) error { return tc.err },
			})
			w := serveAs(h, caller, http.MethodPost, "/api/posts/"+postID+"/like", "")
			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}

func TestLike_RequiresAuth(t *testing.T) {
	h := NewHandler(&fakePostSvc{})
	w := serveAs(h, "", http.MethodPost, "/api/posts/"+primitive.NewObjectID().Hex()+"/like", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreatePost_UsesCallerAsAuthor(t *testing.T) {
	caller := primitive.NewObjectID()
	var gotAuthor string
	h := NewHandler(&fakePostSvc{
		CreatePostFn: func(_ context.Context, authorID, title, content string, topics []string, expires int) (*dbmongo.Post, error) {
			gotAuthor = authorID
			return &dbmongo.Post{
				ID:     primitive.NewObjectID(),
				Author: caller,
				Topics: []dbmongo.Topic{dbmongo.TopicTech},
				Status: dbmongo.StatusLive,
			}, nil
		},
	})

	body := `{"title":"a proper title","content":"content long enough for a post","topics":["Tech"],"expiresInMinutes":30}`
	w := serveAs(h, caller.Hex(), http.MethodPost, "/api/posts", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, caller.Hex(), gotAuthor)
}

func TestAddComment(t *testing.T) {
	postID := primitive.NewObjectID().Hex()
	caller := primitive.NewObjectID().Hex()

	h := NewHandler(&fakePostSvc{
		AddCommentFn: func(_ context.Context, pid, authorID, content string) (*dbmongo.Comment, error) {
			assert.Equal(t, postID, pid)
			assert.Equal(t, caller, authorID)
			return &dbmongo.Comment{ID: primitive.NewObjectID(), Content: content}, nil
		},
	})

	w := serveAs(h, caller, http.MethodPost, "/api/posts/"+postID+"/comments", `{"content":"nice one"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}
