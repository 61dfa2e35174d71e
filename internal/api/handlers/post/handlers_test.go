package post

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Postify/internal/api/middleware"
	"Postify/internal/core/posts"
	"Postify/internal/core/users"
)

// mockPostService implements posts.Service for testing
type mockPostService struct {
	createFunc        func(ctx context.Context, actor posts.Actor, req posts.CreatePostRequest) (*posts.PostView, error)
	getFunc           func(ctx context.Context, postID string) (*posts.PostView, error)
	updateFunc        func(ctx context.Context, actor posts.Actor, postID string, req posts.UpdatePostRequest) (*posts.PostView, error)
	deleteFunc        func(ctx context.Context, actor posts.Actor, postID string) error
	toggleLikeFunc    func(ctx context.Context, actor posts.Actor, postID string) (*posts.PostView, error)
	addCommentFunc    func(ctx context.Context, actor posts.Actor, postID string, req posts.AddCommentRequest) (*posts.PostView, error)
	deleteCommentFunc func(ctx context.Context, actor posts.Actor, postID, commentID string) (*posts.PostView, error)
	feedFunc          func(ctx context.Context, page, limit int) (*posts.FeedPage, error)
	authorPostsFunc   func(ctx context.Context, authorID string) ([]*posts.PostView, error)
}

func (m *mockPostService) CreatePost(ctx context.Context, actor posts.Actor, req posts.CreatePostRequest) (*posts.PostView, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, actor, req)
	}
	return &posts.PostView{ID: "p1", Content: req.Content, Author: posts.AuthorView{ID: actor.ID}}, nil
}

func (m *mockPostService) GetPost(ctx context.Context, postID string) (*posts.PostView, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, postID)
	}
	return &posts.PostView{ID: postID}, nil
}

func (m *mockPostService) UpdatePost(ctx context.Context, actor posts.Actor, postID string, req posts.UpdatePostRequest) (*posts.PostView, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, actor, postID, req)
	}
	return &posts.PostView{ID: postID, Content: req.Content}, nil
}

func (m *mockPostService) DeletePost(ctx context.Context, actor posts.Actor, postID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, actor, postID)
	}
	return nil
}

func (m *mockPostService) ToggleLike(ctx context.Context, actor posts.Actor, postID string) (*posts.PostView, error) {
	if m.toggleLikeFunc != nil {
		return m.toggleLikeFunc(ctx, actor, postID)
	}
	return &posts.PostView{ID: postID, Likes: []string{actor.ID}}, nil
}

func (m *mockPostService) AddComment(ctx context.Context, actor posts.Actor, postID string, req posts.AddCommentRequest) (*posts.PostView, error) {
	if m.addCommentFunc != nil {
		return m.addCommentFunc(ctx, actor, postID, req)
	}
	return &posts.PostView{ID: postID}, nil
}

func (m *mockPostService) DeleteComment(ctx context.Context, actor posts.Actor, postID, commentID string) (*posts.PostView, error) {
	if m.deleteCommentFunc != nil {
		return m.deleteCommentFunc(ctx, actor, postID, commentID)
	}
	return &posts.PostView{ID: postID}, nil
}

func (m *mockPostService) GetFeed(ctx context.Context, page, limit int) (*posts.FeedPage, error) {
	if m.feedFunc != nil {
		return m.feedFunc(ctx, page, limit)
	}
	return &posts.FeedPage{Items: []*posts.PostView{}, CurrentPage: page}, nil
}

func (m *mockPostService) GetAuthorPosts(ctx context.Context, authorID string) ([]*posts.PostView, error) {
	if m.authorPostsFunc != nil {
		return m.authorPostsFunc(ctx, authorID)
	}
	return []*posts.PostView{}, nil
}

// newTestRouter mounts the handlers the same way the routes package does,
// minus the JWT check
func newTestRouter(service posts.Service) http.Handler {
	r := chi.NewRouter()
	list := NewListHandler(service)
	comment := NewCommentHandler(service)

	r.Get("/api/posts", list.HandleFeed)
	r.Post("/api/posts", NewCreateHandler(service).HandleCreate)
	r.Get("/api/posts/user/{userId}", list.HandleUserPosts)
	r.Get("/api/posts/{id}", NewGetHandler(service).HandleGet)
	r.Put("/api/posts/{id}", NewUpdateHandler(service).HandleUpdate)
	r.Delete("/api/posts/{id}", NewDeleteHandler(service).HandleDelete)
	r.Put("/api/posts/{id}/like", NewLikeHandler(service).HandleToggleLike)
	r.Post("/api/posts/{id}/comment", comment.HandleAddComment)
	r.Delete("/api/posts/{id}/comment/{commentId}", comment.HandleDeleteComment)
	return r
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string, userID string, role users.Role) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		// Simulates the auth middleware
		req = req.WithContext(middleware.SetTestUser(req.Context(), userID, role))
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), "body: %s", w.Body.String())
	}
	return w, decoded
}

func TestCreateHandler_Success(t *testing.T) {
	var gotActor posts.Actor
	var gotReq posts.CreatePostRequest
	service := &mockPostService{
		createFunc: func(ctx context.Context, actor posts.Actor, req posts.CreatePostRequest) (*posts.PostView, error) {
			gotActor, gotReq = actor, req
			return &posts.PostView{ID: "p1", Content: "hello", Author: posts.AuthorView{ID: actor.ID}}, nil
		},
	}

	w, body := doRequest(t, newTestRouter(service), http.MethodPost, "/api/posts",
		`{"content":"hello","imageUrl":"https://cdn.example.com/x.png"}`, "alice", users.RoleUser)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "p1", data["_id"])

	assert.Equal(t, "alice", gotActor.ID)
	assert.Equal(t, "hello", gotReq.Content)
	require.NotNil(t, gotReq.ImageURL)
	assert.Equal(t, "https://cdn.example.com/x.png", *gotReq.ImageURL)
}

func TestCreateHandler_InvalidBody(t *testing.T) {
	w, body := doRequest(t, newTestRouter(&mockPostService{}), http.MethodPost, "/api/posts",
		`{"content":`, "alice", users.RoleUser)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidRequest", body["error"])
}

func TestCreateHandler_BodyTooLarge(t *testing.T) {
	huge := `{"content":"` + strings.Repeat("a", maxBodyBytes+1) + `"}`

	w, body := doRequest(t, newTestRouter(&mockPostService{}), http.MethodPost, "/api/posts",
		huge, "alice", users.RoleUser)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "RequestTooLarge", body["error"])
}

func TestHandlers_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{name: "validation", err: posts.NewValidationError("content", "content is required"), wantStatus: http.StatusBadRequest, wantError: "InvalidRequest"},
		{name: "not found", err: posts.ErrNotFound, wantStatus: http.StatusNotFound, wantError: "PostNotFound"},
		{name: "comment not found", err: posts.ErrCommentNotFound, wantStatus: http.StatusNotFound, wantError: "CommentNotFound"},
		{name: "forbidden", err: posts.ErrForbidden, wantStatus: http.StatusForbidden, wantError: "NotAuthorized"},
		{name: "auth required", err: posts.ErrAuthRequired, wantStatus: http.StatusUnauthorized, wantError: "AuthRequired"},
		{name: "persistence", err: &posts.PersistenceError{Op: "update post", Err: errors.New("db down")}, wantStatus: http.StatusInternalServerError, wantError: "InternalServerError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mockPostService{
				updateFunc: func(ctx context.Context, actor posts.Actor, postID string, req posts.UpdatePostRequest) (*posts.PostView, error) {
					return nil, tt.err
				},
			}

			w, body := doRequest(t, newTestRouter(service), http.MethodPut, "/api/posts/p1",
				`{"content":"x"}`, "bob", users.RoleUser)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantError, body["error"])
			assert.NotContains(t, body["message"], "db down", "internal details must not leak")
		})
	}
}

func TestUpdateHandler_ForbiddenMessage(t *testing.T) {
	service := &mockPostService{
		updateFunc: func(ctx context.Context, actor posts.Actor, postID string, req posts.UpdatePostRequest) (*posts.PostView, error) {
			return nil, posts.ErrForbidden
		},
	}

	_, body := doRequest(t, newTestRouter(service), http.MethodPut, "/api/posts/p1",
		`{"content":"x"}`, "bob", users.RoleUser)

	assert.Equal(t, "Not authorized to update this post", body["message"])
}

func TestUpdateHandler_ImageOmittedVsEmpty(t *testing.T) {
	var got []posts.UpdatePostRequest
	service := &mockPostService{
		updateFunc: func(ctx context.Context, actor posts.Actor, postID string, req posts.UpdatePostRequest) (*posts.PostView, error) {
			got = append(got, req)
			return &posts.PostView{ID: postID}, nil
		},
	}
	router := newTestRouter(service)

	doRequest(t, router, http.MethodPut, "/api/posts/p1", `{"content":"a"}`, "alice", users.RoleUser)
	doRequest(t, router, http.MethodPut, "/api/posts/p1", `{"content":"b","imageUrl":""}`, "alice", users.RoleUser)

	require.Len(t, got, 2)
	assert.Nil(t, got[0].ImageURL)
	require.NotNil(t, got[1].ImageURL)
	assert.Equal(t, "", *got[1].ImageURL)
}

func TestDeleteHandler_Success(t *testing.T) {
	var gotActor posts.Actor
	var gotID string
	service := &mockPostService{
		deleteFunc: func(ctx context.Context, actor posts.Actor, postID string) error {
			gotActor, gotID = actor, postID
			return nil
		},
	}

	w, body := doRequest(t, newTestRouter(service), http.MethodDelete, "/api/posts/p9", "", "root", users.RoleAdmin)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]interface{}{}, body["data"])
	assert.Equal(t, "p9", gotID)
	assert.Equal(t, users.RoleAdmin, gotActor.Role)
}

func TestLikeHandler_PassesActor(t *testing.T) {
	w, body := doRequest(t, newTestRouter(&mockPostService{}), http.MethodPut, "/api/posts/p1/like", "", "bob", users.RoleUser)

	assert.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, []interface{}{"bob"}, data["likes"])
}

func TestCommentHandlers(t *testing.T) {
	var gotContent, gotCommentID string
	service := &mockPostService{
		addCommentFunc: func(ctx context.Context, actor posts.Actor, postID string, req posts.AddCommentRequest) (*posts.PostView, error) {
			gotContent = req.Content
			return &posts.PostView{ID: postID}, nil
		},
		deleteCommentFunc: func(ctx context.Context, actor posts.Actor, postID, commentID string) (*posts.PostView, error) {
			gotCommentID = commentID
			return nil, posts.ErrForbidden
		},
	}
	router := newTestRouter(service)

	w, _ := doRequest(t, router, http.MethodPost, "/api/posts/p1/comment", `{"content":"nice"}`, "bob", users.RoleUser)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nice", gotContent)

	w, body := doRequest(t, router, http.MethodDelete, "/api/posts/p1/comment/c7", "", "bob", users.RoleUser)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Not authorized to delete this comment", body["message"])
	assert.Equal(t, "c7", gotCommentID)
}

func TestListHandler_Feed(t *testing.T) {
	var gotPage, gotLimit int
	service := &mockPostService{
		feedFunc: func(ctx context.Context, page, limit int) (*posts.FeedPage, error) {
			gotPage, gotLimit = page, limit
			return &posts.FeedPage{
				Items:       []*posts.PostView{{ID: "p5"}, {ID: "p4"}},
				CurrentPage: page,
				TotalPages:  3,
				TotalCount:  5,
				HasMore:     true,
			}, nil
		},
	}
	router := newTestRouter(service)

	w, body := doRequest(t, router, http.MethodGet, "/api/posts?page=1&limit=2", "", "alice", users.RoleUser)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, gotPage)
	assert.Equal(t, 2, gotLimit)
	assert.Len(t, body["data"], 2)

	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["currentPage"])
	assert.Equal(t, float64(3), pagination["totalPages"])
	assert.Equal(t, float64(5), pagination["totalPosts"])
	assert.Equal(t, true, pagination["hasMore"])

	// Defaults apply when the query is empty
	doRequest(t, router, http.MethodGet, "/api/posts", "", "alice", users.RoleUser)
	assert.Equal(t, posts.DefaultPage, gotPage)
	assert.Equal(t, posts.DefaultPageSize, gotLimit)
}

func TestListHandler_FeedBadQuery(t *testing.T) {
	w, body := doRequest(t, newTestRouter(&mockPostService{}), http.MethodGet, "/api/posts?page=abc", "", "alice", users.RoleUser)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidRequest", body["error"])
}

func TestParseIntQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    int
		wantErr bool
	}{
		{name: "absent", query: "", want: 7},
		{name: "value", query: "page=3", want: 3},
		{name: "zero passes through", query: "page=0", want: 0},
		{name: "negative passes through", query: "page=-2", want: -2},
		{name: "not a number", query: "page=x", wantErr: true},
		{name: "beyond int64", query: "page=99999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/posts?"+tt.query, nil)
			got, err := parseIntQuery(req, "page", 7)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListHandler_UserPosts(t *testing.T) {
	service := &mockPostService{
		authorPostsFunc: func(ctx context.Context, authorID string) ([]*posts.PostView, error) {
			return []*posts.PostView{{ID: "a"}, {ID: "b"}, {ID: "c"}}, nil
		},
	}

	w, body := doRequest(t, newTestRouter(service), http.MethodGet, "/api/posts/user/alice", "", "bob", users.RoleUser)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), body["count"])
	assert.Len(t, body["data"], 3)
}

func TestGetHandler_NotFound(t *testing.T) {
	service := &mockPostService{
		getFunc: func(ctx context.Context, postID string) (*posts.PostView, error) {
			return nil, posts.ErrNotFound
		},
	}

	w, body := doRequest(t, newTestRouter(service), http.MethodGet, "/api/posts/missing", "", "alice", users.RoleUser)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post not found", body["message"])
}
