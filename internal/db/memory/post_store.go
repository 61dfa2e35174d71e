package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"Postify/internal/core/posts"
	"Postify/internal/core/users"
)

// PostStore keeps post documents in memory. Each mutation runs under the
// store mutex, which gives the same per-document atomicity the database
// backends get from their native update operators.
type PostStore struct {
	posts map[string]*posts.Post
	users users.Repository
	now   func() time.Time
	mu    sync.RWMutex
}

// NewPostStore creates an empty post store that populates authors from userRepo
func NewPostStore(userRepo users.Repository) *PostStore {
	return &PostStore{
		posts: make(map[string]*posts.Post),
		users: userRepo,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the timestamp source
func (s *PostStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

// Create stores a new post document
func (s *PostStore) Create(ctx context.Context, authorID, content string, imageURL *string) (*posts.PostView, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	now := s.now()
	doc := &posts.Post{
		ID:        id,
		Content:   content,
		ImageURL:  copyString(imageURL),
		AuthorID:  authorID,
		Likes:     []string{},
		Comments:  []posts.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.posts[id] = doc
	snapshot := clonePost(doc)
	s.mu.Unlock()

	return s.populateOne(ctx, snapshot)
}

// GetByID returns the populated post
func (s *PostStore) GetByID(ctx context.Context, id string) (*posts.PostView, error) {
	s.mu.RLock()
	doc, ok := s.posts[id]
	if !ok {
		s.mu.RUnlock()
		return nil, posts.ErrNotFound
	}
	snapshot := clonePost(doc)
	s.mu.RUnlock()

	return s.populateOne(ctx, snapshot)
}

// UpdateContent replaces content and, when requested, the image reference
func (s *PostStore) UpdateContent(ctx context.Context, id string, params posts.UpdateContentParams) (*posts.PostView, error) {
	return s.mutate(ctx, id, func(doc *posts.Post, now time.Time) error {
		doc.Content = params.Content
		if params.ImageURL != nil {
			if *params.ImageURL == "" {
				doc.ImageURL = nil
			} else {
				doc.ImageURL = copyString(params.ImageURL)
			}
		}
		return nil
	})
}

// Delete removes the post and everything embedded in it
func (s *PostStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return posts.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

// ToggleLike flips userID's membership in the like set
func (s *PostStore) ToggleLike(ctx context.Context, id, userID string) (*posts.PostView, error) {
	return s.mutate(ctx, id, func(doc *posts.Post, now time.Time) error {
		for i, liker := range doc.Likes {
			if liker == userID {
				doc.Likes = append(doc.Likes[:i], doc.Likes[i+1:]...)
				return nil
			}
		}
		doc.Likes = append(doc.Likes, userID)
		return nil
	})
}

// AppendComment pushes a new comment onto the post
func (s *PostStore) AppendComment(ctx context.Context, id, authorID, content string) (*posts.PostView, error) {
	commentID, err := newID()
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, id, func(doc *posts.Post, now time.Time) error {
		doc.Comments = append(doc.Comments, posts.Comment{
			ID:        commentID,
			AuthorID:  authorID,
			Content:   content,
			CreatedAt: now,
		})
		return nil
	})
}

// RemoveComment pulls the comment with commentID, keeping the order of the rest
func (s *PostStore) RemoveComment(ctx context.Context, id, commentID string) (*posts.PostView, error) {
	return s.mutate(ctx, id, func(doc *posts.Post, now time.Time) error {
		for i, c := range doc.Comments {
			if c.ID == commentID {
				doc.Comments = append(doc.Comments[:i], doc.Comments[i+1:]...)
				return nil
			}
		}
		return posts.ErrCommentNotFound
	})
}

// ListByAuthor returns all posts by authorID, newest first
func (s *PostStore) ListByAuthor(ctx context.Context, authorID string) ([]*posts.PostView, error) {
	s.mu.RLock()
	var docs []*posts.Post
	for _, doc := range s.posts {
		if doc.AuthorID == authorID {
			docs = append(docs, clonePost(doc))
		}
	}
	s.mu.RUnlock()

	sortNewestFirst(docs)
	return s.populate(ctx, docs)
}

// ListPage returns one window of the feed and the total count, both taken
// under the same read lock
func (s *PostStore) ListPage(ctx context.Context, offset, limit int) ([]*posts.PostView, int, error) {
	s.mu.RLock()
	docs := make([]*posts.Post, 0, len(s.posts))
	for _, doc := range s.posts {
		docs = append(docs, doc)
	}
	total := len(docs)
	sortNewestFirst(docs)

	var window []*posts.Post
	if offset >= 0 && offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		for _, doc := range docs[offset:end] {
			window = append(window, clonePost(doc))
		}
	}
	s.mu.RUnlock()

	views, err := s.populate(ctx, window)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// mutate applies fn to a single document under the write lock and refreshes updatedAt
func (s *PostStore) mutate(ctx context.Context, id string, fn func(doc *posts.Post, now time.Time) error) (*posts.PostView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	doc, ok := s.posts[id]
	if !ok {
		s.mu.Unlock()
		return nil, posts.ErrNotFound
	}

	now := s.now()
	working := clonePost(doc)
	if err := fn(working, now); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	working.UpdatedAt = now
	s.posts[id] = working
	snapshot := clonePost(working)
	s.mu.Unlock()

	return s.populateOne(ctx, snapshot)
}

func (s *PostStore) populateOne(ctx context.Context, doc *posts.Post) (*posts.PostView, error) {
	views, err := s.populate(ctx, []*posts.Post{doc})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// populate resolves author and commenter names with one batch lookup
func (s *PostStore) populate(ctx context.Context, docs []*posts.Post) ([]*posts.PostView, error) {
	views := make([]*posts.PostView, 0, len(docs))
	if len(docs) == 0 {
		return views, nil
	}

	seen := make(map[string]struct{})
	var ids []string
	addID := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, doc := range docs {
		addID(doc.AuthorID)
		for _, c := range doc.Comments {
			addID(c.AuthorID)
		}
	}

	byID, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve authors: %w", err)
	}

	for _, doc := range docs {
		view := &posts.PostView{
			ID:        doc.ID,
			Content:   doc.Content,
			ImageURL:  doc.ImageURL,
			Author:    posts.AuthorView{ID: doc.AuthorID},
			Likes:     doc.Likes,
			Comments:  make([]posts.CommentView, 0, len(doc.Comments)),
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
		}
		if u, ok := byID[doc.AuthorID]; ok {
			view.Author.Name = u.Name
			view.Author.Email = u.Email
		}
		for _, c := range doc.Comments {
			cv := posts.CommentView{
				ID:        c.ID,
				Author:    posts.AuthorView{ID: c.AuthorID},
				Content:   c.Content,
				CreatedAt: c.CreatedAt,
			}
			if u, ok := byID[c.AuthorID]; ok {
				cv.Author.Name = u.Name
			}
			view.Comments = append(view.Comments, cv)
		}
		views = append(views, view)
	}
	return views, nil
}

func sortNewestFirst(docs []*posts.Post) {
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.After(docs[j].CreatedAt)
		}
		return docs[i].ID > docs[j].ID
	})
}

func clonePost(doc *posts.Post) *posts.Post {
	out := *doc
	out.ImageURL = copyString(doc.ImageURL)
	out.Likes = append(make([]string, 0, len(doc.Likes)), doc.Likes...)
	out.Comments = append(make([]posts.Comment, 0, len(doc.Comments)), doc.Comments...)
	return &out
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
