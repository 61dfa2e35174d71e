package posts

import (
	"time"

	"Postify/internal/core/users"
)

// Post is the aggregate root: content, optional image, the like set and the
// embedded comment list. Comments never exist outside their post.
type Post struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	ImageURL  *string   `json:"imageUrl"`
	ID        string    `json:"_id"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"authorId"`
	Likes     []string  `json:"likes"`
	Comments  []Comment `json:"comments"`
}

// Comment is an embedded record identified by ID within its parent post
type Comment struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"_id"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
}

// AuthorView is the read-time population of a user reference.
// Email is only filled for post authors.
type AuthorView struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// CommentView is a comment with its author populated
type CommentView struct {
	CreatedAt time.Time  `json:"createdAt"`
	Author    AuthorView `json:"user"`
	ID        string     `json:"_id"`
	Content   string     `json:"content"`
}

// PostView is the fully populated read model returned by every store read
// and every engine operation
type PostView struct {
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	ImageURL  *string       `json:"imageUrl"`
	Author    AuthorView    `json:"user"`
	ID        string        `json:"_id"`
	Content   string        `json:"content"`
	Likes     []string      `json:"likes"`
	Comments  []CommentView `json:"comments"`
}

// HasLike reports whether userID is in the like set
func (p *PostView) HasLike(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// FindComment returns the comment with the given ID, or nil
func (p *PostView) FindComment(commentID string) *CommentView {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return &p.Comments[i]
		}
	}
	return nil
}

// Actor is the authenticated caller as handed over by the auth layer
type Actor struct {
	ID   string
	Role users.Role
}

// IsPrivileged reports whether the actor bypasses ownership checks
func (a Actor) IsPrivileged() bool {
	return a.Role.IsPrivileged()
}

// CreatePostRequest is the input for creating a post
type CreatePostRequest struct {
	ImageURL *string `json:"imageUrl,omitempty"`
	Content  string  `json:"content"`
}

// UpdatePostRequest is the input for replacing a post's content.
// A nil ImageURL keeps the current image; an empty string removes it.
type UpdatePostRequest struct {
	ImageURL *string `json:"imageUrl,omitempty"`
	Content  string  `json:"content"`
}

// AddCommentRequest is the input for appending a comment
type AddCommentRequest struct {
	Content string `json:"content"`
}

// UpdateContentParams carries a validated content update down to the store.
// ImageURL follows the UpdatePostRequest convention (nil keeps, "" clears).
type UpdateContentParams struct {
	ImageURL *string
	Content  string
}

// FeedPage is one window of the recency-ordered feed
type FeedPage struct {
	Items       []*PostView `json:"data"`
	CurrentPage int         `json:"currentPage"`
	TotalPages  int         `json:"totalPages"`
	TotalCount  int         `json:"totalPosts"`
	HasMore     bool        `json:"hasMore"`
}
