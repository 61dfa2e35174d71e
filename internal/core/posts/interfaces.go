package posts

import "context"

// Service is the interaction engine: every post mutation and read goes through it
type Service interface {
	// CreatePost validates content and stores a new post authored by the actor
	CreatePost(ctx context.Context, actor Actor, req CreatePostRequest) (*PostView, error)

	// GetPost returns a single populated post
	GetPost(ctx context.Context, postID string) (*PostView, error)

	// UpdatePost replaces content (and optionally the image).
	// Flow: Load -> NotFound -> Authorize -> Validate -> Persist
	UpdatePost(ctx context.Context, actor Actor, postID string, req UpdatePostRequest) (*PostView, error)

	// DeletePost removes the post together with its likes and comments
	DeletePost(ctx context.Context, actor Actor, postID string) error

	// ToggleLike flips the actor's membership in the like set
	ToggleLike(ctx context.Context, actor Actor, postID string) (*PostView, error)

	// AddComment appends a comment authored by the actor
	AddComment(ctx context.Context, actor Actor, postID string, req AddCommentRequest) (*PostView, error)

	// DeleteComment removes one comment.
	// Allowed for the comment author, the post author, or an admin.
	DeleteComment(ctx context.Context, actor Actor, postID, commentID string) (*PostView, error)

	// GetFeed returns one page of the feed, newest first
	GetFeed(ctx context.Context, page, limit int) (*FeedPage, error)

	// GetAuthorPosts returns every post by an author, newest first
	GetAuthorPosts(ctx context.Context, authorID string) ([]*PostView, error)
}

// Repository is the post store. Reads return populated views; like and comment
// mutations are single atomic operations on one post, never read-modify-write.
type Repository interface {
	// Create stores a new post and returns it populated
	Create(ctx context.Context, authorID, content string, imageURL *string) (*PostView, error)

	// GetByID returns ErrNotFound when the post does not exist
	GetByID(ctx context.Context, id string) (*PostView, error)

	// UpdateContent sets content/image and refreshes updatedAt
	UpdateContent(ctx context.Context, id string, params UpdateContentParams) (*PostView, error)

	// Delete removes the post document. Returns ErrNotFound if already gone.
	Delete(ctx context.Context, id string) error

	// ToggleLike removes userID from likes if present, else adds it, atomically
	ToggleLike(ctx context.Context, id, userID string) (*PostView, error)

	// AppendComment pushes a new comment with a fresh ID and timestamp
	AppendComment(ctx context.Context, id, authorID, content string) (*PostView, error)

	// RemoveComment pulls exactly one comment by ID.
	// Returns ErrCommentNotFound if the post exists but the comment does not.
	RemoveComment(ctx context.Context, id, commentID string) (*PostView, error)

	// ListByAuthor returns every post by authorID ordered by createdAt DESC, id DESC
	ListByAuthor(ctx context.Context, authorID string) ([]*PostView, error)

	// ListPage returns a window ordered by createdAt DESC, id DESC and the total count
	ListPage(ctx context.Context, offset, limit int) ([]*PostView, int, error)
}
