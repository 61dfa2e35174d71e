package posts

import (
	"context"
	"log/slog"
)

type postService struct {
	repo   Repository
	logger *slog.Logger
}

// NewPostService creates the interaction engine on top of a post store
func NewPostService(repo Repository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &postService{
		repo:   repo,
		logger: logger,
	}
}

// CreatePost stores a new post with the actor as author
func (s *postService) CreatePost(ctx context.Context, actor Actor, req CreatePostRequest) (*PostView, error) {
	if actor.ID == "" {
		return nil, ErrAuthRequired
	}

	content, err := ValidatePostContent(req.Content)
	if err != nil {
		return nil, err
	}

	post, err := s.repo.Create(ctx, actor.ID, content, normalizeImageURL(req.ImageURL))
	if err != nil {
		s.logger.Error("failed to create post",
			"error", err,
			"author", actor.ID)
		return nil, wrapStoreError("create post", err)
	}

	s.logger.Info("post created",
		"post", post.ID,
		"author", actor.ID)

	return post, nil
}

// GetPost returns a single populated post
func (s *postService) GetPost(ctx context.Context, postID string) (*PostView, error) {
	if err := requireID("postId", postID); err != nil {
		return nil, err
	}

	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, wrapStoreError("get post", err)
	}
	return post, nil
}

// UpdatePost replaces the content of a post owned by the actor (or any post for admins)
func (s *postService) UpdatePost(ctx context.Context, actor Actor, postID string, req UpdatePostRequest) (*PostView, error) {
	if actor.ID == "" {
		return nil, ErrAuthRequired
	}
	if err := requireID("postId", postID); err != nil {
		return nil, err
	}

	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, wrapStoreError("load post", err)
	}

	if !CanMutatePost(actor, post) {
		s.logger.Warn("post update denied",
			"post", postID,
			"actor", actor.ID,
			"author", post.Author.ID)
		return nil, ErrForbidden
	}

	content, err := ValidatePostContent(req.Content)
	if err != nil {
		return nil, err
	}

	params := UpdateContentParams{Content: content}
	if req.ImageURL != nil {
		// Keep the "" sentinel so the store clears the image
		image := ""
		if normalized := normalizeImageURL(req.ImageURL); normalized != nil {
			image = *normalized
		}
		params.ImageURL = &image
	}

	updated, err := s.repo.UpdateContent(ctx, postID, params)
	if err != nil {
		s.logger.Error("failed to update post",
			"error", err,
			"post", postID)
		return nil, wrapStoreError("update post", err)
	}

	return updated, nil
}

// DeletePost removes a post owned by the actor (or any post for admins)
func (s *postService) DeletePost(ctx context.Context, actor Actor, postID string) error {
	if actor.ID == "" {
		return ErrAuthRequired
	}
	if err := requireID("postId", postID); err != nil {
		return err
	}

	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return wrapStoreError("load post", err)
	}

	if !CanMutatePost(actor, post) {
		s.logger.Warn("post delete denied",
			"post", postID,
			"actor", actor.ID,
			"author", post.Author.ID)
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, postID); err != nil {
		s.logger.Error("failed to delete post",
			"error", err,
			"post", postID)
		return wrapStoreError("delete post", err)
	}

	s.logger.Info("post deleted",
		"post", postID,
		"actor", actor.ID,
		"comments", len(post.Comments),
		"likes", len(post.Likes))

	return nil
}

// ToggleLike adds or removes the actor's like. Anyone may like any post,
// including their own.
func (s *postService) ToggleLike(ctx context.Context, actor Actor, postID string) (*PostView, error) {
	if actor.ID == "" {
		return nil, ErrAuthRequired
	}
	if err := requireID("postId", postID); err != nil {
		return nil, err
	}

	// The store flips membership in one atomic operation, so there is no
	// separate existence check to race against.
	post, err := s.repo.ToggleLike(ctx, postID, actor.ID)
	if err != nil {
		if !IsNotFound(err) {
			s.logger.Error("failed to toggle like",
				"error", err,
				"post", postID,
				"actor", actor.ID)
		}
		return nil, wrapStoreError("toggle like", err)
	}

	s.logger.Debug("like toggled",
		"post", postID,
		"actor", actor.ID,
		"liked", post.HasLike(actor.ID))

	return post, nil
}

// AddComment appends a comment by the actor. Anyone may comment on any post.
func (s *postService) AddComment(ctx context.Context, actor Actor, postID string, req AddCommentRequest) (*PostView, error) {
	if actor.ID == "" {
		return nil, ErrAuthRequired
	}
	if err := requireID("postId", postID); err != nil {
		return nil, err
	}

	content, err := ValidateCommentContent(req.Content)
	if err != nil {
		return nil, err
	}

	post, err := s.repo.AppendComment(ctx, postID, actor.ID, content)
	if err != nil {
		if !IsNotFound(err) {
			s.logger.Error("failed to append comment",
				"error", err,
				"post", postID,
				"actor", actor.ID)
		}
		return nil, wrapStoreError("append comment", err)
	}

	return post, nil
}

// DeleteComment removes one comment after checking the authorization gate
func (s *postService) DeleteComment(ctx context.Context, actor Actor, postID, commentID string) (*PostView, error) {
	if actor.ID == "" {
		return nil, ErrAuthRequired
	}
	if err := requireID("postId", postID); err != nil {
		return nil, err
	}
	if err := requireID("commentId", commentID); err != nil {
		return nil, err
	}

	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, wrapStoreError("load post", err)
	}

	comment := post.FindComment(commentID)
	if comment == nil {
		return nil, ErrCommentNotFound
	}

	if !CanDeleteComment(actor, post, comment) {
		s.logger.Warn("comment delete denied",
			"post", postID,
			"comment", commentID,
			"actor", actor.ID)
		return nil, ErrForbidden
	}

	updated, err := s.repo.RemoveComment(ctx, postID, commentID)
	if err != nil {
		if !IsNotFound(err) {
			s.logger.Error("failed to remove comment",
				"error", err,
				"post", postID,
				"comment", commentID)
		}
		return nil, wrapStoreError("remove comment", err)
	}

	return updated, nil
}

// GetFeed returns one page of posts ordered newest first
func (s *postService) GetFeed(ctx context.Context, page, limit int) (*FeedPage, error) {
	offset, err := pageWindow(page, limit)
	if err != nil {
		return nil, err
	}

	items, total, err := s.repo.ListPage(ctx, offset, limit)
	if err != nil {
		s.logger.Error("failed to list feed page",
			"error", err,
			"page", page,
			"limit", limit)
		return nil, wrapStoreError("list page", err)
	}

	return buildFeedPage(items, page, limit, total), nil
}

// GetAuthorPosts returns every post by an author, newest first
func (s *postService) GetAuthorPosts(ctx context.Context, authorID string) ([]*PostView, error) {
	if err := requireID("userId", authorID); err != nil {
		return nil, err
	}

	result, err := s.repo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, wrapStoreError("list by author", err)
	}
	if result == nil {
		result = []*PostView{}
	}
	return result, nil
}
