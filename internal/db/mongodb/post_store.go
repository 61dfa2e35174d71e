package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"Postify/internal/core/posts"
	"Postify/internal/core/users"
)

// postDoc is the stored shape of a post
type postDoc struct {
	CreatedAt time.Time    `bson:"createdAt"`
	UpdatedAt time.Time    `bson:"updatedAt"`
	ImageURL  *string      `bson:"imageUrl"`
	ID        string       `bson:"_id"`
	AuthorID  string       `bson:"authorId"`
	Content   string       `bson:"content"`
	Likes     []string     `bson:"likes"`
	Comments  []commentDoc `bson:"comments"`
}

type commentDoc struct {
	CreatedAt time.Time `bson:"createdAt"`
	ID        string    `bson:"_id"`
	AuthorID  string    `bson:"authorId"`
	Content   string    `bson:"content"`
}

// populatedDoc is a post with the $lookup results attached
type populatedDoc struct {
	Post       postDoc      `bson:",inline"`
	Authors    []users.User `bson:"authorDocs"`
	Commenters []users.User `bson:"commenterDocs"`
}

type mongoPostStore struct {
	posts *mongo.Collection
	users *mongoUserStore
	now   func() time.Time
}

// NewPostStore creates a posts.Repository backed by the posts collection
func NewPostStore(db *mongo.Database) posts.Repository {
	return &mongoPostStore{
		posts: db.Collection(postsCollection),
		users: newUserStore(db),
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func byID(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

// Create inserts a new post document with empty like and comment arrays
func (s *mongoPostStore) Create(ctx context.Context, authorID, content string, imageURL *string) (*posts.PostView, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate post ID: %w", err)
	}

	now := s.now()
	doc := postDoc{
		ID:        id.String(),
		AuthorID:  authorID,
		Content:   content,
		ImageURL:  imageURL,
		Likes:     []string{},
		Comments:  []commentDoc{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.posts.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}

	return s.populate(ctx, &doc)
}

// GetByID returns the post with author and commenters joined by $lookup
func (s *mongoPostStore) GetByID(ctx context.Context, id string) (*posts.PostView, error) {
	views, err := s.aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: byID(id)}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if len(views) == 0 {
		return nil, posts.ErrNotFound
	}
	return views[0], nil
}

// UpdateContent sets content and optionally replaces or clears the image
func (s *mongoPostStore) UpdateContent(ctx context.Context, id string, params posts.UpdateContentParams) (*posts.PostView, error) {
	set := bson.D{
		{Key: "content", Value: params.Content},
		{Key: "updatedAt", Value: s.now()},
	}
	if params.ImageURL != nil {
		if *params.ImageURL == "" {
			set = append(set, bson.E{Key: "imageUrl", Value: nil})
		} else {
			set = append(set, bson.E{Key: "imageUrl", Value: *params.ImageURL})
		}
	}

	return s.findOneAndUpdate(ctx, "update post", byID(id), bson.D{{Key: "$set", Value: set}})
}

// Delete removes the post document
func (s *mongoPostStore) Delete(ctx context.Context, id string) error {
	result, err := s.posts.DeleteOne(ctx, byID(id))
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if result.DeletedCount == 0 {
		return posts.ErrNotFound
	}
	return nil
}

// ToggleLike flips membership with a pipeline update so the check and the
// write happen in the same server-side operation
func (s *mongoPostStore) ToggleLike(ctx context.Context, id, userID string) (*posts.PostView, error) {
	liker := bson.D{{Key: "$literal", Value: userID}}

	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "likes", Value: bson.D{{Key: "$cond", Value: bson.D{
				{Key: "if", Value: bson.D{{Key: "$in", Value: bson.A{liker, "$likes"}}}},
				{Key: "then", Value: bson.D{{Key: "$filter", Value: bson.D{
					{Key: "input", Value: "$likes"},
					{Key: "as", Value: "l"},
					{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$l", liker}}}},
				}}}},
				{Key: "else", Value: bson.D{{Key: "$concatArrays", Value: bson.A{"$likes", bson.A{liker}}}}},
			}}}},
			{Key: "updatedAt", Value: s.now()},
		}}},
	}

	return s.findOneAndUpdate(ctx, "toggle like", byID(id), update)
}

// AppendComment pushes a new comment onto the embedded array
func (s *mongoPostStore) AppendComment(ctx context.Context, id, authorID, content string) (*posts.PostView, error) {
	commentID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate comment ID: %w", err)
	}

	now := s.now()
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "comments", Value: commentDoc{
			ID:        commentID.String(),
			AuthorID:  authorID,
			Content:   content,
			CreatedAt: now,
		}}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: now}}},
	}

	return s.findOneAndUpdate(ctx, "append comment", byID(id), update)
}

// RemoveComment pulls the comment by ID; $pull keeps the order of the rest
func (s *mongoPostStore) RemoveComment(ctx context.Context, id, commentID string) (*posts.PostView, error) {
	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "comments._id", Value: commentID},
	}
	update := bson.D{
		{Key: "$pull", Value: bson.D{{Key: "comments", Value: bson.D{{Key: "_id", Value: commentID}}}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: s.now()}}},
	}

	view, err := s.findOneAndUpdate(ctx, "remove comment", filter, update)
	if !errors.Is(err, posts.ErrNotFound) {
		return view, err
	}

	// Nothing matched: tell a missing post from a missing comment
	count, err := s.posts.CountDocuments(ctx, byID(id), options.Count().SetLimit(1))
	if err != nil {
		return nil, fmt.Errorf("failed to check post existence: %w", err)
	}
	if count > 0 {
		return nil, posts.ErrCommentNotFound
	}
	return nil, posts.ErrNotFound
}

// ListByAuthor returns every post by authorID, newest first
func (s *mongoPostStore) ListByAuthor(ctx context.Context, authorID string) ([]*posts.PostView, error) {
	views, err := s.aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "authorId", Value: authorID}}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by author: %w", err)
	}
	return views, nil
}

// ListPage returns one window of the feed and the total count. These are two
// separate reads, so the count can be off by concurrent creates or deletes.
func (s *mongoPostStore) ListPage(ctx context.Context, offset, limit int) ([]*posts.PostView, int, error) {
	views, err := s.aggregate(ctx, mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$skip", Value: int64(offset)}},
		{{Key: "$limit", Value: int64(limit)}},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list feed page: %w", err)
	}

	total, err := s.posts.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	return views, int(total), nil
}

// findOneAndUpdate applies an update to a single document and returns the
// post-image populated
func (s *mongoPostStore) findOneAndUpdate(ctx context.Context, op string, filter, update any) (*posts.PostView, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc postDoc
	err := s.posts.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}

	return s.populate(ctx, &doc)
}

// aggregate runs stages followed by the author and commenter lookups
func (s *mongoPostStore) aggregate(ctx context.Context, stages mongo.Pipeline) ([]*posts.PostView, error) {
	pipeline := append(stages,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "authorId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "authorDocs"},
		}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "comments.authorId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "commenterDocs"},
		}}},
	)

	cursor, err := s.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var docs []populatedDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	views := make([]*posts.PostView, 0, len(docs))
	for i := range docs {
		known := make(map[string]*users.User, len(docs[i].Authors)+len(docs[i].Commenters))
		for j := range docs[i].Authors {
			known[docs[i].Authors[j].ID] = &docs[i].Authors[j]
		}
		for j := range docs[i].Commenters {
			known[docs[i].Commenters[j].ID] = &docs[i].Commenters[j]
		}
		views = append(views, toView(&docs[i].Post, known))
	}
	return views, nil
}

// populate resolves users for a document returned by a write
func (s *mongoPostStore) populate(ctx context.Context, doc *postDoc) (*posts.PostView, error) {
	ids := []string{doc.AuthorID}
	for _, c := range doc.Comments {
		ids = append(ids, c.AuthorID)
	}

	known, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve authors: %w", err)
	}
	return toView(doc, known), nil
}

func toView(doc *postDoc, known map[string]*users.User) *posts.PostView {
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
	if view.Likes == nil {
		view.Likes = []string{}
	}
	if u, ok := known[doc.AuthorID]; ok {
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
		if u, ok := known[c.AuthorID]; ok {
			cv.Author.Name = u.Name
		}
		view.Comments = append(view.Comments, cv)
	}
	return view
}
