package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"Postify/internal/core/posts"
	"Postify/internal/core/users"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// selectPopulated wraps a row source (table or CTE) with the author join.
// Every read and every mutation returns rows through it.
const selectPopulated = `
	SELECT
		p.id, p.author_id, p.content, p.image_url, p.likes, p.comments,
		p.created_at, p.updated_at,
		u.name, u.email
	FROM %s p
	LEFT JOIN users u ON u.id = p.author_id`

type postgresPostRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{
		db:  db,
		now: func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// postRow is the raw shape of a populated row before commenter names are resolved
type postRow struct {
	imageURL    sql.NullString
	authorName  sql.NullString
	authorEmail sql.NullString
	post        posts.Post
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostRow(s rowScanner) (*postRow, error) {
	var row postRow
	var commentsJSON []byte

	err := s.Scan(
		&row.post.ID, &row.post.AuthorID, &row.post.Content, &row.imageURL,
		pq.Array(&row.post.Likes), &commentsJSON,
		&row.post.CreatedAt, &row.post.UpdatedAt,
		&row.authorName, &row.authorEmail,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(commentsJSON, &row.post.Comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments for post %s: %w", row.post.ID, err)
	}
	if row.imageURL.Valid {
		row.post.ImageURL = &row.imageURL.String
	}
	if row.post.Likes == nil {
		row.post.Likes = []string{}
	}

	return &row, nil
}

// validID reports whether id can match a posts.id UUID column.
// Malformed IDs are treated as missing posts rather than store failures.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Create inserts a new post and returns it populated
func (r *postgresPostRepo) Create(ctx context.Context, authorID, content string, imageURL *string) (*posts.PostView, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate post ID: %w", err)
	}

	var image sql.NullString
	if imageURL != nil {
		image = sql.NullString{String: *imageURL, Valid: true}
	}

	now := r.now()
	query := `
		WITH inserted AS (
			INSERT INTO posts (id, author_id, content, image_url, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			RETURNING *
		)` + fmt.Sprintf(selectPopulated, "inserted")

	row, err := scanPostRow(r.db.QueryRowContext(ctx, query, id.String(), authorID, content, image, now))
	if err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}

	return r.populateOne(ctx, r.db, row)
}

// GetByID retrieves a populated post
func (r *postgresPostRepo) GetByID(ctx context.Context, id string) (*posts.PostView, error) {
	if !validID(id) {
		return nil, posts.ErrNotFound
	}

	query := fmt.Sprintf(selectPopulated, "posts") + ` WHERE p.id = $1`

	row, err := scanPostRow(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return r.populateOne(ctx, r.db, row)
}

// UpdateContent sets content and optionally replaces or clears the image
func (r *postgresPostRepo) UpdateContent(ctx context.Context, id string, params posts.UpdateContentParams) (*posts.PostView, error) {
	setImage := params.ImageURL != nil
	image := ""
	if setImage {
		image = *params.ImageURL
	}

	return r.updateReturning(ctx, "update post", id, `
		UPDATE posts
		SET content = $2,
			image_url = CASE WHEN $3::boolean THEN NULLIF($4::text, '') ELSE image_url END,
			updated_at = $5
		WHERE id = $1
		RETURNING *`,
		params.Content, setImage, image, r.now())
}

// Delete removes the post row; likes and comments go with it
func (r *postgresPostRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return posts.ErrNotFound
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rowsAffected == 0 {
		return posts.ErrNotFound
	}

	return nil
}

// ToggleLike flips membership in a single UPDATE. Concurrent toggles on the
// same row serialize on the row lock and each re-evaluates the CASE against
// the latest likes array.
func (r *postgresPostRepo) ToggleLike(ctx context.Context, id, userID string) (*posts.PostView, error) {
	return r.updateReturning(ctx, "toggle like", id, `
		UPDATE posts
		SET likes = CASE
				WHEN $2::text = ANY(likes) THEN array_remove(likes, $2::text)
				ELSE array_append(likes, $2::text)
			END,
			updated_at = $3
		WHERE id = $1
		RETURNING *`,
		userID, r.now())
}

// AppendComment concatenates one comment object onto the JSONB array
func (r *postgresPostRepo) AppendComment(ctx context.Context, id, authorID, content string) (*posts.PostView, error) {
	commentID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate comment ID: %w", err)
	}

	now := r.now()
	comment, err := json.Marshal(posts.Comment{
		ID:        commentID.String(),
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode comment: %w", err)
	}

	return r.updateReturning(ctx, "append comment", id, `
		UPDATE posts
		SET comments = comments || jsonb_build_array($2::jsonb),
			updated_at = $3
		WHERE id = $1
		RETURNING *`,
		string(comment), now)
}

// RemoveComment filters one element out of the JSONB array, keeping the
// original order of the rest
func (r *postgresPostRepo) RemoveComment(ctx context.Context, id, commentID string) (*posts.PostView, error) {
	if !validID(id) {
		return nil, posts.ErrNotFound
	}

	view, err := r.updateReturning(ctx, "remove comment", id, `
		UPDATE posts
		SET comments = (
				SELECT COALESCE(jsonb_agg(elem ORDER BY ord), '[]'::jsonb)
				FROM jsonb_array_elements(comments) WITH ORDINALITY AS t(elem, ord)
				WHERE elem->>'_id' <> $2::text
			),
			updated_at = $3
		WHERE id = $1
		  AND comments @> jsonb_build_array(jsonb_build_object('_id', $2::text))
		RETURNING *`,
		commentID, r.now())
	if err != posts.ErrNotFound {
		return view, err
	}

	// No row matched: either the post or the comment is gone
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check post existence: %w", err)
	}
	if exists {
		return nil, posts.ErrCommentNotFound
	}
	return nil, posts.ErrNotFound
}

// ListByAuthor returns every post by authorID, newest first
func (r *postgresPostRepo) ListByAuthor(ctx context.Context, authorID string) ([]*posts.PostView, error) {
	query := fmt.Sprintf(selectPopulated, "posts") + `
		WHERE p.author_id = $1
		ORDER BY p.created_at DESC, p.id DESC`

	rows, err := r.db.QueryContext(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by author: %w", err)
	}

	postRows, err := collectRows(rows)
	if err != nil {
		return nil, err
	}

	return r.populate(ctx, r.db, postRows)
}

// ListPage reads the window and the total count inside one read-only
// REPEATABLE READ transaction so both see the same snapshot
func (r *postgresPostRepo) ListPage(ctx context.Context, offset, limit int) ([]*posts.PostView, int, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && rollbackErr != sql.ErrTxDone {
			log.Printf("Failed to rollback transaction: %v", rollbackErr)
		}
	}()

	query := fmt.Sprintf(selectPopulated, "posts") + `
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1 OFFSET $2`

	rows, err := tx.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list feed page: %w", err)
	}

	postRows, err := collectRows(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	views, err := r.populate(ctx, tx, postRows)
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return views, total, nil
}

// updateReturning runs a single-row UPDATE ... RETURNING * statement with $1
// bound to the post ID and returns the populated result
func (r *postgresPostRepo) updateReturning(ctx context.Context, op, id, update string, args ...any) (*posts.PostView, error) {
	if !validID(id) {
		return nil, posts.ErrNotFound
	}

	query := `WITH updated AS (` + update + `)` + fmt.Sprintf(selectPopulated, "updated")

	row, err := scanPostRow(r.db.QueryRowContext(ctx, query, append([]any{id}, args...)...))
	if err == sql.ErrNoRows {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}

	return r.populateOne(ctx, r.db, row)
}

func collectRows(rows *sql.Rows) ([]*postRow, error) {
	defer func() { _ = rows.Close() }()

	var result []*postRow
	for rows.Next() {
		row, err := scanPostRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return result, nil
}

func (r *postgresPostRepo) populateOne(ctx context.Context, q querier, row *postRow) (*posts.PostView, error) {
	views, err := r.populate(ctx, q, []*postRow{row})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// populate resolves commenter names with one batch query; author name and
// email already came from the join
func (r *postgresPostRepo) populate(ctx context.Context, q querier, rows []*postRow) ([]*posts.PostView, error) {
	views := make([]*posts.PostView, 0, len(rows))

	seen := make(map[string]struct{})
	var commenterIDs []string
	for _, row := range rows {
		for _, c := range row.post.Comments {
			if _, ok := seen[c.AuthorID]; !ok {
				seen[c.AuthorID] = struct{}{}
				commenterIDs = append(commenterIDs, c.AuthorID)
			}
		}
	}

	commenters, err := (&postgresUserRepo{db: q}).GetByIDs(ctx, commenterIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve commenters: %w", err)
	}

	for _, row := range rows {
		p := row.post
		view := &posts.PostView{
			ID:       p.ID,
			Content:  p.Content,
			ImageURL: p.ImageURL,
			Author: posts.AuthorView{
				ID:    p.AuthorID,
				Name:  row.authorName.String,
				Email: row.authorEmail.String,
			},
			Likes:     p.Likes,
			Comments:  make([]posts.CommentView, 0, len(p.Comments)),
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		}
		for _, c := range p.Comments {
			view.Comments = append(view.Comments, posts.CommentView{
				ID:        c.ID,
				Author:    posts.AuthorView{ID: c.AuthorID, Name: commenterName(commenters, c.AuthorID)},
				Content:   c.Content,
				CreatedAt: c.CreatedAt,
			})
		}
		views = append(views, view)
	}

	return views, nil
}

func commenterName(known map[string]*users.User, id string) string {
	if u, ok := known[id]; ok {
		return u.Name
	}
	return ""
}
