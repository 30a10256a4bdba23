package posts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrPostNotFound is returned when no post exists under the requested id.
var ErrPostNotFound = errors.New("post not found")

// PostStore abstracts post persistence so the service can be tested against
// an in-memory fake.
type PostStore interface {
	// Create inserts the post and fills in its ID and CreatedAt.
	Create(ctx context.Context, post *Post) error
	// FindByID loads a single post with its author, or ErrPostNotFound.
	FindByID(ctx context.Context, id int64) (*Post, error)
	// FindMany returns the newest posts first, optionally filtered by a
	// case-insensitive title substring match, capped at limit.
	FindMany(ctx context.Context, search string, limit int) ([]Post, error)
	// Save overwrites the stored row for the post's ID with its current
	// field values.
	Save(ctx context.Context, post *Post) error
}

// PGPostStore is the PostgreSQL implementation of PostStore.
type PGPostStore struct {
	db *pgxpool.Pool
}

// NewPGPostStore creates a new PGPostStore.
func NewPGPostStore(db *pgxpool.Pool) *PGPostStore {
	return &PGPostStore{db: db}
}

// Create inserts a new post row.
func (s *PGPostStore) Create(ctx context.Context, post *Post) error {
	query := `
		INSERT INTO posts (title, summary, content, image, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := s.db.QueryRow(ctx, query,
		post.Title, post.Summary, post.Content, post.Image, post.Author.ID,
	).Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// FindByID loads one post joined with its author's username.
func (s *PGPostStore) FindByID(ctx context.Context, id int64) (*Post, error) {
	query := `
		SELECT p.id, p.title, p.summary, p.content, p.image, p.created_at,
		       u.id, u.username
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1`
	var post Post
	err := s.db.QueryRow(ctx, query, id).Scan(
		&post.ID, &post.Title, &post.Summary, &post.Content, &post.Image,
		&post.CreatedAt, &post.Author.ID, &post.Author.Username,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to query post %d: %w", id, err)
	}
	return &post, nil
}

// FindMany lists posts newest first. An empty search matches everything.
func (s *PGPostStore) FindMany(ctx context.Context, search string, limit int) ([]Post, error) {
	query := `
		SELECT p.id, p.title, p.summary, p.content, p.image, p.created_at,
		       u.id, u.username
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.title ILIKE '%' || $1 || '%'
		ORDER BY p.created_at DESC
		LIMIT $2`
	rows, err := s.db.Query(ctx, query, search, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		var post Post
		if err := rows.Scan(
			&post.ID, &post.Title, &post.Summary, &post.Content, &post.Image,
			&post.CreatedAt, &post.Author.ID, &post.Author.Username,
		); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}
	return posts, nil
}

// Save overwrites the editable columns of an existing post.
func (s *PGPostStore) Save(ctx context.Context, post *Post) error {
	query := `
		UPDATE posts
		SET title = $1, summary = $2, content = $3, image = $4
		WHERE id = $5`
	tag, err := s.db.Exec(ctx, query,
		post.Title, post.Summary, post.Content, post.Image, post.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update post %d: %w", post.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}
