package posts

import (
	"context"
	"errors"

	"github.com/vyshnavipusrala/backend/apperror"
	"github.com/vyshnavipusrala/backend/auth"
)

// ListLimit caps how many posts a listing returns.
const ListLimit = 20

// PostService defines the post operations exposed over HTTP.
type PostService interface {
	Create(ctx context.Context, claims *auth.Claims, input PostInput, image *string) (*Post, error)
	List(ctx context.Context, search string) ([]Post, error)
	Get(ctx context.Context, id int64) (*Post, error)
	Update(ctx context.Context, id int64, input PostInput, newImage *string) (*Post, error)
}

type postService struct {
	store PostStore
}

// NewPostService creates a new PostService backed by the given store.
func NewPostService(store PostStore) PostService {
	return &postService{store: store}
}

// Create stores a new post. The author is stamped from the verified claims;
// nothing the client sends can set it.
func (s *postService) Create(ctx context.Context, claims *auth.Claims, input PostInput, image *string) (*Post, error) {
	post := &Post{
		Title:   input.Title,
		Summary: input.Summary,
		Content: input.Content,
		Image:   image,
		Author: AuthorRef{
			ID:       claims.UserID,
			Username: claims.Username,
		},
	}
	if err := s.store.Create(ctx, post); err != nil {
		return nil, apperror.NewDatabaseError("failed to create post", err)
	}
	return post, nil
}

// List returns the newest posts, filtered by a case-insensitive title
// substring when search is non-empty.
func (s *postService) List(ctx context.Context, search string) ([]Post, error) {
	posts, err := s.store.FindMany(ctx, search, ListLimit)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list posts", err)
	}
	return posts, nil
}

// Get returns a single post by id.
func (s *postService) Get(ctx context.Context, id int64) (*Post, error) {
	post, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, apperror.NewNotFoundError("post not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get post", err)
	}
	return post, nil
}

// Update overwrites the text fields of an existing post. The stored image is
// kept unless a new one was uploaded. Any authenticated user may update any
// post; there is no ownership restriction.
func (s *postService) Update(ctx context.Context, id int64, input PostInput, newImage *string) (*Post, error) {
	post, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, apperror.NewNotFoundError("post not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get post", err)
	}

	post.Title = input.Title
	post.Summary = input.Summary
	post.Content = input.Content
	if newImage != nil {
		post.Image = newImage
	}

	if err := s.store.Save(ctx, post); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, apperror.NewNotFoundError("post not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update post", err)
	}
	return post, nil
}
