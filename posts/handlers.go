package posts

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vyshnavipusrala/backend/apperror"
	"github.com/vyshnavipusrala/backend/auth"
	"github.com/vyshnavipusrala/backend/storage"
)

// FileStore is the slice of the upload store the handlers need.
type FileStore interface {
	Save(src io.Reader, originalName string) (string, error)
}

// Handlers wraps the PostService and upload store to provide HTTP handlers.
type Handlers struct {
	service   PostService
	files     FileStore
	maxUpload int64
}

// NewHandlers creates a new Handlers instance. maxUpload bounds the multipart
// memory budget per request.
func NewHandlers(service PostService, files FileStore, maxUpload int64) *Handlers {
	return &Handlers{service: service, files: files, maxUpload: maxUpload}
}

// parsePostForm extracts the post fields and the optional image upload from a
// multipart form. The returned image path is nil when no file was attached.
func (h *Handlers) parsePostForm(r *http.Request) (PostInput, *string, error) {
	var input PostInput

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		return input, nil, apperror.NewBadRequestError("invalid multipart form: "+err.Error(), nil)
	}

	input.Title = r.FormValue("title")
	input.Summary = r.FormValue("summary")
	input.Content = r.FormValue("content")
	if input.Title == "" || input.Summary == "" || input.Content == "" {
		return input, nil, apperror.NewValidationError("title, summary and content are required", nil)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return input, nil, nil
		}
		return input, nil, apperror.NewBadRequestError("invalid file upload: "+err.Error(), nil)
	}
	defer file.Close()

	path, err := h.files.Save(file, header.Filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotImage) {
			return input, nil, apperror.NewValidationError("uploaded file must be an image", nil)
		}
		return input, nil, apperror.NewInternalError("failed to store upload", err)
	}
	return input, &path, nil
}

// HandleCreatePost godoc
// @Summary Create a post
// @Description Creates a new post authored by the authenticated user. Accepts
// multipart form data with an optional image under the "file" field.
// @Tags Posts
// @Accept mpfd
// @Produce json
// @Param title formData string true "Post title"
// @Param summary formData string true "Post summary"
// @Param content formData string true "Post content"
// @Param file formData file false "Optional image attachment"
// @Success 201 {object} posts.Post "Post created"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - missing fields or non-image upload"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /post [post]
func (h *Handlers) HandleCreatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.ClaimsFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("invalid token", nil))
			return
		}

		input, image, err := h.parsePostForm(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		post, err := h.service.Create(r.Context(), claims, input, image)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusCreated, post)
	}
}

// HandleListPosts godoc
// @Summary List posts
// @Description Lists the newest posts, optionally filtered by a
// case-insensitive title substring.
// @Tags Posts
// @Produce json
// @Param search query string false "Title substring filter"
// @Success 200 {array} posts.Post "Matching posts, newest first"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /post [get]
func (h *Handlers) HandleListPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		search := r.URL.Query().Get("search")
		posts, err := h.service.List(r.Context(), search)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, posts)
	}
}

// HandleGetPost godoc
// @Summary Get a post
// @Description Returns a single post with its author.
// @Tags Posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} posts.Post "The post"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - non-numeric id"
// @Failure 404 {object} apperror.ErrorResponse "Post not found"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /post/{id} [get]
func (h *Handlers) HandleGetPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid post id", nil))
			return
		}

		post, err := h.service.Get(r.Context(), id)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, post)
	}
}

// HandleUpdatePost godoc
// @Summary Update a post
// @Description Overwrites the text fields of an existing post; the stored
// image is kept unless a new one is uploaded. Any authenticated user may
// update any post.
// @Tags Posts
// @Accept mpfd
// @Produce json
// @Param id path int true "Post ID"
// @Param title formData string true "Post title"
// @Param summary formData string true "Post summary"
// @Param content formData string true "Post content"
// @Param file formData file false "Replacement image"
// @Success 200 {object} posts.Post "Updated post"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 404 {object} apperror.ErrorResponse "Post not found"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /post/{id} [put]
func (h *Handlers) HandleUpdatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid post id", nil))
			return
		}

		input, image, err := h.parsePostForm(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		post, err := h.service.Update(r.Context(), id, input, image)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, post)
	}
}
