package posts

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyshnavipusrala/backend/auth"
	"github.com/vyshnavipusrala/backend/storage"
)

// fakeFileStore records saves without touching the filesystem.
type fakeFileStore struct {
	saved []string
	err   error
}

func (s *fakeFileStore) Save(src io.Reader, originalName string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if _, err := io.Copy(io.Discard, src); err != nil {
		return "", err
	}
	path := storage.PublicPrefix + "file-fake-" + originalName
	s.saved = append(s.saved, path)
	return path, nil
}

// multipartBody builds a multipart form with the given fields and an optional
// file part named "file".
func multipartBody(t *testing.T, fields map[string]string, fileName string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func newTestRouter(store PostStore, files FileStore) chi.Router {
	handlers := NewHandlers(NewPostService(store), files, 10<<20)
	r := chi.NewRouter()
	r.Get("/post", handlers.HandleListPosts())
	r.Get("/post/{id}", handlers.HandleGetPost())
	r.Post("/post", handlers.HandleCreatePost())
	r.Put("/post/{id}", handlers.HandleUpdatePost())
	return r
}

func authedRequest(req *http.Request) *http.Request {
	claims := &auth.Claims{Username: "alice", UserID: 7}
	return req.WithContext(auth.NewContextWithClaims(req.Context(), claims))
}

func TestHandleCreatePost_Success(t *testing.T) {
	t.Parallel()

	store := newFakePostStore()
	router := newTestRouter(store, &fakeFileStore{})

	body, contentType := multipartBody(t, map[string]string{
		"title":   "My post",
		"summary": "A summary",
		"content": "The content",
	}, "", nil)
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/post", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var post Post
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&post))
	assert.Equal(t, "My post", post.Title)
	assert.Equal(t, int64(7), post.Author.ID)
	assert.Equal(t, "alice", post.Author.Username)
	assert.Nil(t, post.Image)
}

func TestHandleCreatePost_AuthorComesFromClaimsNotForm(t *testing.T) {
	t.Parallel()

	store := newFakePostStore()
	router := newTestRouter(store, &fakeFileStore{})

	// A client trying to spoof authorship via form fields is ignored.
	body, contentType := multipartBody(t, map[string]string{
		"title":   "Spoofed",
		"summary": "s",
		"content": "c",
		"author":  "999",
	}, "", nil)
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/post", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var post Post
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&post))
	assert.Equal(t, int64(7), post.Author.ID)
}

func TestHandleCreatePost_Unauthenticated(t *testing.T) {
	t.Parallel()

	store := newFakePostStore()
	router := newTestRouter(store, &fakeFileStore{})

	body, contentType := multipartBody(t, map[string]string{
		"title":   "My post",
		"summary": "s",
		"content": "c",
	}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/post", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, store.createCalls, "no post is created without identity")
}

func TestHandleCreatePost_MissingFields(t *testing.T) {
	t.Parallel()

	store := newFakePostStore()
	router := newTestRouter(store, &fakeFileStore{})

	body, contentType := multipartBody(t, map[string]string{
		"title": "Only a title",
	}, "", nil)
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/post", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, store.createCalls)
}

func TestHandleCreatePost_WithUpload(t *testing.T) {
	t.Parallel()

	store := newFakePostStore()
	files := &fakeFileStore{}
	router := newTestRouter(store, files)

	body, contentType := multipartBody(t, map[string]string{
		"title":   "With image",
		"summary": "s",
		"content": "c",
	}, "cat.png", []byte("png-bytes"))
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/post", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, files.saved, 1)

	var post Post
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&post))
	require.NotNil(t, post.Image)
	assert.Equal(t, files.saved[0], *post.Image)
}

func TestHandleCreatePost_NonImageUpload(t *testing.T) {
	t.Parallel()

	store := newFakePostStore()
	files := &fakeFileStore{err: storage.ErrNotImage}
	router := newTestRouter(store, files)

	body, contentType := multipartBody(t, map[string]string{
		"title":   "With file",
		"summary": "s",
		"content": "c",
	}, "notes.txt", []byte("plain text"))
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/post", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, store.createCalls)
}

func TestHandleListPosts_PassesSearchQuery(t *testing.T) {
	t.Parallel()

	store := newFakePostStore()
	router := newTestRouter(store, &fakeFileStore{})

	req := httptest.NewRequest(http.MethodGet, "/post?search=garden", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "garden", store.lastSearch)
	assert.Equal(t, ListLimit, store.lastLimit)
	// An empty result serializes as [], not null.
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestHandleGetPost_InvalidID(t *testing.T) {
	t.Parallel()

	router := newTestRouter(newFakePostStore(), &fakeFileStore{})

	req := httptest.NewRequest(http.MethodGet, "/post/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetPost_NotFound(t *testing.T) {
	t.Parallel()

	router := newTestRouter(newFakePostStore(), &fakeFileStore{})

	req := httptest.NewRequest(http.MethodGet, "/post/999", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleUpdatePost_Success(t *testing.T) {
	t.Parallel()

	store := newFakePostStore()
	router := newTestRouter(store, &fakeFileStore{})

	created := &Post{
		Title:   "Before",
		Summary: "s",
		Content: "c",
		Author:  AuthorRef{ID: 7, Username: "alice"},
	}
	require.NoError(t, store.Create(nil, created))

	body, contentType := multipartBody(t, map[string]string{
		"title":   "After",
		"summary": "new summary",
		"content": "new content",
	}, "", nil)
	req := authedRequest(httptest.NewRequest(http.MethodPut, "/post/1", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var post Post
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&post))
	assert.Equal(t, "After", post.Title)
	assert.Equal(t, created.Author, post.Author)
}

func TestHandleUpdatePost_NotFound(t *testing.T) {
	t.Parallel()

	router := newTestRouter(newFakePostStore(), &fakeFileStore{})

	body, contentType := multipartBody(t, map[string]string{
		"title":   "t",
		"summary": "s",
		"content": "c",
	}, "", nil)
	req := authedRequest(httptest.NewRequest(http.MethodPut, "/post/999", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
