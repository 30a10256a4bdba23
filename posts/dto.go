package posts

// PostInput carries the caller-supplied fields for creating or updating a
// post. The author is never taken from the input; it comes from the verified
// session claims.
type PostInput struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content"`
}
