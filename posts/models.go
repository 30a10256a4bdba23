// Package posts implements blog post management: creation, listing, reads and
// updates, with optional image attachments.
package posts

import "time"

// AuthorRef is the slice of the author's identity embedded in post responses.
type AuthorRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Post represents a blog post as stored and served.
type Post struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content"`
	// Image is the public path of the attached image, nil when the post has
	// none.
	Image     *string   `json:"image"`
	Author    AuthorRef `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}
