package entity

import "time"

// Post is a blog entry owned by the user that created it.
// AuthorID never changes after creation; UpdatedAt stays nil until the first edit.
type Post struct {
	ID          int64
	Title       string
	Content     string
	AuthorID    string
	AuthorName  string
	CoverURL    string
	PublishedAt time.Time
	UpdatedAt   *time.Time
}

// OwnedBy reports whether userID is the author of the post.
func (p *Post) OwnedBy(userID string) bool {
	return userID != "" && p.AuthorID == userID
}
