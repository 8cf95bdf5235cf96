// Package comments defines the profile-comment pipeline and the types shared
// across its stages.
package comments

// Record is one extracted profile comment as served to clients.
type Record struct {
	AuthorURL     string `json:"authorUrl"`
	AuthorComment string `json:"authorComment"`
	PersonaName   string `json:"personaName"`
	AvatarSrc     string `json:"avatarSrc"`
}

// FeedDocument is the raw payload returned by the comment render endpoint.
type FeedDocument struct {
	TotalCount   int    `json:"total_count"`
	CommentsHTML string `json:"comments_html"`
}

// Empty reports whether the feed carries no comments. The markup is ignored
// when the count is zero.
func (d FeedDocument) Empty() bool {
	return d.TotalCount == 0
}
