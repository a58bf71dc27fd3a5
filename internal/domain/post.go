package domain

import "time"

// Post is a piece of content owned by a single user.
type Post struct {
	ID        int64
	Title     string
	Content   string
	Published bool
	OwnerID   int64
	CreatedAt time.Time
	Owner     UserSummary
}

// PostWithVotes pairs a post with the number of votes cast on it.
type PostWithVotes struct {
	Post  Post
	Votes int64
}

// PostInput carries the mutable fields of a post. Update overwrites all of them.
type PostInput struct {
	Title     string
	Content   string
	Published bool
}

// PostFilter narrows a post listing.
type PostFilter struct {
	// Search is matched as a case-sensitive substring of the title.
	Search string
	Limit  int
	Offset int
}
