package domain

// VoteDirection selects between casting and withdrawing a vote.
type VoteDirection int

const (
	VoteDown VoteDirection = 0
	VoteUp   VoteDirection = 1
)

// Valid reports whether d is one of the known directions.
func (d VoteDirection) Valid() bool {
	return d == VoteDown || d == VoteUp
}

// Vote records that a user upvoted a post. A missing row means no vote.
type Vote struct {
	PostID int64
	UserID int64
}
