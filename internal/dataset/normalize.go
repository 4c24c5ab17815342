package dataset

import (
	"regexp"
	"unicode"

	"github.com/nadavo/conversational-datasets/internal/models"
)

// Reddit IDs start with a two-character type tag (t1_, t3_, ...) which
// carries no meaning downstream and is stripped.
var idTagRegex = regexp.MustCompile(`^t[0-9]_`)

// Comment is the canonical, normalized form of a raw comment record.
// All downstream processing (path building, example generation) works
// on Comment values only.
type Comment struct {
	ID            string
	ThreadID      string
	ParentID      string
	Body          string
	BodyIsTrimmed bool
	Author        string
	Subreddit     string
}

// Normalize converts a raw comment record into a Comment. The link_id
// becomes the thread ID, all IDs (the comment's own included) lose
// their type tags, and the body is trimmed to at most maxLength
// characters without splitting a word. Stripping the comment's own tag
// matters: replies name their parent as t1_<id>, so parent lookups only
// resolve when both sides carry the bare ID.
func Normalize(raw *models.RawComment, maxLength int) Comment {
	return Comment{
		ID:            NormalizeID(raw.ID),
		ThreadID:      NormalizeID(raw.LinkID),
		ParentID:      NormalizeID(raw.ParentID),
		Body:          Trim(raw.Body, maxLength),
		BodyIsTrimmed: len([]rune(raw.Body)) > maxLength,
		Author:        raw.Author,
		Subreddit:     raw.Subreddit,
	}
}

// NormalizeID strips the leading type tag from a reddit ID. It is
// idempotent: an already-normalized ID passes through unchanged.
func NormalizeID(rawID string) string {
	return idTagRegex.ReplaceAllString(rawID, "")
}

// Trim shortens text to at most maxLength characters without splitting
// apart words. Lengths are measured in runes, not bytes.
func Trim(text string, maxLength int) string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}

	runes = runes[:maxLength+1]

	// Retreat until the last two characters straddle the boundary between
	// an alphanumeric character and a non-alphanumeric one, then drop one
	// more. The cut then always falls exactly at a word boundary.
	for len(runes) >= 2 && isAlnum(runes[len(runes)-1]) == isAlnum(runes[len(runes)-2]) {
		runes = runes[:len(runes)-1]
	}

	if len(runes) == 0 {
		return ""
	}
	return string(runes[:len(runes)-1])
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}
