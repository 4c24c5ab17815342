package validation

import (
	"regexp"

	"github.com/nadavo/conversational-datasets/internal/models"
)

// Reddit fullname IDs: an optional t<digit>_ type tag followed by a
// base36 identifier.
var idRegex = regexp.MustCompile(`^(t[0-9]_)?[a-z0-9]+$`)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Validator provides validation methods for ingested comment records.
// It tracks comment IDs seen within one upload to reject duplicates.
type Validator struct {
	commentIDCache map[string]bool
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		commentIDCache: make(map[string]bool),
	}
}

// AddCommentID adds a comment ID to the uniqueness cache
func (v *Validator) AddCommentID(id string) {
	v.commentIDCache[id] = true
}

// ValidateComment validates a raw comment record from an NDJSON ingest.
// Body content is not judged here: deletion placeholders, short bodies
// and the like are data-quality concerns for the dataset build, not
// schema errors.
func (v *Validator) ValidateComment(comment *models.CommentNDJSON, lineNum int) []ValidationError {
	var errors []ValidationError

	if comment.ID == "" {
		errors = append(errors, ValidationError{Field: "id", Message: "id is required"})
	} else if !idRegex.MatchString(comment.ID) {
		errors = append(errors, ValidationError{Field: "id", Message: "invalid comment ID format", Value: comment.ID})
	} else if v.commentIDCache[comment.ID] {
		errors = append(errors, ValidationError{Field: "id", Message: "duplicate comment ID", Value: comment.ID})
	}

	if comment.LinkID == "" {
		errors = append(errors, ValidationError{Field: "link_id", Message: "link_id is required"})
	} else if !idRegex.MatchString(comment.LinkID) {
		errors = append(errors, ValidationError{Field: "link_id", Message: "invalid link ID format", Value: comment.LinkID})
	}

	if comment.ParentID == "" {
		errors = append(errors, ValidationError{Field: "parent_id", Message: "parent_id is required"})
	} else if !idRegex.MatchString(comment.ParentID) {
		errors = append(errors, ValidationError{Field: "parent_id", Message: "invalid parent ID format", Value: comment.ParentID})
	}

	if comment.Body == "" {
		errors = append(errors, ValidationError{Field: "body", Message: "body is required"})
	}

	if comment.Author == "" {
		errors = append(errors, ValidationError{Field: "author", Message: "author is required"})
	}

	if comment.Subreddit == "" {
		errors = append(errors, ValidationError{Field: "subreddit", Message: "subreddit is required"})
	}

	return errors
}
