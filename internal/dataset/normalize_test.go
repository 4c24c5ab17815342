package dataset

import (
	"strings"
	"testing"

	"github.com/nadavo/conversational-datasets/internal/models"
)

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		name  string
		rawID string
		want  string
	}{
		{name: "comment tag", rawID: "t1_abc", want: "abc"},
		{name: "link tag", rawID: "t3_abc", want: "abc"},
		{name: "already normalized", rawID: "abc", want: "abc"},
		{name: "tag only once", rawID: "t1_t1_abc", want: "t1_abc"},
		{name: "tag mid-string untouched", rawID: "abt1_c", want: "abt1_c"},
		{name: "empty", rawID: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeID(tt.rawID); got != tt.want {
				t.Errorf("NormalizeID(%q) = %q, want %q", tt.rawID, got, tt.want)
			}
		})
	}
}

func TestNormalizeIDIdempotent(t *testing.T) {
	for _, rawID := range []string{"t1_abc", "t5_xyz123", "plain"} {
		once := NormalizeID(rawID)
		twice := NormalizeID(once)
		if once != twice {
			t.Errorf("NormalizeID not idempotent for %q: %q then %q", rawID, once, twice)
		}
	}
}

func TestTrim(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		maxLength int
		want      string
	}{
		{name: "short text untouched", text: "hello world", maxLength: 127, want: "hello world"},
		{name: "exactly max length untouched", text: "hello", maxLength: 5, want: "hello"},
		{name: "cut at word boundary", text: "hello world again", maxLength: 8, want: "hello "},
		{name: "cut at boundary keeps whole words", text: "one two three", maxLength: 6, want: "one "},
		{name: "boundary right after max", text: "hello world", maxLength: 5, want: "hello"},
		{name: "single long word", text: "abcdefghij", maxLength: 5, want: ""},
		{name: "punctuation run", text: "well... so it goes", maxLength: 6, want: "well"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Trim(tt.text, tt.maxLength); got != tt.want {
				t.Errorf("Trim(%q, %d) = %q, want %q", tt.text, tt.maxLength, got, tt.want)
			}
		})
	}
}

func TestTrimNeverSplitsWords(t *testing.T) {
	// Any body longer than maxLength must come back no longer than
	// maxLength, with the cut never inside an alphanumeric run.
	texts := []string{
		"the quick brown fox jumps over the lazy dog",
		"comma, separated, words, everywhere, here",
		"unicode héllo wörld ünits repeated many times over",
		"a b c d e f g h i j k l m n o p",
	}

	for _, text := range texts {
		for maxLength := 1; maxLength < len(text); maxLength++ {
			got := Trim(text, maxLength)
			runes := []rune(got)
			if len(runes) > maxLength {
				t.Fatalf("Trim(%q, %d) = %q: length %d exceeds max", text, maxLength, got, len(runes))
			}
			if got == "" {
				continue
			}
			// The original must not continue an alphanumeric run across
			// the cut point.
			rest := []rune(text)[len(runes):]
			if len(rest) > 0 && isAlnum(runes[len(runes)-1]) && isAlnum(rest[0]) {
				t.Errorf("Trim(%q, %d) = %q: cut splits a word", text, maxLength, got)
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	raw := &models.RawComment{
		ID:        "t1_abc",
		LinkID:    "t3_link",
		ParentID:  "t1_parent",
		Body:      "hello world",
		Author:    "someone",
		Subreddit: "golang",
	}

	comment := Normalize(raw, 127)

	if comment.ID != "abc" {
		t.Errorf("Expected id 'abc', got %q", comment.ID)
	}
	if comment.ThreadID != "link" {
		t.Errorf("Expected thread_id 'link', got %q", comment.ThreadID)
	}
	if comment.ParentID != "parent" {
		t.Errorf("Expected parent_id 'parent', got %q", comment.ParentID)
	}
	if comment.Body != "hello world" {
		t.Errorf("Body should be untouched, got %q", comment.Body)
	}
	if comment.BodyIsTrimmed {
		t.Error("Short body should not be marked trimmed")
	}
	if comment.Author != "someone" || comment.Subreddit != "golang" {
		t.Error("Author and subreddit should pass through")
	}
}

func TestNormalizeTrimsLongBody(t *testing.T) {
	raw := &models.RawComment{
		ID:       "abc",
		LinkID:   "t3_link",
		ParentID: "t1_parent",
		Body:     strings.Repeat("word ", 100),
	}

	comment := Normalize(raw, 20)

	if !comment.BodyIsTrimmed {
		t.Error("Long body should be marked trimmed")
	}
	if len([]rune(comment.Body)) > 20 {
		t.Errorf("Trimmed body too long: %d runes", len([]rune(comment.Body)))
	}
}
