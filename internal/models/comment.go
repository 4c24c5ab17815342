package models

import (
	"time"
)

// RawComment represents a comment record as stored in the comments table
// and as received in NDJSON ingests. IDs carry their original type tags
// (t1_, t3_, ...); normalization happens at dataset-build time.
type RawComment struct {
	ID        string    `json:"id" db:"id"`
	LinkID    string    `json:"link_id" db:"link_id"`
	ParentID  string    `json:"parent_id" db:"parent_id"`
	Body      string    `json:"body" db:"body"`
	Author    string    `json:"author" db:"author"`
	Subreddit string    `json:"subreddit" db:"subreddit"`
	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
}

// CommentNDJSON represents a comment record from an NDJSON ingest file
type CommentNDJSON struct {
	ID        string `json:"id"`
	LinkID    string `json:"link_id"`
	ParentID  string `json:"parent_id"`
	Body      string `json:"body"`
	Author    string `json:"author"`
	Subreddit string `json:"subreddit"`
}
