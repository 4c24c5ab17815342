package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Example is one (context, response) training pair derived from the final
// two comments of a linear path, plus up to parentDepth-1 earlier turns
// carried as extra context, nearest turn first.
type Example struct {
	Subreddit      string
	ThreadID       string
	ContextAuthor  string
	ResponseAuthor string
	Context        string
	Response       string
	ExtraContexts  []string
}

// Field is one named value of a serialized Example.
type Field struct {
	Name  string
	Value []byte
}

// Fields returns the example's fields in their canonical order, each
// value as UTF-8 bytes. Extra context fields are named context/0,
// context/1, ... with context/0 the turn nearest the context comment.
func (e *Example) Fields() []Field {
	fields := []Field{
		{Name: "subreddit", Value: []byte(e.Subreddit)},
		{Name: "thread_id", Value: []byte(e.ThreadID)},
		{Name: "context_author", Value: []byte(e.ContextAuthor)},
		{Name: "response_author", Value: []byte(e.ResponseAuthor)},
		{Name: "context", Value: []byte(e.Context)},
		{Name: "response", Value: []byte(e.Response)},
	}
	for i, body := range e.ExtraContexts {
		fields = append(fields, Field{
			Name:  fmt.Sprintf("context/%d", i),
			Value: []byte(body),
		})
	}
	return fields
}

// MarshalJSON serializes the example as a JSON object with fields in
// canonical order. A plain map would lose the context/i ordering.
func (e *Example) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range e.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(field.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(string(field.Value))
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Generator projects a thread's linear paths into training examples.
type Generator struct {
	// ParentDepth bounds the ancestor window: each example carries at
	// most ParentDepth-1 extra context turns.
	ParentDepth int

	// MinLength is the minimum body length (in characters) for a comment
	// to qualify as context or response.
	MinLength int
}

// FromThread generates every example for one thread's comment set and
// streams them to the yield callback. Paths whose final pair fails the
// quality filter are dropped silently; that is exclusion, not an error.
func (g *Generator) FromThread(comments map[string]Comment, yield func(*Example) error) error {
	return LinearPaths(comments, g.ParentDepth, func(path []string) error {
		response := comments[path[len(path)-1]]
		context := comments[path[len(path)-2]] // length >= 2 is guaranteed

		if g.shouldSkip(response) || g.shouldSkip(context) {
			return nil
		}

		example := &Example{
			Subreddit:      response.Subreddit,
			ThreadID:       response.ThreadID,
			ContextAuthor:  context.Author,
			ResponseAuthor: response.Author,
			Context:        context.Body,
			Response:       response.Body,
		}

		// Earlier turns become context/0, context/1, ... starting at
		// reverse index -3. Ancestors are carried verbatim, unfiltered.
		for i := 0; i < g.ParentDepth-1; i++ {
			index := len(path) - 3 - i
			if index < 0 {
				break
			}
			example.ExtraContexts = append(example.ExtraContexts, comments[path[index]].Body)
		}

		return yield(example)
	})
}

// shouldSkip reports whether a comment is unusable as context or
// response: trimmed bodies, deletion placeholders, and bodies shorter
// than MinLength are all excluded.
func (g *Generator) shouldSkip(comment Comment) bool {
	if comment.BodyIsTrimmed {
		return true
	}
	if comment.Body == "[deleted]" || comment.Body == "[removed]" {
		return true
	}
	if len([]rune(comment.Body)) < g.MinLength {
		return true
	}
	return false
}
