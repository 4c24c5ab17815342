package dataset

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/nadavo/conversational-datasets/internal/models"
)

func collectExamples(t *testing.T, g *Generator, comments map[string]Comment) []*Example {
	t.Helper()
	var examples []*Example
	err := g.FromThread(comments, func(example *Example) error {
		examples = append(examples, example)
		return nil
	})
	if err != nil {
		t.Fatalf("FromThread failed: %v", err)
	}
	return examples
}

func TestGeneratorBasicPair(t *testing.T) {
	g := &Generator{ParentDepth: 10, MinLength: 9}
	comments := map[string]Comment{
		"1": {ID: "1", ThreadID: "abc", ParentID: "abc", Body: "what is the question", Author: "asker", Subreddit: "golang"},
		"2": {ID: "2", ThreadID: "abc", ParentID: "1", Body: "here is the answer", Author: "answerer", Subreddit: "golang"},
	}

	examples := collectExamples(t, g, comments)

	if len(examples) != 1 {
		t.Fatalf("Expected 1 example, got %d", len(examples))
	}
	e := examples[0]
	if e.Context != "what is the question" || e.Response != "here is the answer" {
		t.Errorf("Wrong pair: context=%q response=%q", e.Context, e.Response)
	}
	if e.ContextAuthor != "asker" || e.ResponseAuthor != "answerer" {
		t.Errorf("Wrong authors: %q / %q", e.ContextAuthor, e.ResponseAuthor)
	}
	if e.Subreddit != "golang" || e.ThreadID != "abc" {
		t.Errorf("Wrong passthrough fields: %q / %q", e.Subreddit, e.ThreadID)
	}
	if len(e.ExtraContexts) != 0 {
		t.Errorf("Two-comment path should carry no extra contexts, got %v", e.ExtraContexts)
	}
}

func TestGeneratorSkipsUnusableComments(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "deleted placeholder", body: "[deleted]"},
		{name: "removed placeholder", body: "[removed]"},
		{name: "too short", body: "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Generator{ParentDepth: 10, MinLength: 9}

			// As response.
			comments := map[string]Comment{
				"1": {ID: "1", ThreadID: "abc", ParentID: "abc", Body: "a perfectly fine body"},
				"2": {ID: "2", ThreadID: "abc", ParentID: "1", Body: tt.body},
			}
			if got := collectExamples(t, g, comments); len(got) != 0 {
				t.Errorf("Body %q as response should be skipped, got %d examples", tt.body, len(got))
			}

			// As context.
			comments = map[string]Comment{
				"1": {ID: "1", ThreadID: "abc", ParentID: "abc", Body: tt.body},
				"2": {ID: "2", ThreadID: "abc", ParentID: "1", Body: "a perfectly fine body"},
			}
			if got := collectExamples(t, g, comments); len(got) != 0 {
				t.Errorf("Body %q as context should be skipped, got %d examples", tt.body, len(got))
			}
		})
	}
}

func TestGeneratorSkipsTrimmedBodies(t *testing.T) {
	g := &Generator{ParentDepth: 10, MinLength: 9}
	comments := map[string]Comment{
		"1": {ID: "1", ThreadID: "abc", ParentID: "abc", Body: "a perfectly fine body"},
		"2": {ID: "2", ThreadID: "abc", ParentID: "1", Body: "this one was cut", BodyIsTrimmed: true},
	}

	if got := collectExamples(t, g, comments); len(got) != 0 {
		t.Errorf("Trimmed comment should be skipped, got %d examples", len(got))
	}
}

func TestGeneratorDeletedAlwaysExcluded(t *testing.T) {
	// The placeholder is excluded even when it passes every other filter.
	g := &Generator{ParentDepth: 10, MinLength: 1}
	comments := map[string]Comment{
		"1": {ID: "1", ThreadID: "abc", ParentID: "abc", Body: "[deleted]"},
		"2": {ID: "2", ThreadID: "abc", ParentID: "1", Body: "real body here"},
	}

	if got := collectExamples(t, g, comments); len(got) != 0 {
		t.Errorf("[deleted] must never appear as context, got %d examples", len(got))
	}
}

func TestGeneratorExtraContexts(t *testing.T) {
	// Chain a -> b -> c -> d; the deepest path yields context/0 = b's
	// body, context/1 = a's body (nearest first).
	g := &Generator{ParentDepth: 10, MinLength: 1}
	comments := map[string]Comment{
		"a": {ID: "a", ThreadID: "abc", ParentID: "thread", Body: "body of a"},
		"b": {ID: "b", ThreadID: "abc", ParentID: "a", Body: "body of b"},
		"c": {ID: "c", ThreadID: "abc", ParentID: "b", Body: "body of c"},
		"d": {ID: "d", ThreadID: "abc", ParentID: "c", Body: "body of d"},
	}

	examples := collectExamples(t, g, comments)
	if len(examples) != 3 {
		t.Fatalf("Expected 3 examples, got %d", len(examples))
	}

	var deepest *Example
	for _, e := range examples {
		if e.Response == "body of d" {
			deepest = e
		}
	}
	if deepest == nil {
		t.Fatal("No example with response from d")
	}
	if deepest.Context != "body of c" {
		t.Errorf("Context = %q, want body of c", deepest.Context)
	}
	want := []string{"body of b", "body of a"}
	if len(deepest.ExtraContexts) != len(want) {
		t.Fatalf("ExtraContexts = %v, want %v", deepest.ExtraContexts, want)
	}
	for i := range want {
		if deepest.ExtraContexts[i] != want[i] {
			t.Errorf("ExtraContexts[%d] = %q, want %q", i, deepest.ExtraContexts[i], want[i])
		}
	}
}

func TestGeneratorExtraContextsUnfiltered(t *testing.T) {
	// Ancestors beyond the final pair are carried verbatim, even when
	// they would fail the quality filter themselves.
	g := &Generator{ParentDepth: 10, MinLength: 9}
	comments := map[string]Comment{
		"a": {ID: "a", ThreadID: "abc", ParentID: "thread", Body: "[deleted]"},
		"b": {ID: "b", ThreadID: "abc", ParentID: "a", Body: "a perfectly fine body"},
		"c": {ID: "c", ThreadID: "abc", ParentID: "b", Body: "another fine long body"},
	}

	examples := collectExamples(t, g, comments)

	found := false
	for _, e := range examples {
		if e.Response == "another fine long body" {
			found = true
			if len(e.ExtraContexts) != 1 || e.ExtraContexts[0] != "[deleted]" {
				t.Errorf("ExtraContexts = %v, want the ancestor body verbatim", e.ExtraContexts)
			}
		}
	}
	if !found {
		t.Fatal("Expected an example for the deepest pair")
	}
}

func TestGeneratorEndToEndThread(t *testing.T) {
	// Raw records through Normalize and the generator, as the build
	// pipeline assembles them.
	raws := []*models.RawComment{
		{ID: "1", LinkID: "t3_abc", ParentID: "t3_abc", Body: "hello world", Author: "op", Subreddit: "golang"},
		{ID: "2", LinkID: "t3_abc", ParentID: "t1_1", Body: "hello yourself", Author: "x", Subreddit: "golang"},
	}

	comments := make(map[string]Comment, len(raws))
	for _, raw := range raws {
		c := Normalize(raw, 127)
		comments[c.ID] = c
	}

	g := &Generator{ParentDepth: 10, MinLength: 5}
	examples := collectExamples(t, g, comments)

	if len(examples) != 1 {
		t.Fatalf("Expected exactly 1 example, got %d", len(examples))
	}
	e := examples[0]
	if e.ThreadID != "abc" {
		t.Errorf("ThreadID = %q, want abc (t3_ stripped)", e.ThreadID)
	}
	if e.Context != "hello world" || e.Response != "hello yourself" {
		t.Errorf("Wrong pair: %q -> %q", e.Context, e.Response)
	}
}

func TestGeneratorTaggedCommentIDsPair(t *testing.T) {
	// Ingested records carry fully tagged IDs: each reply names its
	// parent as t1_<id>. Pairing must survive the tags on both sides.
	raws := []*models.RawComment{
		{ID: "t1_a0", LinkID: "t3_abc", ParentID: "t3_abc", Body: "the first comment here", Author: "op", Subreddit: "golang"},
		{ID: "t1_a1", LinkID: "t3_abc", ParentID: "t1_a0", Body: "a reply to the first", Author: "x", Subreddit: "golang"},
	}

	comments := make(map[string]Comment, len(raws))
	for _, raw := range raws {
		c := Normalize(raw, 127)
		comments[c.ID] = c
	}

	g := &Generator{ParentDepth: 10, MinLength: 5}
	examples := collectExamples(t, g, comments)

	if len(examples) != 1 {
		t.Fatalf("Expected exactly 1 example from tagged-ID thread, got %d", len(examples))
	}
	e := examples[0]
	if e.Context != "the first comment here" || e.Response != "a reply to the first" {
		t.Errorf("Wrong pair: %q -> %q", e.Context, e.Response)
	}
}

func TestGeneratorShortRootYieldsNothing(t *testing.T) {
	raws := []*models.RawComment{
		{ID: "1", LinkID: "t3_abc", ParentID: "t3_abc", Body: "hi", Author: "op", Subreddit: "golang"},
		{ID: "2", LinkID: "t3_abc", ParentID: "t1_1", Body: "hello world", Author: "x", Subreddit: "golang"},
	}

	comments := make(map[string]Comment, len(raws))
	for _, raw := range raws {
		c := Normalize(raw, 127)
		comments[c.ID] = c
	}

	g := &Generator{ParentDepth: 10, MinLength: 5}
	if examples := collectExamples(t, g, comments); len(examples) != 0 {
		t.Errorf("Root body below min_length must yield zero examples, got %d", len(examples))
	}
}

func TestExampleFieldsOrder(t *testing.T) {
	e := &Example{
		Subreddit:      "golang",
		ThreadID:       "abc",
		ContextAuthor:  "a",
		ResponseAuthor: "b",
		Context:        "ctx",
		Response:       "resp",
		ExtraContexts:  []string{"older", "oldest"},
	}

	fields := e.Fields()
	wantNames := []string{
		"subreddit", "thread_id", "context_author", "response_author",
		"context", "response", "context/0", "context/1",
	}
	if len(fields) != len(wantNames) {
		t.Fatalf("Got %d fields, want %d", len(fields), len(wantNames))
	}
	for i, name := range wantNames {
		if fields[i].Name != name {
			t.Errorf("Field %d = %q, want %q", i, fields[i].Name, name)
		}
	}
	if string(fields[6].Value) != "older" || string(fields[7].Value) != "oldest" {
		t.Error("Extra context values out of order")
	}
}

func TestExampleMarshalJSON(t *testing.T) {
	e := &Example{
		Subreddit:      "golang",
		ThreadID:       "abc",
		ContextAuthor:  "a",
		ResponseAuthor: "b",
		Context:        "ctx",
		Response:       "resp",
		ExtraContexts:  []string{"older"},
	}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	// Field order must survive serialization.
	s := string(data)
	if !strings.HasPrefix(s, `{"subreddit":"golang","thread_id":"abc"`) {
		t.Errorf("Unexpected field order: %s", s)
	}
	if !strings.Contains(s, `"context/0":"older"`) {
		t.Errorf("Missing extra context field: %s", s)
	}

	var decoded map[string]string
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded["response"] != "resp" {
		t.Errorf("Round-trip lost response: %v", decoded)
	}
}
