package dataset

import (
	"reflect"
	"sort"
	"testing"
)

// chain builds a comment set where each comment replies to the previous
// one; the first comment's parent is the thread itself.
func chain(ids ...string) map[string]Comment {
	comments := make(map[string]Comment, len(ids))
	parent := "thread"
	for _, id := range ids {
		comments[id] = Comment{ID: id, ParentID: parent, Body: "body of " + id}
		parent = id
	}
	return comments
}

func collectPaths(t *testing.T, comments map[string]Comment, parentDepth int) [][]string {
	t.Helper()
	var paths [][]string
	err := LinearPaths(comments, parentDepth, func(path []string) error {
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		t.Fatalf("LinearPaths failed: %v", err)
	}
	return paths
}

func TestLinearPathsChainWithWindow(t *testing.T) {
	comments := chain("A", "B", "C", "D")

	paths := collectPaths(t, comments, 2)

	want := [][]string{
		{"A", "B"},
		{"A", "B", "C"},
		{"B", "C", "D"},
	}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("Paths = %v, want %v", paths, want)
	}
	for _, path := range paths {
		if len(path) > 3 {
			t.Errorf("Path %v exceeds parent_depth+1", path)
		}
	}
}

func TestLinearPathsEveryReplyEndsExactlyOnePath(t *testing.T) {
	// A small tree: root with two children, each child with replies.
	comments := map[string]Comment{
		"root": {ID: "root", ParentID: "thread"},
		"b":    {ID: "b", ParentID: "root"},
		"c":    {ID: "c", ParentID: "root"},
		"d":    {ID: "d", ParentID: "b"},
		"e":    {ID: "e", ParentID: "b"},
		"f":    {ID: "f", ParentID: "c"},
	}

	paths := collectPaths(t, comments, 10)

	lastCounts := make(map[string]int)
	for _, path := range paths {
		if len(path) < 2 {
			t.Errorf("Path %v shorter than 2", path)
		}
		lastCounts[path[len(path)-1]]++
	}

	var replies []string
	for id := range comments {
		if id != "root" {
			replies = append(replies, id)
		}
	}
	sort.Strings(replies)
	for _, id := range replies {
		if lastCounts[id] != 1 {
			t.Errorf("Comment %s ends %d paths, want exactly 1", id, lastCounts[id])
		}
	}
	if lastCounts["root"] != 0 {
		t.Errorf("Root should never end a path, ended %d", lastCounts["root"])
	}
}

func TestLinearPathsDegenerateThreads(t *testing.T) {
	tests := []struct {
		name     string
		comments map[string]Comment
	}{
		{name: "empty thread", comments: map[string]Comment{}},
		{
			name:     "single comment",
			comments: map[string]Comment{"only": {ID: "only", ParentID: "thread"}},
		},
		{
			name: "all roots no replies",
			comments: map[string]Comment{
				"a": {ID: "a", ParentID: "thread"},
				"b": {ID: "b", ParentID: "thread"},
				"c": {ID: "c", ParentID: "thread"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := collectPaths(t, tt.comments, 10)
			if len(paths) != 0 {
				t.Errorf("Expected zero paths, got %v", paths)
			}
		})
	}
}

func TestLinearPathsCycleTerminates(t *testing.T) {
	// Malformed input: b and c reference each other. Neither is a root
	// and the orphaned cycle is unreachable, so traversal terminates with
	// only the well-formed chain emitted.
	comments := map[string]Comment{
		"root": {ID: "root", ParentID: "thread"},
		"a":    {ID: "a", ParentID: "root"},
		"b":    {ID: "b", ParentID: "c"},
		"c":    {ID: "c", ParentID: "b"},
	}

	paths := collectPaths(t, comments, 10)

	want := [][]string{{"root", "a"}}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("Paths = %v, want %v", paths, want)
	}
}

func TestLinearPathsFanInVisitedOnce(t *testing.T) {
	// Malformed input: "shared" claims to be a child of both branches.
	// It must attach to exactly one path.
	comments := map[string]Comment{
		"root":   {ID: "root", ParentID: "thread"},
		"left":   {ID: "left", ParentID: "root"},
		"right":  {ID: "right", ParentID: "root"},
		"shared": {ID: "shared", ParentID: "left"},
	}
	// Simulate fan-in by duplicating shared under right via a second entry
	// is impossible with a map keyed by ID, so check the seen-set with a
	// self-parent instead: a comment replying to itself is never visited.
	comments["loop"] = Comment{ID: "loop", ParentID: "loop"}

	paths := collectPaths(t, comments, 10)

	count := 0
	for _, path := range paths {
		for _, id := range path {
			if id == "shared" {
				count++
			}
		}
		for _, id := range path {
			if id == "loop" {
				t.Errorf("Self-parented comment must not appear, path %v", path)
			}
		}
	}
	if count != 1 {
		t.Errorf("Shared comment appeared in %d paths, want 1", count)
	}
}

func TestLinearPathsWindowNeverExceeded(t *testing.T) {
	comments := chain("a", "b", "c", "d", "e", "f", "g", "h")

	for _, depth := range []int{1, 2, 3, 10} {
		paths := collectPaths(t, comments, depth)
		for _, path := range paths {
			if len(path) > depth+1 {
				t.Errorf("Depth %d: path %v has %d elements", depth, path, len(path))
			}
		}
		// A chain of n comments always yields n-1 paths regardless of
		// window size.
		if len(paths) != len(comments)-1 {
			t.Errorf("Depth %d: got %d paths, want %d", depth, len(paths), len(comments)-1)
		}
	}
}
