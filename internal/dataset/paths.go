package dataset

// LinearPaths enumerates every linear reply chain in one thread's comment
// set and streams each to the yield callback as it is discovered. A path
// is a slice of comment IDs where every element after the first is a
// direct reply to its predecessor. Emitted paths always have at least two
// elements and at most parentDepth+1: as a path grows, the oldest
// ancestors slide out of the window.
//
// Traversal starts from roots (comments whose parent is not in the set,
// i.e. the parent is the thread itself) and visits every comment exactly
// once. A global seen set permanently excludes a comment once visited, so
// malformed input with fan-in or apparent cycles cannot cause a revisit
// or non-termination; such a comment attaches to whichever parent reaches
// it first.
func LinearPaths(comments map[string]Comment, parentDepth int, yield func(path []string) error) error {
	var paths [][]string
	seen := make(map[string]bool, len(comments))
	children := make(map[string][]string, len(comments))

	for id, comment := range comments {
		children[comment.ParentID] = append(children[comment.ParentID], id)
		if _, ok := comments[comment.ParentID]; !ok {
			paths = append(paths, []string{id})
			seen[id] = true
		}
	}

	for len(paths) > 0 {
		var next [][]string
		for _, path := range paths {
			lastID := path[len(path)-1]
			for _, childID := range children[lastID] {
				if seen[childID] {
					continue
				}
				seen[childID] = true

				// Keep at most the trailing parentDepth elements, then
				// append the child.
				window := path
				if len(window) > parentDepth {
					window = window[len(window)-parentDepth:]
				}
				newPath := make([]string, 0, len(window)+1)
				newPath = append(newPath, window...)
				newPath = append(newPath, childID)

				if err := yield(newPath); err != nil {
					return err
				}
				next = append(next, newPath)
			}
		}
		paths = next
	}

	return nil
}
