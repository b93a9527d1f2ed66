// Package pathutil rebuilds paths from predecessor links.
package pathutil

// Reconstruct walks predecessor links back from end until it reaches start and
// returns the nodes in start-to-end order. It returns nil when the chain breaks
// before start, which means end was never reached from start.
func Reconstruct[NodeType comparable](
	predecessor map[NodeType]NodeType,
	start NodeType,
	end NodeType,
) []NodeType {
	path := []NodeType{end}
	for current := end; current != start; {
		previous, ok := predecessor[current]
		if !ok {
			return nil
		}
		path = append(path, previous)
		current = previous
		if len(path) > len(predecessor)+1 {
			// cycle in the links
			return nil
		}
	}
	Reverse(path)
	return path
}

// Reverse reverses s in place.
func Reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
