package grid

// ShortestPath is a breadth-first search over any graph with comparable nodes.
// neighbors calls visit once per successor of a node. The returned path
// excludes start and ends with goal.
func ShortestPath[N comparable](start, goal N, neighbors func(N, func(N))) ([]N, bool) {
	if start == goal {
		return nil, true
	}
	parent := map[N]N{start: start}
	queue := []N{start}
	found := false
	for len(queue) > 0 && !found {
		cur := queue[0]
		queue = queue[1:]
		neighbors(cur, func(n N) {
			if found {
				return
			}
			if _, seen := parent[n]; seen {
				return
			}
			parent[n] = cur
			if n == goal {
				found = true
				return
			}
			queue = append(queue, n)
		})
	}
	if !found {
		return nil, false
	}

	var rev []N
	for n := goal; n != start; n = parent[n] {
		rev = append(rev, n)
	}
	path := make([]N, len(rev))
	for i := range rev {
		path[i] = rev[len(rev)-1-i]
	}
	return path, true
}
