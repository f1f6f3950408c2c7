package tree

// Build restores the rooted tree and its index from a flat list of records.
//
// The tree parent of a node is its first declared parent present in nodes.
// Child order follows input order. When there is more than one natural root,
// or when some records cannot be attached, every top-level node is placed
// under a synthetic root with id UnknownRootID. Inconsistent input is
// repaired rather than rejected: the returned tree and map are always usable,
// and a non-nil *BuildError describes what was fixed.
//
// Build returns a nil tree and an empty map for empty input.
func Build(nodes []Node) (*Tree, Map, error) {
	problems := &BuildError{}

	// Deduplicate, first occurrence wins
	order := make([]string, 0, len(nodes))
	byID := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		if n.ID == "" {
			problems.Invalid++
			continue
		}
		if _, seen := byID[n.ID]; seen {
			problems.Duplicates = append(problems.Duplicates, n.ID)
			continue
		}
		byID[n.ID] = n
		order = append(order, n.ID)
	}

	// At most one head
	headSeen := false
	for _, id := range order {
		n := byID[id]
		if !n.IsHead {
			continue
		}
		if headSeen {
			n.IsHead = false
			byID[id] = n
			problems.ExtraHeads = append(problems.ExtraHeads, id)
			continue
		}
		headSeen = true
	}

	// Resolve tree parents
	parent := make(map[string]string, len(order))
	detached := make(map[string]bool)
	for _, id := range order {
		n := byID[id]
		for _, p := range n.Parents {
			if p == id {
				continue
			}
			if _, ok := byID[p]; ok {
				parent[id] = p
				break
			}
		}
		if _, ok := parent[id]; !ok && len(n.Parents) > 0 {
			problems.Orphans = append(problems.Orphans, id)
			detached[id] = true
		}
	}

	// Break parent cycles
	const (
		unvisited = iota
		visiting
		visited
	)
	state := make(map[string]int, len(order))
	for _, id := range order {
		var path []string
		cur := id
		for cur != "" && state[cur] == unvisited {
			state[cur] = visiting
			path = append(path, cur)
			cur = parent[cur]
		}
		if cur != "" && state[cur] == visiting {
			start := 0
			for i, p := range path {
				if p == cur {
					start = i
					break
				}
			}
			for _, member := range path[start:] {
				problems.Cycles = append(problems.Cycles, member)
				delete(parent, member)
				detached[member] = true
				byID[member] = dropPresentParents(byID[member], byID)
			}
		}
		for _, p := range path {
			state[p] = visited
		}
	}

	// Materialize
	m := make(Map, len(order)+1)
	for _, id := range order {
		m[id] = &Tree{Info: byID[id]}
	}
	var tops []*Tree
	for _, id := range order {
		if p, ok := parent[id]; ok {
			m[p].Children = append(m[p].Children, m[id])
			continue
		}
		tops = append(tops, m[id])
	}

	var err error
	if !problems.empty() {
		err = problems
	}

	switch {
	case len(tops) == 0:
		return nil, m, err
	case len(tops) == 1 && len(detached) == 0:
		return tops[0], m, err
	}

	root := &Tree{
		Info: Node{
			ID:          UnknownRootID,
			Title:       "(unknown ancestors)",
			PartOfTrunk: true,
		},
		Children: tops,
	}
	m[UnknownRootID] = root
	return root, m, err
}

// dropPresentParents removes the parent edges that formed a cycle while
// keeping references to commits outside the snapshot.
func dropPresentParents(n Node, byID map[string]Node) Node {
	var kept []string
	for _, p := range n.Parents {
		if _, ok := byID[p]; !ok {
			kept = append(kept, p)
		}
	}
	n.Parents = kept
	return n
}
