package category

import "sort"

// Node is a category together with its resolved subcategories.
type Node struct {
	Category
	Subcategories []*Node `json:"subcategories"`
}

// BuildForest turns a flat, parent-referencing category collection into a
// nested forest rooted at the categories with no parent.
//
// The input is grouped once into a parentID -> children index, then walked
// top-down from the roots, so the whole build is O(n). Categories with a
// dangling ParentID are unreachable from any root and silently disappear
// from the result; so do members of parent cycles, since no walk from a
// root can enter a cycle. A visited set guards against duplicated IDs in
// the input ever expanding the same subtree twice.
//
// Siblings are ordered by name for stable navigation output.
func BuildForest(categories []Category) []*Node {
	children := make(map[string][]Category)
	const rootKey = ""
	for _, c := range categories {
		key := rootKey
		if c.ParentID != nil {
			key = *c.ParentID
		}
		children[key] = append(children[key], c)
	}

	visited := make(map[string]bool, len(categories))

	var build func(parentKey string) []*Node
	build = func(parentKey string) []*Node {
		group := children[parentKey]
		if len(group) == 0 {
			return []*Node{}
		}
		nodes := make([]*Node, 0, len(group))
		for _, c := range group {
			if visited[c.ID] {
				continue
			}
			visited[c.ID] = true
			nodes = append(nodes, &Node{
				Category:      c,
				Subcategories: build(c.ID),
			})
		}
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
		return nodes
	}

	return build(rootKey)
}

// CountNodes returns the number of categories present in the forest.
func CountNodes(forest []*Node) int {
	n := 0
	for _, node := range forest {
		n += 1 + CountNodes(node.Subcategories)
	}
	return n
}
