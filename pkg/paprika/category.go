package paprika

import (
	"cmp"
	"slices"
)

// CategoryNode is a category with its children, as built by BuildCategoryTree.
type CategoryNode struct {
	Category `yaml:",inline"`
	Children []*CategoryNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// BuildCategoryTree arranges categories by their parent references.
// Categories without a parent, or whose parent is not in the list, become
// roots. Siblings are ordered by OrderFlag, then Name. Categories whose
// ancestry loops back on itself are not reachable from a root and are left
// out.
func BuildCategoryTree(categories []Category) []*CategoryNode {
	nodes := make(map[string]*CategoryNode, len(categories))
	for _, c := range categories {
		nodes[c.UID] = &CategoryNode{Category: c}
	}

	var roots []*CategoryNode
	for _, c := range categories {
		n := nodes[c.UID]
		var parent *CategoryNode
		if c.ParentUID != nil {
			parent = nodes[*c.ParentUID]
		}
		if parent == nil {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}

	sortNodes(roots)
	return roots
}

func sortNodes(nodes []*CategoryNode) {
	slices.SortFunc(nodes, func(a, b *CategoryNode) int {
		return cmp.Or(cmp.Compare(a.OrderFlag, b.OrderFlag), cmp.Compare(a.Name, b.Name))
	})
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}

// Walk calls fn for n and every descendant, depth first, with the depth of
// each node below n.
func (n *CategoryNode) Walk(fn func(node *CategoryNode, depth int)) {
	n.walk(fn, 0)
}

func (n *CategoryNode) walk(fn func(*CategoryNode, int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}
