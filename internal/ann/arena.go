package ann

// treeIndex is an offset into a tree's flat node table.
type treeIndex int

// nodeKind tags which variant a treeNode holds. Go has no sum type, so the
// node carries both payload fields and a discriminant rather than paying for
// an interface and a heap allocation per node.
type nodeKind uint8

const (
	nodeLeaf nodeKind = iota
	nodeSplit
)

// treeNode is one entry in a tree's arena. Leaves hold the node ids that
// landed in that bucket; splits hold a hyperplane and the indices of the two
// child subtrees. Children are always built before their parent, so a
// split's above/below indices are always smaller than the split's own index
// and the root is always the last entry in the table.
type treeNode struct {
	kind nodeKind

	// valid when kind == nodeLeaf
	indices []NodeID

	// valid when kind == nodeSplit
	hp    hyperplane
	above treeIndex
	below treeIndex
}

// tree is the arena-allocated, post-order table backing a single random
// projection tree. The root is tree[len(tree)-1].
type tree []treeNode

func (t tree) rootIndex() treeIndex {
	return treeIndex(len(t) - 1)
}

// depth returns the maximum root-to-leaf node count of the subtree rooted at
// node, counting a lone leaf as depth 1.
func (t tree) depth(node treeIndex) int {
	n := t[node]
	if n.kind == nodeLeaf {
		return 1
	}
	above := t.depth(n.above)
	below := t.depth(n.below)
	if above > below {
		return above + 1
	}
	return below + 1
}

// leafIndex walks emb down from the root and returns the table index of the
// leaf it settles in.
func (t tree) leafIndex(emb []float32) treeIndex {
	node := t.rootIndex()
	for {
		n := t[node]
		if n.kind == nodeLeaf {
			return node
		}
		if n.hp.pointIsAbove(emb) {
			node = n.above
		} else {
			node = n.below
		}
	}
}

// leafPath walks emb down from the root and returns every internal node
// index visited, in root-to-leaf order, excluding the leaf itself.
func (t tree) leafPath(emb []float32) []treeIndex {
	var path []treeIndex
	node := t.rootIndex()
	for {
		n := t[node]
		if n.kind == nodeLeaf {
			return path
		}
		path = append(path, node)
		if n.hp.pointIsAbove(emb) {
			node = n.above
		} else {
			node = n.below
		}
	}
}
