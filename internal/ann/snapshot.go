package ann

// NodeSnapshot is the exported, gob-encodable mirror of a treeNode. Leaves
// set Indices; splits set Coef, Bias, Above, and Below.
type NodeSnapshot struct {
	Leaf    bool
	Indices []NodeID

	Coef  []float32
	Bias  float32
	Above int
	Below int
}

// TreeSnapshot is one tree's arena, in the same post-order layout Fit
// builds it in.
type TreeSnapshot []NodeSnapshot

// ForestSnapshot is the full, serializable state of a fit Forest. It
// carries no embeddings: those belong to the EmbeddingStore the forest was
// built over, serialized separately by the caller.
type ForestSnapshot struct {
	Trees []TreeSnapshot
}

// Export converts the forest into its serializable snapshot form.
func (f *Forest) Export() ForestSnapshot {
	snap := ForestSnapshot{Trees: make([]TreeSnapshot, len(f.trees))}
	for i, t := range f.trees {
		ts := make(TreeSnapshot, len(t))
		for j, n := range t {
			if n.kind == nodeLeaf {
				ts[j] = NodeSnapshot{Leaf: true, Indices: n.indices}
				continue
			}
			ts[j] = NodeSnapshot{
				Coef:  n.hp.coef,
				Bias:  n.hp.bias,
				Above: int(n.above),
				Below: int(n.below),
			}
		}
		snap.Trees[i] = ts
	}
	return snap
}

// ImportForest rebuilds a Forest from a snapshot previously produced by
// Export. The result is ready to Predict against the same EmbeddingStore
// (by node id) the forest was originally fit over.
func ImportForest(snap ForestSnapshot) *Forest {
	trees := make([]tree, len(snap.Trees))
	for i, ts := range snap.Trees {
		t := make(tree, len(ts))
		for j, n := range ts {
			if n.Leaf {
				t[j] = treeNode{kind: nodeLeaf, indices: n.Indices}
				continue
			}
			t[j] = treeNode{
				kind:  nodeSplit,
				hp:    newHyperplane(n.Coef, n.Bias),
				above: treeIndex(n.Above),
				below: treeIndex(n.Below),
			}
		}
		trees[i] = t
	}
	return &Forest{trees: trees}
}
