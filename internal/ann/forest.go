package ann

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/ludo-technologies/annforest/domain"
)

// Forest is a random-projection forest: a fixed set of independently-built
// binary trees over the same embedding store. Queries are answered by
// searching every tree and merging their candidate sets, which trades a
// small amount of per-query work for substantially better recall than any
// single tree alone.
type Forest struct {
	trees []tree
}

// NewForest returns an empty, unfit forest.
func NewForest() *Forest {
	return &Forest{}
}

// buildTask adapts one tree's build into a domain.ExecutableTask so Fit can
// drive the whole forest through a shared domain.ParallelExecutor instead of
// hand-rolling its own goroutine pool.
type buildTask struct {
	name string
	run  func(ctx context.Context) error
}

func (t buildTask) Name() string      { return t.name }
func (t buildTask) IsEnabled() bool   { return true }
func (t buildTask) Execute(ctx context.Context) (interface{}, error) {
	return nil, t.run(ctx)
}

// Fit (re)builds the forest from scratch: one tree per cfg.NTrees, each
// seeded with cfg.Seed+i so trees are reproducible independent of each
// other and of how many goroutines ran concurrently. progress, when
// non-nil, is told about every tree as it completes.
func (f *Forest) Fit(ctx context.Context, es domain.EmbeddingStore, cfg BuildConfig, exec domain.ParallelExecutor, progress ProgressReporter) error {
	if es.Len() == 0 {
		return domain.NewIndexError("cannot fit an ann forest over an empty embedding store", nil)
	}
	if cfg.NTrees <= 0 {
		return domain.NewIndexError(fmt.Sprintf("ntrees must be positive, got %d", cfg.NTrees), nil)
	}
	if cfg.MaxNodesPerLeaf <= 0 {
		return domain.NewIndexError(fmt.Sprintf("max nodes per leaf must be positive, got %d", cfg.MaxNodesPerLeaf), nil)
	}

	ids := cfg.NodeIDs
	if ids == nil {
		ids = es.NodeIDs()
	}
	if len(ids) == 0 {
		return domain.NewIndexError("cannot fit an ann forest over an empty node id set", nil)
	}

	trees := make([]tree, cfg.NTrees)
	if progress != nil {
		progress.StartTask("build forest")
	}

	tasks := make([]domain.ExecutableTask, cfg.NTrees)
	for i := 0; i < cfg.NTrees; i++ {
		idx := i
		tasks[idx] = buildTask{
			name: fmt.Sprintf("tree-%d", idx),
			run: func(ctx context.Context) error {
				rng := rand.New(rand.NewSource(int64(cfg.Seed) + int64(idx)))
				trees[idx] = buildTree(cfg, es, ids, rng)
				if progress != nil {
					progress.UpdateProgress("build forest", idx+1, cfg.NTrees)
				}
				return nil
			},
		}
	}

	if exec == nil {
		exec = newInlineExecutor()
	}
	if err := exec.Execute(ctx, tasks); err != nil {
		if progress != nil {
			progress.CompleteTask("build forest", false)
		}
		return domain.NewIndexError("building forest", err)
	}

	if progress != nil {
		progress.CompleteTask("build forest", true)
	}
	f.trees = trees
	return nil
}

// NumTrees returns how many trees the forest currently holds.
func (f *Forest) NumTrees() int { return len(f.trees) }

// Depth returns the max root-to-leaf depth of every tree, in build order.
func (f *Forest) Depth() []int {
	depths := make([]int, len(f.trees))
	for i, t := range f.trees {
		depths[i] = t.depth(t.rootIndex())
	}
	return depths
}

// predictTask adapts one tree's traversal into a domain.ExecutableTask so
// Predict can fan its per-tree searches out across the same shared
// domain.ParallelExecutor Fit uses, since each tree's traversal reads only
// the (read-only) store and its own (read-only) arena.
type predictTask struct {
	name string
	run  func(ctx context.Context) error
}

func (t predictTask) Name() string    { return t.name }
func (t predictTask) IsEnabled() bool { return true }
func (t predictTask) Execute(ctx context.Context) (interface{}, error) {
	return nil, t.run(ctx)
}

// Predict returns the k nodes across the whole forest closest to query,
// deduplicated so a node that lands in multiple trees' result sets appears
// only once, at its best observed distance. Each tree's traversal is
// independent, so they are run through exec (nil falls back to running them
// inline on the calling goroutine); ctx is checked at tree boundaries only.
func (f *Forest) Predict(ctx context.Context, es domain.EmbeddingStore, query Entity, cfg PredictConfig, exec domain.ParallelExecutor) ([]NodeDistance, error) {
	if len(f.trees) == 0 {
		return nil, domain.NewIndexError("forest has not been fit", nil)
	}
	if cfg.K <= 0 {
		return nil, nil
	}
	if qv := queryVector(es, query); len(qv) != es.Dims() {
		return nil, domain.NewInvalidInputError(
			fmt.Sprintf("dimension mismatch: query has %d dims, store has %d", len(qv), es.Dims()), nil)
	}

	minSearch := cfg.MinSearchNodes
	if minSearch <= 0 {
		minSearch = len(f.trees) * cfg.K
	}

	results := make([][]NodeDistance, len(f.trees))
	tasks := make([]domain.ExecutableTask, len(f.trees))
	for i, t := range f.trees {
		idx, tt := i, t
		tasks[idx] = predictTask{
			name: fmt.Sprintf("predict-tree-%d", idx),
			run: func(ctx context.Context) error {
				r, err := treePredict(tt, es, query, cfg.K, minSearch)
				if err != nil {
					return err
				}
				results[idx] = r
				return nil
			},
		}
	}

	if exec == nil {
		exec = newInlineExecutor()
	}
	if err := exec.Execute(ctx, tasks); err != nil {
		var domErr domain.DomainError
		if errors.As(err, &domErr) {
			return nil, err
		}
		return nil, domain.NewIndexError("predicting", err)
	}

	var all []NodeDistance
	for _, r := range results {
		all = append(all, r...)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Less(all[j]) })

	deduped := all[:0]
	var seenID NodeID
	haveSeen := false
	for _, nd := range all {
		if haveSeen && nd.ID == seenID {
			continue
		}
		deduped = append(deduped, nd)
		seenID = nd.ID
		haveSeen = true
	}

	if len(deduped) > cfg.K {
		deduped = deduped[:cfg.K]
	}
	return deduped, nil
}

// PredictLeafIndices returns, for each tree, the arena index of the leaf emb
// settles in. The result is the forest's leaf-bucket fingerprint for emb,
// suitable as a feature set for an inverted index such as internal/lsh.
func (f *Forest) PredictLeafIndices(emb Vector) []int {
	out := make([]int, len(f.trees))
	for i, t := range f.trees {
		out[i] = int(t.leafIndex(emb))
	}
	return out
}

// PredictLeafPaths returns, for each tree, every internal node visited on
// the way from the root to emb's leaf.
func (f *Forest) PredictLeafPaths(emb Vector) [][]int {
	out := make([][]int, len(f.trees))
	for i, t := range f.trees {
		path := t.leafPath(emb)
		ints := make([]int, len(path))
		for j, p := range path {
			ints[j] = int(p)
		}
		out[i] = ints
	}
	return out
}
