package service

import (
	"context"
	"sort"
	"time"

	"github.com/ludo-technologies/annforest/domain"
	"github.com/ludo-technologies/annforest/internal/ann"
	"github.com/ludo-technologies/annforest/internal/lsh"
)

// ForestService orchestrates the operations a forest exposes to the CLI
// and MCP layers: fitting one from an embedding store, answering
// nearest-neighbor, leaf-index, and depth queries against it, summarizing
// it, and building and querying an LSH approximate index over it. It holds no
// state of its own besides its collaborators, so a single instance is
// reused across requests.
type ForestService struct {
	loader   *EmbeddingLoader
	executor domain.ParallelExecutor
	progress domain.ProgressManager
}

// NewForestService creates a service. executor and progress may both be
// nil, in which case Build runs sequentially and silently.
func NewForestService(executor domain.ParallelExecutor, progress domain.ProgressManager) *ForestService {
	return &ForestService{
		loader:   NewEmbeddingLoader(),
		executor: executor,
		progress: progress,
	}
}

// LoadEmbeddings resolves paths to an EmbeddingStore ready to fit a forest
// over, or to compare a query against.
func (s *ForestService) LoadEmbeddings(paths []string, recursive bool, includePatterns, excludePatterns []string, metric string) (domain.EmbeddingStore, error) {
	return s.loader.LoadStore(paths, recursive, includePatterns, excludePatterns, metric)
}

// Build fits a new forest over es.
func (s *ForestService) Build(ctx context.Context, es domain.EmbeddingStore, cfg ann.BuildConfig) (*ann.Forest, error) {
	f := ann.NewForest()
	if err := f.Fit(ctx, es, cfg, s.executor, s.progress); err != nil {
		return nil, err
	}
	return f, nil
}

// Predict answers a single nearest-neighbor query against a fit forest.
func (s *ForestService) Predict(ctx context.Context, f *ann.Forest, es domain.EmbeddingStore, query domain.Vector, cfg ann.PredictConfig) (*domain.PredictResponse, error) {
	results, err := f.Predict(ctx, es, domain.NewVectorEntity(query), cfg, s.executor)
	if err != nil {
		return nil, err
	}

	neighbors := make([]domain.Neighbor, len(results))
	for i, nd := range results {
		neighbors[i] = domain.Neighbor{ID: nd.ID, Distance: nd.Distance}
	}

	return &domain.PredictResponse{
		Neighbors:   neighbors,
		GeneratedAt: now(),
	}, nil
}

// BuildApproxIndex builds an approximate inverted index over every node in
// es, keyed by its leaf-bucket fingerprint under f. The result is passed to
// ApproxNeighbors for cheap candidate generation that skips tree traversal
// entirely.
func (s *ForestService) BuildApproxIndex(f *ann.Forest, es domain.EmbeddingStore) (*lsh.ForestIndex, error) {
	if f.NumTrees() == 0 {
		return nil, domain.NewIndexError("forest has not been fit", nil)
	}
	return lsh.BuildForestIndex(f, es, 0, lsh.LSHConfig{}), nil
}

// ApproxNeighbors answers a nearest-neighbor query by narrowing to whatever
// idx reports shares an LSH band with query's own leaf-bucket fingerprint,
// then ranking exactly those candidates by true distance. It is a cheaper,
// lower-recall alternative to Predict: nodes whose fingerprint happens not
// to collide with query's are never considered, no matter how close they
// actually are.
func (s *ForestService) ApproxNeighbors(f *ann.Forest, idx *lsh.ForestIndex, es domain.EmbeddingStore, query domain.Vector, k int) (*domain.PredictResponse, error) {
	if k <= 0 {
		return &domain.PredictResponse{GeneratedAt: now()}, nil
	}

	candidates := idx.Query(f.PredictLeafIndices(query))
	q := domain.NewVectorEntity(query)

	scored := make([]ann.NodeDistance, 0, len(candidates))
	for _, id := range candidates {
		d, err := es.ComputeDistance(domain.NewNodeEntity(id), q)
		if err != nil {
			return nil, err
		}
		scored = append(scored, ann.NodeDistance{ID: id, Distance: d})
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].Less(scored[j]) })
	if len(scored) > k {
		scored = scored[:k]
	}

	neighbors := make([]domain.Neighbor, len(scored))
	for i, nd := range scored {
		neighbors[i] = domain.Neighbor{ID: nd.ID, Distance: nd.Distance}
	}
	return &domain.PredictResponse{Neighbors: neighbors, GeneratedAt: now()}, nil
}

// Leaves reports, for each tree in f, which leaf bucket query settles in.
func (s *ForestService) Leaves(f *ann.Forest, query domain.Vector) (*domain.LeavesResponse, error) {
	if f.NumTrees() == 0 {
		return nil, domain.NewIndexError("forest has not been fit", nil)
	}
	return &domain.LeavesResponse{
		LeafIndices: f.PredictLeafIndices(query),
		GeneratedAt: now(),
	}, nil
}

// Depth reports the max root-to-leaf depth of every tree in f.
func (s *ForestService) Depth(f *ann.Forest) (*domain.DepthResponse, error) {
	if f.NumTrees() == 0 {
		return nil, domain.NewIndexError("forest has not been fit", nil)
	}
	return &domain.DepthResponse{
		Depths:      f.Depth(),
		GeneratedAt: now(),
	}, nil
}

// Stats summarizes a fit forest for inspection (the MCP index_stats tool).
func (s *ForestService) Stats(f *ann.Forest) (*domain.IndexStats, error) {
	if f.NumTrees() == 0 {
		return nil, domain.NewIndexError("forest has not been fit", nil)
	}
	return &domain.IndexStats{
		NumTrees:    f.NumTrees(),
		Depths:      f.Depth(),
		GeneratedAt: now(),
	}, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
