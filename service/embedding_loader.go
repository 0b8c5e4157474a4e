package service

import (
	"github.com/ludo-technologies/annforest/domain"
	"github.com/ludo-technologies/annforest/internal/embeddings"
)

// EmbeddingLoader resolves embedding file paths/globs to a ready-to-query
// domain.EmbeddingStore, bridging the generic EmbeddingFileReader with the
// internal/embeddings package's format-specific parsers.
type EmbeddingLoader struct {
	fileReader *EmbeddingFileReader
}

// NewEmbeddingLoader creates a loader.
func NewEmbeddingLoader() *EmbeddingLoader {
	return &EmbeddingLoader{fileReader: NewEmbeddingFileReader()}
}

// LoadStore resolves paths (files, directories, or doublestar globs) to
// embedding shard files, parses them, and builds an in-memory store
// compared under the named metric.
func (l *EmbeddingLoader) LoadStore(paths []string, recursive bool, includePatterns, excludePatterns []string, metricName string) (domain.EmbeddingStore, error) {
	files, err := l.fileReader.CollectEmbeddingFiles(paths, recursive, includePatterns, excludePatterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no embedding files found matching the given paths", nil)
	}

	vecs, err := embeddings.LoadFiles(files)
	if err != nil {
		return nil, err
	}

	metric, err := embeddings.MetricByName(metricName)
	if err != nil {
		return nil, err
	}

	return embeddings.NewMemoryStore(vecs, metric), nil
}
