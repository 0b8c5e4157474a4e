package service

import (
	"encoding/gob"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/annforest/domain"
	"github.com/ludo-technologies/annforest/internal/ann"
	"github.com/ludo-technologies/annforest/internal/config"
	"github.com/ludo-technologies/annforest/internal/embeddings"
)

// onDiskSnapshot is the gob-encoded payload written to a build's --out
// path: the forest's arena tables plus the raw vectors of the embedding
// store it was fit over, so predict/leaves/depth can run against a fresh
// process without re-parsing the original embedding shards.
type onDiskSnapshot struct {
	Forest ann.ForestSnapshot
	Metric string
	Vecs   map[domain.NodeID]domain.Vector
}

// sidecarMetadata is the human-readable YAML sidecar written alongside a
// snapshot (<path>.yaml), documenting the build parameters that produced
// it. It is never read back by LoadForest; it exists purely for inspection.
type sidecarMetadata struct {
	NumTrees int                 `yaml:"num_trees"`
	NumNodes int                 `yaml:"num_nodes"`
	Metric   string              `yaml:"metric"`
	Build    config.BuildSection `yaml:"build"`
	Depths   []int               `yaml:"depths"`
}

// SaveForest writes a forest and the embedding store it was built over to
// path as a gob-encoded binary snapshot, plus a YAML sidecar at
// path+".yaml" describing the build parameters.
func SaveForest(f *ann.Forest, es domain.EmbeddingStore, build config.BuildSection, path string) error {
	vecs := make(map[domain.NodeID]domain.Vector, es.Len())
	for _, id := range es.NodeIDs() {
		vecs[id] = es.Embedding(id)
	}

	snap := onDiskSnapshot{
		Forest: f.Export(),
		Metric: es.Distance().Name(),
		Vecs:   vecs,
	}

	file, err := os.Create(path)
	if err != nil {
		return domain.NewOutputError(fmt.Sprintf("creating snapshot file: %s", path), err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(snap); err != nil {
		return domain.NewOutputError(fmt.Sprintf("writing snapshot file: %s", path), err)
	}

	meta := sidecarMetadata{
		NumTrees: f.NumTrees(),
		NumNodes: es.Len(),
		Metric:   snap.Metric,
		Build:    build,
		Depths:   f.Depth(),
	}
	sidecar, err := yaml.Marshal(meta)
	if err != nil {
		return domain.NewOutputError("encoding snapshot sidecar", err)
	}
	if err := os.WriteFile(path+".yaml", sidecar, 0o644); err != nil {
		return domain.NewOutputError(fmt.Sprintf("writing snapshot sidecar: %s.yaml", path), err)
	}

	return nil
}

// LoadForest reads a snapshot previously written by SaveForest and
// reconstructs both the fit Forest and the domain.EmbeddingStore it was
// built over.
func LoadForest(path string) (*ann.Forest, domain.EmbeddingStore, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, domain.NewInvalidInputError(fmt.Sprintf("opening snapshot file: %s", path), err)
	}
	defer file.Close()

	var snap onDiskSnapshot
	if err := gob.NewDecoder(file).Decode(&snap); err != nil {
		return nil, nil, domain.NewInvalidInputError(fmt.Sprintf("decoding snapshot file: %s", path), err)
	}

	metric, err := embeddings.MetricByName(snap.Metric)
	if err != nil {
		return nil, nil, err
	}

	es := embeddings.NewMemoryStore(snap.Vecs, metric)
	f := ann.ImportForest(snap.Forest)
	return f, es, nil
}
