package domain

// OutputFormat selects how CLI/MCP results are rendered.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// Neighbor is a single (NodeID, distance) result from a nearest-neighbor query.
type Neighbor struct {
	ID       NodeID  `json:"id" yaml:"id"`
	Distance float32 `json:"distance" yaml:"distance"`
}

// PredictResponse is the result of a nearest-neighbor query against a Forest.
type PredictResponse struct {
	Neighbors   []Neighbor `json:"neighbors" yaml:"neighbors"`
	GeneratedAt string     `json:"generated_at" yaml:"generated_at"`
}

// LeavesResponse is the result of projecting a query onto each tree's leaves.
type LeavesResponse struct {
	LeafIndices []int  `json:"leaf_indices" yaml:"leaf_indices"`
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
}

// DepthResponse reports the maximum root-to-leaf depth of each tree in a Forest.
type DepthResponse struct {
	Depths      []int  `json:"depths" yaml:"depths"`
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
}

// IndexStats summarizes a built Forest for inspection (e.g. via the MCP
// index_stats tool).
type IndexStats struct {
	NumTrees    int    `json:"num_trees" yaml:"num_trees"`
	Depths      []int  `json:"depths" yaml:"depths"`
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
}
