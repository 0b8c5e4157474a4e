package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all annforest MCP tools with the server.
func RegisterTools(s *server.MCPServer, deps *Dependencies) {
	handlers := NewHandlerSet(deps)

	// Tool 1: build_index - fit a forest over a set of embedding shards
	s.AddTool(mcp.NewTool("build_index",
		mcp.WithDescription("Build a random-projection forest ANN index over embedding files and save it to disk"),
		mcp.WithString("embeddings",
			mcp.Required(),
			mcp.Description("Path, directory, or doublestar glob (e.g. data/**/*.jsonl) of embedding shard files")),
		mcp.WithString("out",
			mcp.Required(),
			mcp.Description("Path to write the forest snapshot to (plus a .yaml sidecar)")),
		mcp.WithNumber("n_trees",
			mcp.Description("Number of trees in the forest (default: configured build.n_trees)")),
		mcp.WithNumber("max_leaf",
			mcp.Description("Maximum embeddings per leaf before a split stops (default: configured build.max_nodes_per_leaf)")),
		mcp.WithString("metric",
			mcp.WithStringEnumItems([]string{"euclidean", "dot", "cosine"}),
			mcp.Description("Distance metric (default: configured query.metric)")),
	), handlers.HandleBuildIndex)

	// Tool 2: nearest_neighbors - query a built forest for its k nearest neighbors
	s.AddTool(mcp.NewTool("nearest_neighbors",
		mcp.WithDescription("Find the k nearest neighbors of a query vector in a built forest index"),
		mcp.WithString("index",
			mcp.Required(),
			mcp.Description("Path to a forest snapshot produced by build_index")),
		mcp.WithArray("query",
			mcp.Required(),
			mcp.Description("Query embedding as an array of numbers")),
		mcp.WithNumber("k",
			mcp.Description("Number of neighbors to return (default: 10)")),
	), handlers.HandleNearestNeighbors)

	// Tool 3: leaf_index - project a query onto each tree's leaf bucket
	s.AddTool(mcp.NewTool("leaf_index",
		mcp.WithDescription("Report which leaf bucket a query vector settles in, for every tree in a built forest"),
		mcp.WithString("index",
			mcp.Required(),
			mcp.Description("Path to a forest snapshot produced by build_index")),
		mcp.WithArray("query",
			mcp.Required(),
			mcp.Description("Query embedding as an array of numbers")),
	), handlers.HandleLeafIndex)

	// Tool 4: index_stats - summarize a built forest
	s.AddTool(mcp.NewTool("index_stats",
		mcp.WithDescription("Report summary statistics (tree count, per-tree depth) of a built forest"),
		mcp.WithString("index",
			mcp.Required(),
			mcp.Description("Path to a forest snapshot produced by build_index")),
	), handlers.HandleIndexStats)
}
