package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ludo-technologies/annforest/domain"
	"github.com/ludo-technologies/annforest/internal/ann"
	"github.com/ludo-technologies/annforest/service"
)

// HandlerSet binds the annforest MCP tool handlers to a shared Dependencies
// instance, the way the CLI commands share a single ForestService.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet creates a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	return &HandlerSet{deps: deps}
}

// HandleBuildIndex handles the build_index tool.
func (h *HandlerSet) HandleBuildIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reqID := uuid.NewString()
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	embeddings, ok := args["embeddings"].(string)
	if !ok {
		return mcp.NewToolResultError("embeddings parameter is required and must be a string"), nil
	}
	out, ok := args["out"].(string)
	if !ok {
		return mcp.NewToolResultError("out parameter is required and must be a string"), nil
	}

	cfg := h.deps.Config()
	buildCfg := cfg.ToBuildConfig()
	if n, ok := args["n_trees"].(float64); ok {
		buildCfg.NTrees = int(n)
	}
	if m, ok := args["max_leaf"].(float64); ok {
		buildCfg.MaxNodesPerLeaf = int(m)
	}
	metric := cfg.Query.Metric
	if mstr, ok := args["metric"].(string); ok && mstr != "" {
		metric = mstr
	}

	log.Printf("[%s] build_index: embeddings=%s out=%s n_trees=%d", reqID, embeddings, out, buildCfg.NTrees)

	svc := h.deps.ForestService()
	es, err := svc.LoadEmbeddings([]string{embeddings}, true, nil, nil, metric)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load embeddings: %v", err)), nil
	}

	forest, err := svc.Build(ctx, es, buildCfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build forest: %v", err)), nil
	}

	buildSection := cfg.Build
	buildSection.NTrees = buildCfg.NTrees
	buildSection.MaxNodesPerLeaf = buildCfg.MaxNodesPerLeaf
	buildSection.Seed = buildCfg.Seed

	if err := service.SaveForest(forest, es, buildSection, out); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save forest: %v", err)), nil
	}

	stats, err := svc.Stats(forest)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to summarize forest: %v", err)), nil
	}

	return jsonResult(stats)
}

// HandleNearestNeighbors handles the nearest_neighbors tool.
func (h *HandlerSet) HandleNearestNeighbors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reqID := uuid.NewString()
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	indexPath, query, toolErr := parseIndexAndQuery(args)
	if toolErr != "" {
		return mcp.NewToolResultError(toolErr), nil
	}

	k := 10
	if kv, ok := args["k"].(float64); ok && kv > 0 {
		k = int(kv)
	}

	log.Printf("[%s] nearest_neighbors: index=%s k=%d", reqID, indexPath, k)

	forest, es, err := service.LoadForest(indexPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load index: %v", err)), nil
	}

	resp, err := h.deps.ForestService().Predict(ctx, forest, es, query, ann.PredictConfig{K: k})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("prediction failed: %v", err)), nil
	}

	return jsonResult(resp)
}

// HandleLeafIndex handles the leaf_index tool.
func (h *HandlerSet) HandleLeafIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reqID := uuid.NewString()
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	indexPath, query, toolErr := parseIndexAndQuery(args)
	if toolErr != "" {
		return mcp.NewToolResultError(toolErr), nil
	}

	log.Printf("[%s] leaf_index: index=%s", reqID, indexPath)

	forest, _, err := service.LoadForest(indexPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load index: %v", err)), nil
	}

	resp, err := h.deps.ForestService().Leaves(forest, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("leaf projection failed: %v", err)), nil
	}

	return jsonResult(resp)
}

// HandleIndexStats handles the index_stats tool.
func (h *HandlerSet) HandleIndexStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reqID := uuid.NewString()
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	indexPath, ok := args["index"].(string)
	if !ok {
		return mcp.NewToolResultError("index parameter is required and must be a string"), nil
	}
	if _, err := os.Stat(indexPath); os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("index file does not exist: %s", indexPath)), nil
	}

	log.Printf("[%s] index_stats: index=%s", reqID, indexPath)

	forest, _, err := service.LoadForest(indexPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load index: %v", err)), nil
	}

	resp, err := h.deps.ForestService().Stats(forest)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to summarize forest: %v", err)), nil
	}

	return jsonResult(resp)
}

// parseIndexAndQuery extracts the common index/query argument pair shared
// by nearest_neighbors and leaf_index, returning a non-empty error string
// on failure.
func parseIndexAndQuery(args map[string]interface{}) (string, domain.Vector, string) {
	indexPath, ok := args["index"].(string)
	if !ok {
		return "", nil, "index parameter is required and must be a string"
	}
	if _, err := os.Stat(indexPath); os.IsNotExist(err) {
		return "", nil, fmt.Sprintf("index file does not exist: %s", indexPath)
	}

	rawQuery, ok := args["query"].([]interface{})
	if !ok || len(rawQuery) == 0 {
		return "", nil, "query parameter is required and must be a non-empty array of numbers"
	}
	query := make(domain.Vector, len(rawQuery))
	for i, v := range rawQuery {
		f, ok := v.(float64)
		if !ok {
			return "", nil, "query parameter must contain only numbers"
		}
		query[i] = float32(f)
	}

	return indexPath, query, ""
}

// jsonResult marshals result as the tool's JSON text response.
func jsonResult(result interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
