// Package graph provides a minimal adjacency-list implementation of
// domain.Graph, used by internal/annwalk's graph-walk ANN variant, along
// with a couple of small grouping/selection helpers ported from the
// original project's utility module.
package graph

import (
	"sort"

	"github.com/ludo-technologies/annforest/domain"
)

// AdjacencyGraph is an undirected or directed adjacency list keyed by
// domain.NodeID, implementing domain.Graph.
type AdjacencyGraph struct {
	edges map[domain.NodeID][]domain.NodeID
}

// NewAdjacencyGraph creates an empty graph.
func NewAdjacencyGraph() *AdjacencyGraph {
	return &AdjacencyGraph{edges: make(map[domain.NodeID][]domain.NodeID)}
}

// AddEdge records a directed edge from -> to. Call it twice (both
// directions) to model an undirected edge.
func (g *AdjacencyGraph) AddEdge(from, to domain.NodeID) {
	g.edges[from] = append(g.edges[from], to)
}

// Len returns the number of distinct nodes that appear as an edge source.
func (g *AdjacencyGraph) Len() int { return len(g.edges) }

// Edges returns id's outgoing neighbors, in the order they were added.
func (g *AdjacencyGraph) Edges(id domain.NodeID) []domain.NodeID {
	return g.edges[id]
}

// NodeIDs returns every node that has at least one outgoing edge, in
// ascending order.
func (g *AdjacencyGraph) NodeIDs() []domain.NodeID {
	ids := make([]domain.NodeID, 0, len(g.edges))
	for id := range g.edges {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
