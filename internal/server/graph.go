package server

import (
	"sort"
	"time"

	"github.com/Oddey86/TarkovBuddy/internal/planner"
)

type GraphNode struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Trader        string   `json:"trader,omitempty"`
	KappaRequired bool     `json:"kappa_required"`
	IsFocus       bool     `json:"is_focus"`
	Sweeps        []int    `json:"sweeps"`
	Maps          []string `json:"maps"`
}

type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type GraphMetadata struct {
	ID          string `json:"id"`
	CreatedAt   string `json:"created_at"`
	TotalTasks  int    `json:"total_tasks"`
	TotalSweeps int    `json:"total_sweeps"`
}

// Graph is the node/edge view of a route for graph renderers.
type Graph struct {
	Nodes    []GraphNode   `json:"nodes"`
	Edges    []GraphEdge   `json:"edges"`
	Metadata GraphMetadata `json:"metadata"`
}

// toGraph converts a RoutePlan into a Graph with deterministic ordering.
func toGraph(plan *planner.RoutePlan) *Graph {
	ids := make([]string, 0, len(plan.Tasks))
	for id := range plan.Tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	nodes := make([]GraphNode, 0, len(ids))
	edges := []GraphEdge{}
	for _, id := range ids {
		t := plan.Tasks[id]
		nodes = append(nodes, GraphNode{
			ID:            t.TaskID,
			Name:          t.Name,
			Trader:        t.Trader,
			KappaRequired: t.KappaRequired,
			IsFocus:       t.IsFocus,
			Sweeps:        t.Sweeps,
			Maps:          t.Maps,
		})
		for _, pre := range plan.Deps.Requires[id] {
			edges = append(edges, GraphEdge{From: pre, To: id})
		}
	}

	return &Graph{
		Nodes: nodes,
		Edges: edges,
		Metadata: GraphMetadata{
			ID:          plan.ID,
			CreatedAt:   plan.CreatedAt.Format(time.RFC3339),
			TotalTasks:  plan.TotalTasks,
			TotalSweeps: plan.TotalSweeps,
		},
	}
}
