// Package engine implements the workflow execution engine: validation,
// dependency-level scheduling, parallel node execution and result tracking.
package engine

import "github.com/Chillizu/ai-workflow-studio/pkg/models"

// ComputeLevels partitions the node set into ordered dependency levels using
// Kahn-style in-degree reduction. Every node in a level has no edges to any
// other node in the same level, so a consumer may run a whole level
// concurrently; later levels depend only on earlier ones.
//
// An iteration that finds no zero-in-degree node means the remaining nodes
// form a cycle; scheduling stops early and those nodes are left out (the
// validator rejects such graphs before execution).
func ComputeLevels(nodes []*models.Node, edges []*models.Edge) [][]string {
	inDegree := make(map[string]int, len(nodes))
	for _, n := range nodes {
		inDegree[n.ID] = 0
	}

	// Edges referencing missing nodes are leftovers from editor deletions
	// and carry no dependency.
	successors := make(map[string][]string, len(nodes))

	for _, e := range edges {
		_, sourceOK := inDegree[e.Source]
		if _, targetOK := inDegree[e.Target]; sourceOK && targetOK {
			successors[e.Source] = append(successors[e.Source], e.Target)
			inDegree[e.Target]++
		}
	}

	levels := make([][]string, 0)
	processed := make(map[string]bool, len(nodes))

	for len(processed) < len(nodes) {
		level := make([]string, 0)

		for _, n := range nodes {
			if !processed[n.ID] && inDegree[n.ID] == 0 {
				level = append(level, n.ID)
			}
		}

		if len(level) == 0 {
			break
		}

		for _, id := range level {
			processed[id] = true

			for _, target := range successors[id] {
				inDegree[target]--
			}
		}

		levels = append(levels, level)
	}

	return levels
}
