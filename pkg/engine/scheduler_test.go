package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chillizu/ai-workflow-studio/pkg/models"
)

func nodesFromIDs(ids ...string) []*models.Node {
	nodes := make([]*models.Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, &models.Node{ID: id, Type: "textInput"})
	}

	return nodes
}

func edge(source, target string) *models.Edge {
	return &models.Edge{Source: source, SourcePort: "out", Target: target, TargetPort: "in"}
}

func TestComputeLevels_LinearChain(t *testing.T) {
	levels := ComputeLevels(
		nodesFromIDs("a", "b", "c"),
		[]*models.Edge{edge("a", "b"), edge("b", "c")},
	)

	require.Len(t, levels, 3)
	assert.Equal(t, []string{"a"}, levels[0])
	assert.Equal(t, []string{"b"}, levels[1])
	assert.Equal(t, []string{"c"}, levels[2])
}

func TestComputeLevels_Diamond(t *testing.T) {
	levels := ComputeLevels(
		nodesFromIDs("a", "b", "c", "d"),
		[]*models.Edge{edge("a", "b"), edge("a", "c"), edge("b", "d"), edge("c", "d")},
	)

	require.Len(t, levels, 3)
	assert.Equal(t, []string{"a"}, levels[0])
	assert.ElementsMatch(t, []string{"b", "c"}, levels[1])
	assert.Equal(t, []string{"d"}, levels[2])
}

func TestComputeLevels_IndependentNodesShareLevel(t *testing.T) {
	levels := ComputeLevels(nodesFromIDs("a", "b", "c"), nil)

	require.Len(t, levels, 1)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, levels[0])
}

func TestComputeLevels_EmptyWorkflow(t *testing.T) {
	levels := ComputeLevels(nil, nil)
	assert.Empty(t, levels)
}

func TestComputeLevels_CycleLeavesNodesUnscheduled(t *testing.T) {
	levels := ComputeLevels(
		nodesFromIDs("a", "b", "c"),
		[]*models.Edge{edge("a", "b"), edge("b", "c"), edge("c", "b")},
	)

	// Only the acyclic prefix is schedulable.
	require.Len(t, levels, 1)
	assert.Equal(t, []string{"a"}, levels[0])
}

func TestComputeLevels_DanglingEdgeIgnored(t *testing.T) {
	levels := ComputeLevels(
		nodesFromIDs("a", "b"),
		[]*models.Edge{edge("a", "b"), edge("ghost", "b")},
	)

	require.Len(t, levels, 2)
	assert.Equal(t, []string{"a"}, levels[0])
	assert.Equal(t, []string{"b"}, levels[1])
}

func TestComputeLevels_ParallelEdgesBetweenSamePair(t *testing.T) {
	// Two ports wired between the same nodes count the dependency twice,
	// and both counts must drain when the source level completes.
	nodes := nodesFromIDs("a", "b")
	edges := []*models.Edge{edge("a", "b"), edge("a", "b")}

	levels := ComputeLevels(nodes, edges)

	require.Len(t, levels, 2)
	assert.Equal(t, []string{"a"}, levels[0])
	assert.Equal(t, []string{"b"}, levels[1])
}

func TestComputeLevels_EveryNodeExactlyOnce(t *testing.T) {
	nodes := nodesFromIDs("a", "b", "c", "d", "e")
	edges := []*models.Edge{edge("a", "c"), edge("b", "c"), edge("c", "d"), edge("c", "e")}

	levels := ComputeLevels(nodes, edges)

	seen := make(map[string]int)
	for _, level := range levels {
		for _, id := range level {
			seen[id]++
		}
	}

	for _, n := range nodes {
		assert.Equal(t, 1, seen[n.ID], "node %s", n.ID)
	}
}
