package lib

import (
	"fmt"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func mustGraph(t *testing.T, n int, edges [][2]int) *Graph {
	t.Helper()
	g, err := NewGraph(n, edges)
	require.NoError(t, err)
	return g
}

func mustDigraph(t *testing.T, n int, arcs [][2]int) *Graph {
	t.Helper()
	g, err := NewDigraph(n, arcs)
	require.NoError(t, err)
	return g
}

// searchCollect runs a fresh search and gathers every generator.
func searchCollect(t *testing.T, g *Graph, directed bool, colors []int) ([][]int, Stats) {
	t.Helper()
	s := NewSaucy(g.N)
	var stats Stats
	var gens [][]int
	s.Search(g, directed, colors, func(n int, gamma []int, support []int) bool {
		require.True(t, sort.IntsAreSorted(support))
		for _, k := range support {
			require.NotEqual(t, k, gamma[k])
		}
		gens = append(gens, append([]int(nil), gamma[:n]...))
		return true
	}, &stats)
	return gens, stats
}

// checkAutomorphism verifies gamma maps the edge relation onto itself.
func checkAutomorphism(t *testing.T, g *Graph, gamma []int) {
	t.Helper()
	has := make(map[[2]int]bool)
	for u := 0; u < g.N; u++ {
		for j := g.Adj[u]; j < g.Adj[u+1]; j++ {
			has[[2]int{u, g.Edg[j]}] = true
		}
	}
	for u := 0; u < g.N; u++ {
		for j := g.Adj[u]; j < g.Adj[u+1]; j++ {
			require.True(t, has[[2]int{gamma[u], gamma[g.Edg[j]]}],
				"edge (%d,%d) not preserved", u, g.Edg[j])
		}
	}
}

// closureOrder composes the generators to exhaustion and counts the group.
func closureOrder(n int, gens [][]int) int {
	id := make([]int, n)
	for i := range id {
		id[i] = i
	}
	key := func(p []int) string { return fmt.Sprint(p) }
	seen := map[string]bool{key(id): true}
	queue := [][]int{id}
	for len(queue) > 0 {
		p := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		for _, g := range gens {
			q := make([]int, n)
			for i := range q {
				q[i] = g[p[i]]
			}
			if !seen[key(q)] {
				seen[key(q)] = true
				queue = append(queue, q)
			}
		}
	}
	return len(seen)
}

func order(st Stats) float64 {
	v := st.GrpsizeBase
	for i := 0; i < st.GrpsizeExp; i++ {
		v *= 10
	}
	return v
}

func zeros(n int) []int { return make([]int, n) }

func TestTriangle(t *testing.T) {
	g := mustGraph(t, 3, [][2]int{{0, 1}, {0, 2}, {1, 2}})
	gens, stats := searchCollect(t, g, false, zeros(3))

	require.Equal(t, 2, stats.Gens)
	require.Equal(t, 4, stats.Support)
	require.Equal(t, 7, stats.Nodes)
	require.Equal(t, 3, stats.Levels)
	require.InDelta(t, 6.0, order(stats), 1e-9)
	for _, gamma := range gens {
		checkAutomorphism(t, g, gamma)
	}
	require.Equal(t, 6, closureOrder(3, gens))
}

func TestPath(t *testing.T) {
	g := mustGraph(t, 3, [][2]int{{0, 1}, {1, 2}})
	gens, stats := searchCollect(t, g, false, zeros(3))

	require.Equal(t, 1, stats.Gens)
	require.Equal(t, 2, stats.Support)
	require.Equal(t, 3, stats.Nodes)
	require.InDelta(t, 2.0, order(stats), 1e-9)
	require.Equal(t, 2, closureOrder(3, gens))
}

func TestCompleteDistinctColors(t *testing.T) {
	g := mustGraph(t, 4, [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}})
	gens, stats := searchCollect(t, g, false, []int{0, 1, 2, 3})

	require.Empty(t, gens)
	require.Equal(t, 0, stats.Gens)
	require.Equal(t, 1, stats.Nodes)
	require.InDelta(t, 1.0, order(stats), 1e-9)
}

func TestTwoTriangles(t *testing.T) {
	g := mustGraph(t, 6, [][2]int{
		{0, 1}, {0, 2}, {1, 2},
		{3, 4}, {3, 5}, {4, 5},
	})
	gens, stats := searchCollect(t, g, false, zeros(6))

	require.Equal(t, 4, stats.Gens)
	require.Equal(t, 12, stats.Support)
	require.InDelta(t, 72.0, order(stats), 1e-9)
	for _, gamma := range gens {
		checkAutomorphism(t, g, gamma)
	}
	require.Equal(t, 72, closureOrder(6, gens))
}

func TestDirectedCycle(t *testing.T) {
	g := mustDigraph(t, 3, [][2]int{{0, 1}, {1, 2}, {2, 0}})
	gens, stats := searchCollect(t, g, true, zeros(3))

	require.Equal(t, 1, stats.Gens)
	require.Equal(t, 3, stats.Support)
	require.InDelta(t, 3.0, order(stats), 1e-9)
	require.Equal(t, 3, closureOrder(3, gens))
}

func TestFourCycle(t *testing.T) {
	g := mustGraph(t, 4, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}})
	gens, stats := searchCollect(t, g, false, zeros(4))

	require.Equal(t, 2, stats.Gens)
	require.Equal(t, 6, stats.Support)
	require.InDelta(t, 8.0, order(stats), 1e-9)
	require.Equal(t, 8, closureOrder(4, gens))
}

func TestSingleVertex(t *testing.T) {
	g := mustGraph(t, 1, nil)
	gens, stats := searchCollect(t, g, false, zeros(1))

	require.Empty(t, gens)
	require.Equal(t, 1, stats.Nodes)
	require.InDelta(t, 1.0, order(stats), 1e-9)
}

func TestAsymmetricDigraph(t *testing.T) {
	// transitive tournament: every refinement target is forced
	g := mustDigraph(t, 3, [][2]int{{0, 1}, {0, 2}, {1, 2}})
	gens, stats := searchCollect(t, g, true, zeros(3))

	require.Empty(t, gens)
	require.Equal(t, 1, stats.Nodes)
	require.InDelta(t, 1.0, order(stats), 1e-9)
}

func TestPetersen(t *testing.T) {
	var edges [][2]int
	for i := 0; i < 5; i++ {
		edges = append(edges,
			[2]int{i, (i + 1) % 5},
			[2]int{i, i + 5},
			[2]int{5 + i, 5 + (i+2)%5},
		)
	}
	g := mustGraph(t, 10, edges)
	gens, stats := searchCollect(t, g, false, zeros(10))

	require.Equal(t, 3, stats.Gens)
	require.InDelta(t, 120.0, order(stats), 1e-9)
	for _, gamma := range gens {
		checkAutomorphism(t, g, gamma)
	}
	require.Equal(t, 120, closureOrder(10, gens))
}

func TestColorsBreakSymmetry(t *testing.T) {
	g := mustGraph(t, 3, [][2]int{{0, 1}, {0, 2}, {1, 2}})

	// one vertex singled out leaves a single transposition
	_, stats := searchCollect(t, g, false, []int{0, 0, 1})
	require.Equal(t, 1, stats.Gens)
	require.InDelta(t, 2.0, order(stats), 1e-9)

	// all distinct kills everything
	_, stats = searchCollect(t, g, false, []int{0, 1, 2})
	require.Equal(t, 0, stats.Gens)
	require.InDelta(t, 1.0, order(stats), 1e-9)
}

func TestSupportClosedUnderGamma(t *testing.T) {
	g := mustGraph(t, 6, [][2]int{
		{0, 1}, {0, 2}, {1, 2},
		{3, 4}, {3, 5}, {4, 5},
	})
	s := NewSaucy(g.N)
	var stats Stats
	s.Search(g, false, zeros(6), func(n int, gamma []int, support []int) bool {
		in := make(map[int]bool, len(support))
		for _, k := range support {
			in[k] = true
		}
		for _, k := range support {
			require.True(t, in[gamma[k]], "support not closed at %d", k)
		}
		return true
	}, &stats)
}

func TestSearchIdempotent(t *testing.T) {
	g := mustGraph(t, 6, [][2]int{
		{0, 1}, {0, 2}, {1, 2},
		{3, 4}, {3, 5}, {4, 5},
	})
	s := NewSaucy(g.N)
	keep := func(n int, gamma []int, support []int) bool { return true }

	var first, second Stats
	s.Search(g, false, zeros(6), keep, &first)
	s.Search(g, false, zeros(6), keep, &second)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated search diverged (-first +second):\n%s", diff)
	}
}

func TestConsumerAbort(t *testing.T) {
	g := mustGraph(t, 6, [][2]int{
		{0, 1}, {0, 2}, {1, 2},
		{3, 4}, {3, 5}, {4, 5},
	})
	s := NewSaucy(g.N)
	var stats Stats
	calls := 0
	s.Search(g, false, zeros(6), func(n int, gamma []int, support []int) bool {
		calls++
		return false
	}, &stats)

	require.Equal(t, 1, calls)
	require.Equal(t, 1, stats.Gens)
}

func TestWorkspaceReuseSmallerGraph(t *testing.T) {
	s := NewSaucy(6)

	big := mustGraph(t, 6, [][2]int{
		{0, 1}, {0, 2}, {1, 2},
		{3, 4}, {3, 5}, {4, 5},
	})
	var stats Stats
	s.Search(big, false, zeros(6), func(int, []int, []int) bool { return true }, &stats)

	small := mustGraph(t, 3, [][2]int{{0, 1}, {0, 2}, {1, 2}})
	s.Search(small, false, zeros(3), func(int, []int, []int) bool { return true }, &stats)
	require.Equal(t, 2, stats.Gens)
	require.InDelta(t, 6.0, order(stats), 1e-9)
}

func TestCycleOrbitCoversAllVertices(t *testing.T) {
	// C6: order 12, vertex orbit is everything
	var edges [][2]int
	for i := 0; i < 6; i++ {
		edges = append(edges, [2]int{i, (i + 1) % 6})
	}
	g := mustGraph(t, 6, edges)
	gens, stats := searchCollect(t, g, false, zeros(6))

	require.InDelta(t, 12.0, order(stats), 1e-9)
	orbits := Orbits(6, gens)
	require.Len(t, orbits, 1)
	require.Equal(t, []int{0, 1, 2, 3, 4, 5}, orbits[0])
}
