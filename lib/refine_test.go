package lib

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// checkColoringInvariants verifies lab/unlab are inverse and cfront points
// at a real cell start covering each position.
func checkColoringInvariants(t *testing.T, c *coloring, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.Equal(t, i, c.unlab[c.lab[i]], "lab/unlab broken at position %d", i)
	}
	for f := 0; f < n; f += c.clen[f] + 1 {
		require.GreaterOrEqual(t, c.clen[f], 0)
		for p := f; p <= f+c.clen[f]; p++ {
			require.Equal(t, f, c.cfront[c.lab[p]], "cfront broken at position %d", p)
		}
	}
}

// checkEquitable verifies every pair of cells has constant cross-neighbor
// counts under each adjacency view.
func checkEquitable(t *testing.T, g *Graph, c *coloring, n int) {
	t.Helper()
	views := [][]int{g.Adj}
	edgs := [][]int{g.Edg}
	if g.Dadj != nil {
		views = append(views, g.Dadj)
		edgs = append(edgs, g.Dedg)
	}
	for vi := range views {
		adj, edg := views[vi], edgs[vi]
		for f := 0; f < n; f += c.clen[f] + 1 {
			var base map[int]int
			for p := f; p <= f+c.clen[f]; p++ {
				v := c.lab[p]
				counts := make(map[int]int)
				for j := adj[v]; j < adj[v+1]; j++ {
					counts[c.cfront[edg[j]]]++
				}
				if base == nil {
					base = counts
				} else {
					require.Equal(t, base, counts,
						"cell at %d not equitable for vertex %d", f, v)
				}
			}
		}
	}
}

func TestRootPartitionEquitable(t *testing.T) {
	cases := []struct {
		name  string
		n     int
		edges [][2]int
	}{
		{"cycle6", 6, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 0}}},
		{"star", 5, [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}}},
		{"twoTriangles", 6, [][2]int{{0, 1}, {0, 2}, {1, 2}, {3, 4}, {3, 5}, {4, 5}}},
		{"path4", 4, [][2]int{{0, 1}, {1, 2}, {2, 3}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := mustGraph(t, tc.n, tc.edges)
			s := NewSaucy(g.N)
			var stats Stats
			s.Search(g, false, zeros(g.N), func(int, []int, []int) bool { return true }, &stats)

			// once the search is exhausted both colorings are rewound to
			// the root refinement, which must be equitable
			checkColoringInvariants(t, &s.left, g.N)
			checkColoringInvariants(t, &s.right, g.N)
			checkEquitable(t, g, &s.left, g.N)
			checkEquitable(t, g, &s.right, g.N)
		})
	}
}

func TestSplitColor(t *testing.T) {
	c := newColoring(5)
	for i := 0; i < 5; i++ {
		c.setLabel(i, 4-i)
		c.cfront[4-i] = 0
	}
	c.clen[0] = 4

	c.splitColor(0, 3)
	require.Equal(t, 2, c.clen[0])
	require.Equal(t, 1, c.clen[3])
	require.Equal(t, 0, c.cfront[c.lab[2]])
	require.Equal(t, 3, c.cfront[c.lab[3]])
	require.Equal(t, 3, c.cfront[c.lab[4]])
	checkColoringInvariants(t, &c, 5)
}

func TestColoringFindMin(t *testing.T) {
	c := newColoring(4)
	for i, v := range []int{3, 1, 2, 0} {
		c.setLabel(i, v)
	}
	c.clen[0] = 3
	require.Equal(t, 3, c.findMin(0))

	c.clen[1] = 1
	require.Equal(t, 1, c.findMin(1))
}

func TestNonListSentinels(t *testing.T) {
	l := newNonList(4)
	l.setNext(-1, 4)
	l.setPrev(4, -1)
	require.Equal(t, 4, l.next(-1))
	require.Equal(t, -1, l.prev(4))

	l.setNext(-1, 0)
	l.setNext(0, 2)
	l.setNext(2, 4)
	require.Equal(t, 0, l.next(-1))
	require.Equal(t, 2, l.next(0))
	require.Equal(t, 4, l.next(2))
}
