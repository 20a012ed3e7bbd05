package lib

import (
	"errors"
	"fmt"
)

// ErrInvalidVertex is returned when an edge references a vertex outside [0,n).
var ErrInvalidVertex = errors.New("graph: vertex out of range")

// ErrDuplicateEdge is returned when the input contains a repeated edge.
var ErrDuplicateEdge = errors.New("graph: duplicate edge in input")

// A Graph is a read-only compressed-sparse-row adjacency view.
// Edg[Adj[v]:Adj[v+1]] lists the out-neighbors of v. For digraphs,
// Dedg[Dadj[v]:Dadj[v+1]] lists the in-neighbors; for undirected graphs
// Dadj and Dedg are nil and each edge appears in both endpoints' rows.
type Graph struct {
	N    int
	E    int
	Adj  []int
	Edg  []int
	Dadj []int
	Dedg []int
}

// fixAdj1 turns per-vertex degree counts into insertion offsets,
// returning the total entry count.
func fixAdj1(adj []int, n int) int {
	val, sum := adj[0], 0
	adj[0] = 0
	for i := 1; i < n; i++ {
		sum += val
		val = adj[i]
		adj[i] = sum
	}
	return sum + val
}

// fixAdj2 rewinds the insertion offsets back into row starts.
func fixAdj2(adj []int, n, e int) {
	for i := n - 1; i > 0; i-- {
		adj[i] = adj[i-1]
	}
	adj[0] = 0
	adj[n] = e
}

func addEdge(a, b int, adj, edg []int) {
	edg[adj[a]] = b
	adj[a]++
	edg[adj[b]] = a
	adj[b]++
}

// dupeCheck scans the out-adjacency for repeated endpoints. A self-loop in
// undirected data shows up as two entries, so only a third occurrence of a
// vertex in its own row is treated as a duplicate.
func dupeCheck(n int, adj, edg []int) error {
	seen := make([]int, n)
	for i := 0; i < n; i++ {
		loops := 0
		for j := adj[i]; j < adj[i+1]; j++ {
			if edg[j] == i {
				loops++
				if loops > 2 {
					return ErrDuplicateEdge
				}
			} else if seen[edg[j]] == i+1 {
				return ErrDuplicateEdge
			}
			seen[edg[j]] = i + 1
		}
	}
	return nil
}

func checkRange(n int, edges [][2]int) error {
	for _, e := range edges {
		if e[0] < 0 || e[0] >= n {
			return fmt.Errorf("%w: %d", ErrInvalidVertex, e[0])
		}
		if e[1] < 0 || e[1] >= n {
			return fmt.Errorf("%w: %d", ErrInvalidVertex, e[1])
		}
	}
	return nil
}

// NewGraph builds an undirected CSR graph over n vertices from an edge list.
func NewGraph(n int, edges [][2]int) (*Graph, error) {
	if err := checkRange(n, edges); err != nil {
		return nil, err
	}
	adj := make([]int, n+1)
	for _, e := range edges {
		adj[e[0]]++
		adj[e[1]]++
	}
	fixAdj1(adj, n)
	edg := make([]int, 2*len(edges))
	for _, e := range edges {
		addEdge(e[0], e[1], adj, edg)
	}
	fixAdj2(adj, n, 2*len(edges))
	if err := dupeCheck(n, adj, edg); err != nil {
		return nil, err
	}
	return &Graph{N: n, E: len(edges), Adj: adj, Edg: edg}, nil
}

// NewDigraph builds a directed CSR graph with both fanout and fanin rows.
func NewDigraph(n int, arcs [][2]int) (*Graph, error) {
	if err := checkRange(n, arcs); err != nil {
		return nil, err
	}
	adj := make([]int, n+1)
	dadj := make([]int, n+1)
	for _, a := range arcs {
		adj[a[0]]++
		dadj[a[1]]++
	}
	fixAdj1(adj, n)
	fixAdj1(dadj, n)
	edg := make([]int, len(arcs))
	dedg := make([]int, len(arcs))
	for _, a := range arcs {
		edg[adj[a[0]]] = a[1]
		adj[a[0]]++
		dedg[dadj[a[1]]] = a[0]
		dadj[a[1]]++
	}
	fixAdj2(adj, n, len(arcs))
	fixAdj2(dadj, n, len(arcs))
	if err := dupeCheck(n, adj, edg); err != nil {
		return nil, err
	}
	return &Graph{N: n, E: len(arcs), Adj: adj, Edg: edg, Dadj: dadj, Dedg: dedg}, nil
}

// view is one adjacency direction of the graph being searched.
type view struct {
	adj []int
	edg []int
}
