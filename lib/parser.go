package lib

import (
	"errors"
	"fmt"
)

// ErrHeader is returned when an input file's header cannot be read.
var ErrHeader = errors.New("parse: invalid header")

// ErrFormat is returned for malformed input past the header.
var ErrFormat = errors.New("parse: malformed input")

// ReadGraph parses the plain colored-graph format: a header "n e p", then
// p-1 ascending color boundaries, then e edge pairs. Color i covers the
// vertices between boundary i-1 and boundary i. In digraph mode the edge
// pairs are arcs.
func ReadGraph(data []byte, digraph bool) (*Graph, []int, error) {
	r := &intScanner{buf: data}

	var n, e, p int
	if !r.next(&n) || !r.next(&e) || !r.next(&p) {
		return nil, nil, ErrHeader
	}
	if n < 0 || e < 0 || p < 1 || (n > 0 && p > n) {
		return nil, nil, ErrHeader
	}

	colors := make([]int, n)
	i, j := 0, 0
	for ; i < p-1; i++ {
		var k int
		if !r.next(&k) {
			return nil, nil, fmt.Errorf("%w: color boundary %d", ErrFormat, i)
		}
		// every color must be non-empty, so boundaries strictly ascend in (0,n)
		if k <= j || k >= n {
			return nil, nil, fmt.Errorf("%w: color boundary %d", ErrFormat, i)
		}
		for j < k && j < n {
			colors[j] = i
			j++
		}
	}
	for j < n {
		colors[j] = i
		j++
	}

	edges := make([][2]int, e)
	for t := 0; t < e; t++ {
		var u, v int
		if !r.next(&u) || !r.next(&v) {
			return nil, nil, fmt.Errorf("%w: edge %d", ErrFormat, t)
		}
		edges[t] = [2]int{u, v}
	}

	var g *Graph
	var err error
	if digraph {
		g, err = NewDigraph(n, edges)
	} else {
		g, err = NewGraph(n, edges)
	}
	if err != nil {
		return nil, nil, err
	}
	return g, colors, nil
}
