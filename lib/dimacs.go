package lib

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrDimacsFormat is returned when a DIMACS CNF input cannot be parsed.
var ErrDimacsFormat = errors.New("dimacs: malformed input")

// DimacsInfo describes the CNF formula behind an encoded graph.
type DimacsInfo struct {
	Vars        int // variables in the formula
	Clauses     int // non-binary clauses, i.e. clause vertices
	Literals    int // literal occurrences
	OrigClauses int // clauses in the original formula
}

// L2V maps a DIMACS literal to its vertex: positive literals come first,
// then the negations.
func L2V(k, vars int) int {
	if k > 0 {
		return k - 1
	}
	return vars - k - 1
}

// V2L maps a literal vertex back to its DIMACS literal.
func V2L(k, vars int) int {
	if k < vars {
		return k + 1
	}
	return vars - k - 1
}

func dimacsHeader(r *intScanner) (int, int, error) {
	for r.pos < len(r.buf) && r.buf[r.pos] == 'c' {
		for r.pos < len(r.buf) && r.buf[r.pos] != '\n' {
			r.pos++
		}
		if r.pos < len(r.buf) {
			r.pos++
		}
	}
	if r.pos >= len(r.buf) || r.buf[r.pos] != 'p' {
		return 0, 0, fmt.Errorf("%w: missing problem line", ErrDimacsFormat)
	}
	r.pos++
	if !bytes.HasPrefix(r.buf[r.pos:], []byte(" cnf ")) {
		return 0, 0, fmt.Errorf("%w: missing problem line", ErrDimacsFormat)
	}
	r.pos += len(" cnf ")

	var v, c int
	if !r.next(&v) || !r.next(&c) || v < 0 || c < 0 {
		return 0, 0, fmt.Errorf("%w: bad problem line", ErrDimacsFormat)
	}
	return v, c, nil
}

// ReadDimacs encodes a CNF formula as a colored graph: one vertex per
// literal (color 0) joined to its negation by a polarity edge, one vertex
// per non-binary clause (color 1) joined to its literals, and binary
// clauses as a single literal-literal edge.
func ReadDimacs(data []byte) (*Graph, []int, *DimacsInfo, error) {
	r := &intScanner{buf: data}

	v, c, err := dimacsHeader(r)
	if err != nil {
		return nil, nil, nil, err
	}

	n := 2*v + c
	lits := 0
	edges := make([][2]int, 0, n)

	for i := 0; i < v; i++ {
		edges = append(edges, [2]int{i, i + v})
	}

	nc := 2 * v
	for i := 2 * v; i < n; i++ {
		var x, y, z int
		if !r.next(&x) {
			return nil, nil, nil, fmt.Errorf("%w: truncated clause", ErrDimacsFormat)
		}
		if x == 0 {
			return nil, nil, nil, fmt.Errorf("%w: empty clause", ErrDimacsFormat)
		}
		if !r.next(&y) {
			return nil, nil, nil, fmt.Errorf("%w: truncated clause", ErrDimacsFormat)
		}

		// unary clauses get a clause vertex of their own
		if y == 0 {
			edges = append(edges, [2]int{L2V(x, v), nc})
			lits++
			nc++
			continue
		}
		if !r.next(&z) {
			return nil, nil, nil, fmt.Errorf("%w: truncated clause", ErrDimacsFormat)
		}

		// binary clauses collapse to a single edge between literals
		if z == 0 {
			edges = append(edges, [2]int{L2V(x, v), L2V(y, v)})
			lits += 2
			continue
		}

		edges = append(edges, [2]int{L2V(x, v), nc}, [2]int{L2V(y, v), nc})
		lits += 2
		for z != 0 {
			edges = append(edges, [2]int{L2V(z, v), nc})
			lits++
			if !r.next(&z) {
				return nil, nil, nil, fmt.Errorf("%w: truncated clause", ErrDimacsFormat)
			}
		}
		nc++
	}

	g, err := NewGraph(nc, edges)
	if err != nil {
		return nil, nil, nil, err
	}

	colors := make([]int, nc)
	for i := 2 * v; i < nc; i++ {
		colors[i] = 1
	}

	info := &DimacsInfo{
		Vars:        v,
		Clauses:     nc - 2*v,
		Literals:    lits,
		OrigClauses: c,
	}
	return g, colors, info, nil
}
