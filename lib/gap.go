package lib

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle"
)

// ErrGapFormat is returned when a GAP-style input cannot be parsed.
var ErrGapFormat = errors.New("gap: malformed input")

// The GAP payload starts at the first "[[": an edge list, the vertex
// count, then the color cells, all 1-indexed:
//
//	[[u,v],[u,v],...], n)), [[cell],[cell],...]
type gapPair struct {
	U int `"[" @Int ","`
	V int `@Int "]"`
}

type gapCell struct {
	Vertices []int `"[" ( @Int ","? )* "]"`
}

type gapDoc struct {
	Edges []gapPair `"[" ( @@ ","? )* "]"`
	N     int       `"," @Int ")" ")"`
	Cells []gapCell `"," "[" ( @@ ","? )* "]"`
}

var gapParser = participle.MustBuild(&gapDoc{}, participle.UseLookahead(1))

// ReadGapGraph parses a GAP-style colored graph. Anything before the edge
// list and after the final bracket is ignored.
func ReadGapGraph(data []byte) (*Graph, []int, error) {
	s := string(data)

	start := strings.Index(s, "[[")
	end := strings.LastIndexByte(s, ']')
	if start < 0 || end <= start {
		return nil, nil, ErrGapFormat
	}

	doc := gapDoc{}
	if err := gapParser.ParseString(s[start:end+1], &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrGapFormat, err)
	}

	n := doc.N
	if n < 0 {
		return nil, nil, ErrGapFormat
	}

	edges := make([][2]int, len(doc.Edges))
	for i, e := range doc.Edges {
		if e.U < 1 || e.U > n {
			return nil, nil, fmt.Errorf("%w: %d", ErrInvalidVertex, e.U)
		}
		if e.V < 1 || e.V > n {
			return nil, nil, fmt.Errorf("%w: %d", ErrInvalidVertex, e.V)
		}
		edges[i] = [2]int{e.U - 1, e.V - 1}
	}

	colors := make([]int, n)
	ci := 0
	for _, cell := range doc.Cells {
		if len(cell.Vertices) == 0 {
			continue
		}
		for _, v := range cell.Vertices {
			if v < 1 || v > n {
				return nil, nil, fmt.Errorf("%w: %d", ErrInvalidVertex, v)
			}
			colors[v-1] = ci
		}
		ci++
	}

	g, err := NewGraph(n, edges)
	if err != nil {
		return nil, nil, err
	}
	return g, colors, nil
}
