package lib

import "github.com/spakin/disjoint"

// Orbits groups the vertices 0..n-1 into orbits under the given
// permutations, in order of each orbit's smallest vertex. Vertices fixed
// by every generator form singleton orbits.
func Orbits(n int, gens [][]int) [][]int {
	elems := make([]*disjoint.Element, n)
	for i := range elems {
		elems[i] = disjoint.NewElement()
	}
	for _, g := range gens {
		for v, gv := range g {
			if v != gv {
				disjoint.Union(elems[v], elems[gv])
			}
		}
	}

	groups := make(map[*disjoint.Element][]int, n)
	var reps []*disjoint.Element
	for v := 0; v < n; v++ {
		r := elems[v].Find()
		if _, ok := groups[r]; !ok {
			reps = append(reps, r)
		}
		groups[r] = append(groups[r], v)
	}

	out := make([][]int, 0, len(reps))
	for _, r := range reps {
		out = append(out, groups[r])
	}
	return out
}
