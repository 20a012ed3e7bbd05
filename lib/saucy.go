package lib

import "sort"

// A Consumer receives each discovered generator: gamma is the full
// permutation over 0..n-1 and support lists its non-fixed points in
// ascending order. Both slices are only valid for the duration of the
// call. Returning false aborts the search.
type Consumer func(n int, gamma []int, support []int) bool

// Saucy is a reusable automorphism-search workspace. All arrays are sized
// once at construction and shared across the whole tree walk; nothing is
// allocated on the hot path.
type Saucy struct {
	n      int
	nalloc int
	views  []view

	// colorings: left is zeta (the leftmost branch), right the current one
	left  coloring
	right coloring
	nons  nonList

	// refinement worklists and workspace
	indmark  []bool
	ninduce  []int
	sinduce  []int
	nninduce int
	nsinduce int
	clist    []int
	csize    int
	stuff    []bool
	ccount   []int
	bucket   []int
	count    []int
	junk     []int
	gamma    []int
	conncnts []int

	// search position
	lev     int
	anc     int
	anctar  []int
	kanctar int
	start   []int
	indmin  int
	mode    splitMode

	// orbit partition
	theta   []int
	thsize  []int
	thnext  []int
	thprev  []int
	threp   []int
	thfront []int

	// split journal
	splitwho  []int
	splitfrom []int
	splitlev  []int
	nsplits   int

	// differences from zeta
	diffmark   []bool
	diffs      []int
	difflev    []int
	ndiffs     int
	undifflev  []int
	nundiffs   int
	unsupp     []int
	specmin    []int
	pairs      []int
	unpairs    []int
	npairs     int
	diffnons   []int
	undiffnons []int
	ndiffnons  int

	consumer Consumer
	stats    *Stats
}

// NewSaucy prepares a workspace for graphs of up to n vertices.
func NewSaucy(n int) *Saucy {
	s := &Saucy{
		n:          n,
		nalloc:     n,
		left:       newColoring(n),
		right:      newColoring(n),
		nons:       newNonList(n),
		indmark:    make([]bool, n),
		ninduce:    make([]int, n),
		sinduce:    make([]int, n),
		clist:      make([]int, n),
		stuff:      make([]bool, n+1),
		ccount:     make([]int, n),
		bucket:     make([]int, n+2),
		count:      make([]int, n+1),
		junk:       make([]int, n),
		gamma:      make([]int, n),
		conncnts:   make([]int, n),
		anctar:     make([]int, n),
		start:      make([]int, n),
		theta:      make([]int, n),
		thsize:     make([]int, n),
		thnext:     make([]int, n),
		thprev:     make([]int, n),
		threp:      make([]int, n),
		thfront:    make([]int, n),
		splitwho:   make([]int, n),
		splitfrom:  make([]int, n),
		splitlev:   make([]int, n+1),
		diffmark:   make([]bool, n),
		diffs:      make([]int, n),
		difflev:    make([]int, n),
		undifflev:  make([]int, n),
		unsupp:     make([]int, n),
		specmin:    make([]int, n),
		pairs:      make([]int, n),
		unpairs:    make([]int, n),
		diffnons:   make([]int, n),
		undiffnons: make([]int, n),
	}
	return s
}

func (s *Saucy) atTerminal() bool {
	return s.nsplits == s.n
}

// zetaFixed reports that every remaining difference from zeta is already
// pinned in singletons, so further descent cannot diverge.
func (s *Saucy) zetaFixed() bool {
	return s.ndiffs == s.nundiffs
}

// checkMapping verifies gamma maps k's neighbor set onto gamma(k)'s.
func (s *Saucy) checkMapping(v view, k int) bool {
	for i := v.adj[k]; i != v.adj[k+1]; i++ {
		s.stuff[s.gamma[v.edg[i]]] = true
	}

	ret := true
	gk := s.gamma[k]
	for i := v.adj[gk]; ret && i != v.adj[gk+1]; i++ {
		ret = s.stuff[v.edg[i]]
	}

	for i := v.adj[k]; i != v.adj[k+1]; i++ {
		s.stuff[s.gamma[v.edg[i]]] = false
	}
	return ret
}

func (s *Saucy) isAutomorphism() bool {
	for i := 0; i < s.ndiffs; i++ {
		k := s.unsupp[i]
		for _, v := range s.views {
			if !s.checkMapping(v, k) {
				return false
			}
		}
	}
	return true
}

// probeMatches compares the sum and xor of neighbor cell fronts for the
// vertex at pos in both colorings; a mismatch witnesses non-isomorphism.
func (s *Saucy) probeMatches(c *coloring, pos int) bool {
	adj, edg := s.views[0].adj, s.views[0].edg

	v := c.lab[pos]
	sum1, xor1 := 0, 0
	for j := adj[v]; j < adj[v+1]; j++ {
		f := c.cfront[edg[j]]
		sum1 += f
		xor1 ^= f
	}

	v = s.left.lab[pos]
	sum2, xor2 := 0, 0
	for j := adj[v]; j < adj[v+1]; j++ {
		f := s.left.cfront[edg[j]]
		sum2 += f
		xor2 ^= f
	}
	return sum1 == sum2 && xor1 == xor2
}

func (s *Saucy) descend(c *coloring, target, min int) bool {
	back := target + c.clen[target]

	s.stats.Nodes++

	c.swapLabels(min, back)

	s.difflev[s.lev] = s.ndiffs
	s.undifflev[s.lev] = s.nundiffs
	s.lev++
	s.split(c, target, back)

	ret := s.refine(c)

	// cheap non-isomorphism filter on this level's refinement targets
	if c == &s.right && ret {
		for i := s.nsplits - 1; i > s.splitlev[s.lev-1]; i-- {
			if !s.probeMatches(c, s.splitwho[i]) || !s.probeMatches(c, s.splitfrom[i]) {
				ret = false
				break
			}
		}
	}
	return ret
}

func (s *Saucy) descendLeftmost() bool {
	for !s.atTerminal() {
		target := s.nons.next(-1)
		s.start[s.lev] = target
		s.splitlev[s.lev] = s.nsplits
		if !s.descend(&s.left, target, target) {
			return false
		}
	}
	s.splitlev[s.lev] = s.n
	return true
}

// selectDecomposition picks the target cell and the left/right minima for
// the next individualization, preferring candidate 2-cycles.
func (s *Saucy) selectDecomposition() (target, lmin, rmin int) {
	clen := s.left.clen

	for i := 0; i < s.npairs; i++ {
		k := s.pairs[i]
		target = s.right.cfront[k]
		lmin = s.left.unlab[s.right.lab[s.left.unlab[k]]]
		rmin = s.right.unlab[k]
		if clen[target] != 0 &&
			inCellRange(&s.left, lmin, target) &&
			inCellRange(&s.right, rmin, target) {
			return target, lmin, rmin
		}
	}

	// diffnons is only consistent while no bad nodes intervened
	if s.ndiffnons != -1 {
		target = s.right.cfront[s.diffnons[0]]
		return target, target, target
	}

	for i := 0; i < s.ndiffs; i++ {
		cf := s.right.cfront[s.diffs[i]]
		if clen[cf] != 0 {
			return cf, cf, cf
		}
	}

	// zetaFixed was false, so some diff still sits in a nonsingleton cell
	panic("saucy: no decomposition target")
}

func (s *Saucy) descendLeft() bool {
	if s.nsplits != s.splitlev[s.lev] {
		return false
	}

	for !s.atTerminal() && !s.zetaFixed() {
		target, lmin, rmin := s.selectDecomposition()

		// mirror the step on the left first, recording its splits
		s.start[s.lev] = target
		s.mode = splitModeLeft
		s.descend(&s.left, target, lmin)
		s.splitlev[s.lev] = s.nsplits
		s.mode = splitModeOther
		s.lev--
		s.nsplits = s.splitlev[s.lev]

		// now the right must reproduce them exactly
		s.specmin[s.lev] = s.right.lab[rmin]
		if !s.descend(&s.right, target, rmin) {
			return false
		}
		if s.nsplits != s.splitlev[s.lev] {
			return false
		}
	}
	return true
}

func (s *Saucy) backtrackLeftmost() int {
	rep := findRepresentative(s.indmin, s.theta)
	repsize := s.thsize[rep]
	min := -1

	s.pickAllThePairs()
	s.clearUndiffnons()
	s.ndiffs = 0
	s.nundiffs = 0
	s.npairs = 0
	s.ndiffnons = 0

	if repsize != s.right.clen[s.start[s.lev]]+1 {
		min = s.thetaPrune()
	}
	if min == -1 {
		s.multiplyIndex(repsize)
	}
	return min
}

func (s *Saucy) backtrackOther() int {
	cf := s.start[s.lev]
	cb := cf + s.right.clen[cf]
	spec := s.specmin[s.lev]

	// pairs are only meaningful back at the leftmost-compatible path
	s.pickAllThePairs()
	s.clearUndiffnons()
	s.npairs = -1
	s.ndiffnons = -1

	var min int
	if s.right.lab[cb] == spec {
		min = s.right.findMin(cf)
		if min == cb {
			min = s.orbitPrune()
		} else {
			min -= cf
		}
	} else {
		min = s.orbitPrune()
		if min != -1 && s.right.lab[min+cf] == spec {
			s.right.swapLabels(min+cf, cb)
			min = s.orbitPrune()
		}
	}
	return min
}

func (s *Saucy) rewindColoring(c *coloring, lev int) {
	splits := s.splitlev[lev]
	for i := s.nsplits - 1; i >= splits; i-- {
		cf := s.splitfrom[i]
		ff := s.splitwho[i]
		c.clen[cf] += c.clen[ff] + 1
		c.fixFronts(cf, ff)
	}
}

func (s *Saucy) doBacktrack() int {
	s.rewindColoring(&s.right, s.lev)
	s.nsplits = s.splitlev[s.lev]

	for i := s.ndiffs - 1; i >= s.difflev[s.lev]; i-- {
		s.diffmark[s.diffs[i]] = false
	}
	s.ndiffs = s.difflev[s.lev]
	s.nundiffs = s.undifflev[s.lev]

	cf := s.start[s.lev]
	cb := cf + s.right.clen[cf]

	// reascended past the old ancestor with zeta
	if s.anc > s.lev {
		s.anc = s.lev
		s.indmin = s.left.lab[cb]
		s.noteAnctarReps()
	}

	if s.lev == s.anc {
		return s.backtrackLeftmost()
	}
	return s.backtrackOther()
}

func (s *Saucy) backtrackLoop() int {
	for s.lev--; s.lev != 0; s.lev-- {
		min := s.doBacktrack()
		if min != -1 {
			return min + s.start[s.lev]
		}
	}
	return -1
}

func (s *Saucy) backtrack() int {
	old := s.nsplits
	min := s.backtrackLoop()
	tmp := s.nsplits
	s.nsplits = old
	s.rewindColoring(&s.left, s.lev+1)
	s.nsplits = tmp
	return min
}

func (s *Saucy) backtrackBad() int {
	old := s.lev
	min := s.backtrackLoop()
	tmp := s.nsplits
	s.nsplits = s.splitlev[old]
	s.rewindColoring(&s.left, s.lev+1)
	s.nsplits = tmp
	return min
}

// preparePermutation derives the candidate gamma from the label
// differences: wherever the colorings disagree, the left label maps to
// the right one.
func (s *Saucy) preparePermutation() {
	for i := 0; i < s.ndiffs; i++ {
		k := s.right.unlab[s.diffs[i]]
		s.unsupp[i] = s.left.lab[k]
		s.gamma[s.left.lab[k]] = s.right.lab[k]
	}
}

func (s *Saucy) unpreparePermutation() {
	for i := 0; i < s.ndiffs; i++ {
		s.gamma[s.unsupp[i]] = s.unsupp[i]
	}
}

func (s *Saucy) doSearch() bool {
	s.unpreparePermutation()

	if s.lev > s.anc {
		s.lev = s.anc + 1
	}
	min := s.backtrack()

	for s.lev != 0 {
		if s.descend(&s.right, s.start[s.lev], min) && s.descendLeft() {
			s.preparePermutation()

			if s.isAutomorphism() {
				s.stats.Gens++
				s.stats.Support += s.ndiffs
				s.updateTheta()
				unsupp := s.unsupp[:s.ndiffs]
				sort.Ints(unsupp)
				return s.consumer(s.n, s.gamma, unsupp)
			}
			s.unpreparePermutation()
		}

		s.stats.Bads++
		min = s.backtrackBad()
	}

	// finish normalizing the mantissa into [1,10)
	for s.stats.GrpsizeBase >= 10.0 {
		s.stats.GrpsizeBase /= 10
		s.stats.GrpsizeExp++
	}
	return false
}

// Search enumerates a generating set for the automorphism group of g under
// the given initial coloring, reporting each generator to consumer and
// accumulating stats. Color values must be contiguous from 0: every value
// up to the maximum occurs at least once. The same workspace may be reused
// for repeated searches over graphs no larger than it was allocated for.
func (s *Saucy) Search(g *Graph, directed bool, colors []int, consumer Consumer, stats *Stats) {
	if g.N > s.nalloc {
		panic("saucy: graph larger than allocated workspace")
	}

	s.stats = stats
	s.consumer = consumer
	s.n = g.N

	s.views = s.views[:0]
	s.views = append(s.views, view{adj: g.Adj, edg: g.Edg})
	if directed {
		s.views = append(s.views, view{adj: g.Dadj, edg: g.Dedg})
	}

	stats.GrpsizeBase = 1.0
	stats.GrpsizeExp = 0
	stats.Levels = 0
	stats.Nodes = 1
	stats.Bads = 0
	stats.Gens = 0
	stats.Support = 0

	if s.n == 0 {
		return
	}

	s.indmin = 0
	s.lev = 1
	s.anc = 1
	s.ndiffs = 0
	s.nundiffs = 0
	s.ndiffnons = 0

	for i := 0; i < s.n; i++ {
		s.theta[i] = i
		s.gamma[i] = i
		s.thsize[i] = 1
		s.thnext[i] = i
		s.thprev[i] = i
		s.unpairs[i] = -1
		s.undiffnons[i] = -1
	}
	s.npairs = 0

	s.nninduce = 0
	s.nsinduce = 0
	s.csize = 0

	// bucket the initial coloring into cells ordered by color value
	max := 0
	for i := 0; i < s.n; i++ {
		s.ccount[colors[i]]++
		if max < colors[i] {
			max = colors[i]
		}
	}
	s.nsplits = max + 1

	s.left.clen[0] = s.ccount[0] - 1
	for i := 0; i < max; i++ {
		s.left.clen[s.ccount[i]] = s.ccount[i+1] - 1
		s.ccount[i+1] += s.ccount[i]
	}
	for i := 0; i < s.n; i++ {
		s.ccount[colors[i]]--
		s.left.setLabel(s.ccount[colors[i]], i)
	}
	for i := 0; i <= max; i++ {
		s.ccount[i] = 0
	}

	for i := 0; i < s.n; i += s.left.clen[i] + 1 {
		s.addInduce(&s.left, i)
		s.left.fixFronts(i, i)
	}

	j := -1
	for i := 0; i < s.n; i += s.left.clen[i] + 1 {
		if s.left.clen[i] == 0 {
			continue
		}
		s.nons.setPrev(i, j)
		s.nons.setNext(j, i)
		j = i
	}
	s.nons.setPrev(s.n, j)
	s.nons.setNext(j, s.n)

	// refine the root and walk the leftmost branch to fix zeta
	s.mode = splitModeInit
	s.refine(&s.left)
	s.descendLeftmost()
	s.mode = splitModeOther

	s.stats.Levels = s.lev
	s.anc = s.lev

	copy(s.right.lab, s.left.lab)
	copy(s.right.unlab, s.left.unlab)
	copy(s.right.clen, s.left.clen)
	copy(s.right.cfront, s.left.cfront)

	copy(s.threp, s.left.lab)
	copy(s.thfront, s.left.unlab)

	for s.doSearch() {
	}
}
