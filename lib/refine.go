package lib

import "sort"

// splitMode selects what bookkeeping a cell split performs. Initial
// refinement and the leftmost descent journal their splits and maintain the
// nonsingleton list; right-branch refinement instead verifies each split
// against the journal and tracks label differences.
type splitMode int

const (
	splitModeInit splitMode = iota
	splitModeLeft
	splitModeOther
)

func (s *Saucy) split(c *coloring, cf, ff int) bool {
	switch s.mode {
	case splitModeInit:
		return s.splitInit(c, cf, ff)
	case splitModeLeft:
		return s.splitLeft(c, cf, ff)
	default:
		return s.splitOther(c, cf, ff)
	}
}

func (s *Saucy) maybeSplit(c *coloring, cf, ff int) bool {
	if cf == ff {
		return true
	}
	return s.split(c, cf, ff)
}

// addInduce queues a cell front on the matching inducer stack.
func (s *Saucy) addInduce(c *coloring, who int) {
	if c.clen[who] == 0 {
		s.sinduce[s.nsinduce] = who
		s.nsinduce++
	} else {
		s.ninduce[s.nninduce] = who
		s.nninduce++
	}
	s.indmark[who] = true
}

// splitCommon splits and queues whichever side keeps refinement cheap:
// the new cell if the old one is already queued or the new one is shorter.
func (s *Saucy) splitCommon(c *coloring, cf, ff int) {
	c.splitColor(cf, ff)
	if s.indmark[cf] || c.clen[ff] < c.clen[cf] {
		s.addInduce(c, ff)
	} else {
		s.addInduce(c, cf)
	}
}

func (s *Saucy) splitLeft(c *coloring, cf, ff int) bool {
	s.splitwho[s.nsplits] = ff
	s.splitfrom[s.nsplits] = cf
	s.nsplits++
	s.splitCommon(c, cf, ff)
	return true
}

func (s *Saucy) splitInit(c *coloring, cf, ff int) bool {
	s.splitLeft(c, cf, ff)

	// keep the nonsingleton list current for target selection
	if c.clen[ff] != 0 {
		s.nons.setPrev(s.nons.next(cf), ff)
		s.nons.setNext(ff, s.nons.next(cf))
		s.nons.setPrev(ff, cf)
		s.nons.setNext(cf, ff)
	}
	if c.clen[cf] == 0 {
		s.nons.setNext(s.nons.prev(cf), s.nons.next(cf))
		s.nons.setPrev(s.nons.next(cf), s.nons.prev(cf))
	}
	return true
}

func (s *Saucy) splitOther(c *coloring, cf, ff int) bool {
	k := s.nsplits
	if s.splitwho[k] != ff || s.splitfrom[k] != cf || k >= s.splitlev[s.lev] {
		return false
	}
	s.nsplits++
	s.splitCommon(c, cf, ff)
	s.fixDiffs(cf, ff)
	return true
}

// moveToBack swaps a connected vertex to the back of its cell, past the
// vertices already counted there.
func (s *Saucy) moveToBack(c *coloring, k int) {
	cf := c.cfront[k]
	cb := cf + c.clen[cf]
	offset := s.conncnts[cf]
	s.conncnts[cf]++
	c.swapLabels(cb-offset, c.unlab[k])
	if offset == 0 {
		s.clist[s.csize] = cf
		s.csize++
	}
}

func (s *Saucy) dataMark(c *coloring, k int) {
	if c.clen[c.cfront[k]] != 0 {
		s.moveToBack(c, k)
	}
}

func (s *Saucy) dataCount(c *coloring, k int) {
	if c.clen[c.cfront[k]] == 0 {
		return
	}
	s.ccount[k]++
	if s.ccount[k] == 1 {
		s.moveToBack(c, k)
	}
}

// refineCell visits the cells marked during neighbor traversal. Above the
// root the list is sorted so both branches see splits in the same order.
func (s *Saucy) refineCell(c *coloring, single bool) bool {
	ret := true
	if s.lev > 1 {
		sort.Ints(s.clist[:s.csize])
	}
	for i := 0; ret && i < s.csize; i++ {
		if single {
			ret = s.refSingleCell(c, s.clist[i])
		} else {
			ret = s.refNonsingleCell(c, s.clist[i])
		}
	}
	for i := 0; i < s.csize; i++ {
		s.conncnts[s.clist[i]] = 0
	}
	s.csize = 0
	return ret
}

// refSingleCell isolates the connected suffix of a marked cell.
func (s *Saucy) refSingleCell(c *coloring, cf int) bool {
	zcnt := c.clen[cf] + 1 - s.conncnts[cf]
	return s.maybeSplit(c, cf, cf+zcnt)
}

func (s *Saucy) refSingletonView(c *coloring, v view, cf int) bool {
	k := c.lab[cf]
	for i := v.adj[k]; i != v.adj[k+1]; i++ {
		s.dataMark(c, v.edg[i])
	}
	return s.refineCell(c, true)
}

func (s *Saucy) refSingleton(c *coloring, cf int) bool {
	for _, v := range s.views {
		if !s.refSingletonView(c, v, cf) {
			return false
		}
	}
	return true
}

// refNonsingleCell bucket-sorts a marked cell by connection count and
// splits at every count change; the unconnected prefix splits off last.
func (s *Saucy) refNonsingleCell(c *coloring, cf int) bool {
	cb := cf + c.clen[cf]
	nzf := cb - s.conncnts[cf] + 1

	ff := nzf
	cnt := s.ccount[c.lab[ff]]
	bmin, bmax := cnt, cnt
	s.count[ff] = cnt
	s.bucket[cnt] = 1

	for ff++; ff <= cb; ff++ {
		cnt = s.ccount[c.lab[ff]]
		for bmin > cnt {
			bmin--
			s.bucket[bmin] = 0
		}
		for bmax < cnt {
			bmax++
			s.bucket[bmax] = 0
		}
		s.bucket[cnt]++
		s.count[ff] = cnt
	}

	if bmin == bmax && cf == nzf {
		return true
	}

	ff = nzf
	fb := nzf
	for i := bmin; i <= bmax; i++ {
		if s.bucket[i] == 0 {
			continue
		}
		fb = ff + s.bucket[i]
		s.bucket[i] = fb
		ff = fb
	}

	for i := nzf; i <= cb; i++ {
		s.bucket[s.count[i]]--
		s.junk[s.bucket[s.count[i]]] = c.lab[i]
	}
	for i := nzf; i <= cb; i++ {
		c.setLabel(i, s.junk[i])
	}

	for i := bmax; i > bmin; i-- {
		ff = s.bucket[i]
		if ff != 0 && !s.split(c, cf, ff) {
			return false
		}
	}
	return s.maybeSplit(c, cf, s.bucket[bmin])
}

func (s *Saucy) refNonsingleView(c *coloring, v view, cf int) bool {
	cb := cf + c.clen[cf]
	size := cb - cf + 1

	// the cell may have shrunk to a singleton since it was queued
	if cf == cb {
		return s.refSingletonView(c, v, cf)
	}

	copy(s.junk[:size], c.lab[cf:cb+1])
	for i := 0; i < size; i++ {
		k := s.junk[i]
		for j := v.adj[k]; j != v.adj[k+1]; j++ {
			s.dataCount(c, v.edg[j])
		}
	}

	ret := s.refineCell(c, false)

	// junk was clobbered by the bucket rewrite; lab still holds the set
	for i := cf; i <= cb; i++ {
		k := c.lab[i]
		for j := v.adj[k]; j != v.adj[k+1]; j++ {
			s.ccount[v.edg[j]] = 0
		}
	}
	return ret
}

func (s *Saucy) refNonsingle(c *coloring, cf int) bool {
	for _, v := range s.views {
		if !s.refNonsingleView(c, v, cf) {
			return false
		}
	}
	return true
}

func (s *Saucy) clearRefine() {
	for i := 0; i < s.nninduce; i++ {
		s.indmark[s.ninduce[i]] = false
	}
	for i := 0; i < s.nsinduce; i++ {
		s.indmark[s.sinduce[i]] = false
	}
	s.nninduce = 0
	s.nsinduce = 0
}

// refine drains the inducer stacks, singletons first, until the partition
// is equitable or discrete. A false return is a right-branch mismatch.
func (s *Saucy) refine(c *coloring) bool {
	for {
		if s.atTerminal() {
			s.clearRefine()
			return true
		}
		if s.nsinduce > 0 {
			s.nsinduce--
			front := s.sinduce[s.nsinduce]
			s.indmark[front] = false
			if !s.refSingleton(c, front) {
				break
			}
		} else if s.nninduce > 0 {
			s.nninduce--
			front := s.ninduce[s.nninduce]
			s.indmark[front] = false
			if !s.refNonsingle(c, front) {
				break
			}
		} else {
			return true
		}
	}
	s.clearRefine()
	return false
}
