package lib

import "sort"

// The running orbit partition theta: union-find with path compression where
// the representative is the minimum of its class, plus circular rep-lists
// (thnext/thprev) grouping the reps that share an ancestor cell front
// (thfront), with threp giving one list entry per front.

func findRepresentative(k int, theta []int) int {
	rep := k
	for rep != theta[rep] {
		rep = theta[rep]
	}
	for theta[k] != rep {
		k, theta[k] = theta[k], rep
	}
	return rep
}

// updateTheta unions every supported vertex with its image.
func (s *Saucy) updateTheta() {
	for i := 0; i < s.ndiffs; i++ {
		k := s.unsupp[i]
		x := findRepresentative(k, s.theta)
		y := findRepresentative(s.gamma[k], s.theta)

		if x != y {
			if x > y {
				x, y = y, x
			}
			s.theta[y] = x
			s.thsize[x] += s.thsize[y]

			s.thnext[s.thprev[y]] = s.thnext[y]
			s.thprev[s.thnext[y]] = s.thprev[y]
			s.threp[s.thfront[y]] = s.thnext[y]
		}
	}
}

// thetaPrune scans the ancestor target's reps for one that is still its
// own representative and lies outside the fixed minimum's orbit; its
// offset in the target cell is the next branch to take.
func (s *Saucy) thetaPrune() int {
	start := s.start[s.lev]
	irep := findRepresentative(s.indmin, s.theta)
	for s.kanctar > 0 {
		s.kanctar--
		label := s.anctar[s.kanctar]
		rep := findRepresentative(label, s.theta)
		if rep == label && rep != irep {
			return s.right.unlab[label] - start
		}
	}
	return -1
}

// orbitPrune picks the smallest label in the target cell that is greater
// than the previously fixed one.
func (s *Saucy) orbitPrune() int {
	k := s.start[s.lev]
	size := s.right.clen[k] + 1
	cell := s.right.lab[k : k+size]

	fixed := cell[size-1]
	min := -1
	for i := 0; i < size-1; i++ {
		label := cell[i]
		if label <= fixed {
			continue
		}
		if min != -1 && label > cell[min] {
			continue
		}
		min = i
	}
	return min
}

// noteAnctarReps rejoins the rep-lists torn by the previous level's
// leftmost splits, then snapshots the target's reps sorted by ascending
// orbit size. thetaPrune consumes the snapshot from its end, so reps of
// larger orbits are tried first.
func (s *Saucy) noteAnctarReps() {
	for i := s.splitlev[s.anc+1] - 1; i >= s.splitlev[s.anc]; i-- {
		f := s.splitfrom[i]
		j := s.threp[f]
		k := s.threp[s.splitwho[i]]

		s.thnext[s.thprev[j]] = k
		s.thnext[s.thprev[k]] = j
		s.thprev[j], s.thprev[k] = s.thprev[k], s.thprev[j]

		for m := k; m != j; m = s.thnext[m] {
			s.thfront[m] = f
		}
	}

	s.kanctar = 0
	rep := s.threp[s.start[s.lev]]
	s.anctar[s.kanctar] = rep
	s.kanctar++
	for k := s.thnext[rep]; k != rep; k = s.thnext[k] {
		s.anctar[s.kanctar] = k
		s.kanctar++
	}
	anctar := s.anctar[:s.kanctar]
	sort.SliceStable(anctar, func(a, b int) bool {
		return s.thsize[anctar[a]] < s.thsize[anctar[b]]
	})
}

// multiplyIndex folds an orbit size into the group order, spilling into
// the exponent once the mantissa passes 1e10.
func (s *Saucy) multiplyIndex(k int) {
	s.stats.GrpsizeBase *= float64(k)
	if s.stats.GrpsizeBase > 1e10 {
		s.stats.GrpsizeBase /= 1e10
		s.stats.GrpsizeExp += 10
	}
}
