package lib

import (
	"bufio"
	"fmt"
	"io"
	"sort"
)

// Shatter turns the generators found on a CNF-encoded graph into
// symmetry-breaking clauses. Only the symmetries found directly are used;
// powers and products are not enumerated.
type Shatter struct {
	origVars   int
	vars       int
	clauses    int
	literals   int
	violations int
	p          []int
	supp       []int
	marks      []bool
	w          *bufio.Writer
}

// NewShatter prepares a predicate generator for the formula described by
// info, writing clauses to w.
func NewShatter(info *DimacsInfo, w io.Writer) *Shatter {
	return &Shatter{
		origVars: info.Vars,
		vars:     info.Vars,
		clauses:  info.OrigClauses,
		p:        make([]int, info.Vars+1),
		supp:     make([]int, info.Vars),
		marks:    make([]bool, info.Vars),
		w:        bufio.NewWriter(w),
	}
}

// Vars returns the variable count including selector variables added so far.
func (sh *Shatter) Vars() int { return sh.vars }

// Clauses returns the clause count including emitted predicates.
func (sh *Shatter) Clauses() int { return sh.clauses }

// Literals returns the number of literals emitted into predicates.
func (sh *Shatter) Literals() int { return sh.literals }

// Violations counts generators rejected for breaking Boolean consistency.
func (sh *Shatter) Violations() int { return sh.violations }

// Flush writes out any buffered clauses.
func (sh *Shatter) Flush() error { return sh.w.Flush() }

// name maps a literal vertex to its variable index.
func (sh *Shatter) name(k int) int {
	if k >= sh.origVars {
		return k - sh.origVars
	}
	return k
}

func (sh *Shatter) negate(k int) int {
	if k >= sh.origVars {
		return k - sh.origVars
	}
	return k + sh.origVars
}

func (sh *Shatter) clause(lits []int) {
	for _, x := range lits {
		sh.literals++
		fmt.Fprintf(sh.w, "%d ", x)
	}
	sh.w.WriteString("0\n")
	sh.clauses++
}

// Consume is the search consumer: it derives a symmetry-breaking predicate
// from each generator. Always continues the search.
func (sh *Shatter) Consume(n int, perm []int, support []int) bool {
	// a usable symmetry must map negations consistently
	for _, k := range support {
		if k >= 2*sh.origVars {
			continue
		}
		if sh.negate(perm[k]) != perm[sh.negate(k)] {
			sh.violations++
			return true
		}
	}

	// keep one positive literal per mapped variable, dropping each orbit's
	// largest variable and everything clause-side
	ns := 0
	for i := 0; i < len(support); i++ {
		if support[i] >= 2*sh.origVars {
			continue
		}
		k := sh.name(support[i])
		if sh.marks[k] {
			continue
		}
		sh.marks[k] = true

		if k == sh.name(perm[k]) {
			sh.supp[ns] = k + 1
			ns++
			continue
		}

		big := k
		for j := sh.name(perm[k]); j != k; j = sh.name(perm[j]) {
			sh.marks[j] = true
			if big < j {
				big = j
			}
		}

		if k != big {
			sh.supp[ns] = k + 1
			ns++
		}
		for j := sh.name(perm[k]); j != k; j = sh.name(perm[j]) {
			if j != big {
				sh.supp[ns] = j + 1
				ns++
			}
		}
	}

	// clause-only symmetries break nothing
	if ns == 0 {
		return true
	}
	sort.Ints(sh.supp[:ns])

	for _, k := range support {
		if k < 2*sh.origVars {
			sh.marks[sh.name(k)] = false
		}
	}

	// re-express the mapping over DIMACS literals
	for i := 0; i < ns; i++ {
		k := sh.supp[i]
		x := perm[k-1]
		if x < sh.origVars {
			sh.p[k] = x + 1
		} else {
			sh.p[k] = sh.origVars - x - 1
		}
	}

	z := sh.supp[0]

	// short-circuit simple phase shifts
	if sh.p[z] == -z {
		sh.clause([]int{-z})
		return true
	}

	sh.clause([]int{-z, sh.p[z]})

	sh.vars++
	sh.clause([]int{sh.vars})

	for i := 1; i < ns; i++ {
		x := sh.supp[i]

		if sh.p[x] == -x {
			sh.clause([]int{-sh.vars, -z, -x})
			sh.clause([]int{-sh.vars, sh.p[z], -x})
			break
		}

		sh.clause([]int{-sh.vars, -z, -x, sh.p[x]})
		sh.clause([]int{-sh.vars, -z, sh.vars + 1})
		sh.clause([]int{-sh.vars, sh.p[z], -x, sh.p[x]})
		sh.clause([]int{-sh.vars, sh.p[z], sh.vars + 1})

		sh.vars++
		z = x
	}

	return true
}
