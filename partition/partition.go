// Package partition implements the equivalence partition of §4.2: a
// collection of disjoint, nonempty classes over a dense state index space,
// each with a designated representative (its smallest member), supporting
// O(1) "same class?" and "class of s?" queries.
package partition

import "github.com/niceyeti/zmecquotient/bitset"

// Partition assigns states in [0, n) to disjoint classes. States supplied
// in no class become singleton classes of their own when built with
// keepSingletons (the variant §4.6 always uses), so that every state is in
// exactly one class; without it they belong to no class.
type Partition struct {
	n       int
	classOf []int // classOf[s] = index into classes, or -1 if s belongs to no class
	classes []*bitset.Set
	repOf   []int // repOf[classIndex] = representative state
}

// FromSets builds a Partition over [0, n) from a list of disjoint, nonempty
// class sets. If keepSingletons is true, every state not covered by classes
// becomes its own singleton class; otherwise such states map to no class
// (ClassOf returns -1, false).
func FromSets(n int, classes []*bitset.Set, keepSingletons bool) *Partition {
	p := &Partition{
		n:       n,
		classOf: make([]int, n),
		repOf:   make([]int, 0, len(classes)),
	}
	for i := range p.classOf {
		p.classOf[i] = -1
	}

	for _, c := range classes {
		if c.IsEmpty() {
			continue
		}
		idx := len(p.classes)
		p.classes = append(p.classes, c)
		rep, _ := c.Min()
		p.repOf = append(p.repOf, rep)
		c.Each(func(s int) {
			p.classOf[s] = idx
		})
	}

	if keepSingletons {
		for s := 0; s < n; s++ {
			if p.classOf[s] != -1 {
				continue
			}
			idx := len(p.classes)
			singleton := bitset.New(n)
			singleton.Add(s)
			p.classes = append(p.classes, singleton)
			p.repOf = append(p.repOf, s)
			p.classOf[s] = idx
		}
	}

	return p
}

// NumClasses returns the number of classes (including singletons, if kept).
func (p *Partition) NumClasses() int { return len(p.classes) }

// ClassAt returns the i-th class's member set.
func (p *Partition) ClassAt(i int) *bitset.Set { return p.classes[i] }

// RepresentativeAt returns the representative (smallest member) of the i-th class.
func (p *Partition) RepresentativeAt(i int) int { return p.repOf[i] }

// ClassOf returns the class index of s, or (-1, false) if s belongs to no class.
func (p *Partition) ClassOf(s int) (int, bool) {
	idx := p.classOf[s]
	return idx, idx != -1
}

// SameClass reports whether s and t belong to the same class. Two states
// with no class both return false (they are not considered "same class").
func (p *Partition) SameClass(s, t int) bool {
	cs, ok1 := p.ClassOf(s)
	ct, ok2 := p.ClassOf(t)
	return ok1 && ok2 && cs == ct
}

// MapToRepresentative returns rep(class_of(s)), or s itself if s belongs to
// no class (the "no class" states are their own representative).
func (p *Partition) MapToRepresentative(s int) int {
	idx, ok := p.ClassOf(s)
	if !ok {
		return s
	}
	return p.repOf[idx]
}

// IsRepresentative reports whether s is the representative of its class.
func (p *Partition) IsRepresentative(s int) bool {
	return p.MapToRepresentative(s) == s
}

// NonTrivialClassCount returns the number of classes with more than one member.
func (p *Partition) NonTrivialClassCount() int {
	count := 0
	for _, c := range p.classes {
		if c.Count() > 1 {
			count++
		}
	}
	return count
}
