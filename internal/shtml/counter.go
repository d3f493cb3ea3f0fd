package shtml

// sectionCounter auto-numbers sections absent an explicit title, reproducing
// the original's AllSections nested counter (source/ftml/viewer-components/
// src/components/counters.rs): incrementing a shallower level zeroes every
// deeper one, but incrementing a deeper level never touches shallower ones.
type sectionCounter struct {
	levels []int
}

func (c *sectionCounter) increment(level int) int {
	for len(c.levels) < level {
		c.levels = append(c.levels, 0)
	}
	c.levels[level-1]++
	c.levels = c.levels[:level]
	return c.levels[level-1]
}
