package vdom

import "slices"

// diffKeyedChildren reconciles children by key.
//
// Unmatched old children are removed first. Matched children are diffed in
// place and new ones created detached. Children on a longest increasing
// subsequence of old positions stay where they are; every other child is
// inserted right before its successor, walking from the end.
func (d *Differ) diffKeyedChildren(pm *Mount, prev, next []*Node) []*Mount {
	oldIndex := make(map[string]int, len(prev))
	for i, c := range prev {
		if c.Key == "" {
			continue
		}
		if _, dup := oldIndex[c.Key]; !dup {
			oldIndex[c.Key] = i
		}
	}

	used := make([]bool, len(prev))
	matched := make([]int, len(next))
	for j, c := range next {
		matched[j] = -1
		if c.Key == "" {
			continue
		}
		if i, ok := oldIndex[c.Key]; ok && !used[i] && d.matchable(prev[i], c) {
			matched[j] = i
			used[i] = true
		}
	}

	cur := make([]ID, 0, len(prev))
	for i := range prev {
		if !used[i] {
			d.emit(Change{Op: OpRemoveChild, Parent: pm.ID, ID: pm.Children[i].ID})
			continue
		}
		cur = append(cur, pm.Children[i].ID)
	}

	mounts := make([]*Mount, len(next))
	for j, c := range next {
		if i := matched[j]; i >= 0 {
			mounts[j] = d.diff(prev[i], pm.Children[i], c, pm.ID, j)
		} else {
			mounts[j] = d.create(c)
		}
	}

	stay := longestIncreasing(matched)
	for j := len(next) - 1; j >= 0; j-- {
		if stay[j] {
			continue
		}
		id := mounts[j].ID
		if pos := slices.Index(cur, id); pos >= 0 {
			cur = slices.Delete(cur, pos, pos+1)
		}
		at := len(cur)
		if j+1 < len(next) {
			at = slices.Index(cur, mounts[j+1].ID)
		}
		cur = slices.Insert(cur, at, id)
		d.emit(Change{Op: OpInsertChild, Parent: pm.ID, ID: id, Index: at})
	}
	return mounts
}

// longestIncreasing marks the positions of seq that belong to a longest
// strictly increasing subsequence of its non-negative values.
func longestIncreasing(seq []int) []bool {
	stay := make([]bool, len(seq))
	tails := make([]int, 0, len(seq)) // positions in seq
	prevPos := make([]int, len(seq))
	for j, v := range seq {
		prevPos[j] = -1
		if v < 0 {
			continue
		}
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if seq[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			prevPos[j] = tails[lo-1]
		}
		if lo == len(tails) {
			tails = append(tails, j)
		} else {
			tails[lo] = j
		}
	}
	if len(tails) == 0 {
		return stay
	}
	for j := tails[len(tails)-1]; j >= 0; j = prevPos[j] {
		stay[j] = true
	}
	return stay
}
