package atlaspack

import "sort"

// Named sort orders over packable items, in the manner of sort.Interface.
// Every order finishes with an ascending-name tiebreak so re-sorting a
// sorted slice is a no-op and packing stays deterministic.

type byArea []PackableItem

func (s byArea) Len() int      { return len(s) }
func (s byArea) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

func (s byArea) Less(i, j int) bool {
	a, b := s[i].Sprite(), s[j].Sprite()
	if aa, ba := a.Size.Area(), b.Size.Area(); aa != ba {
		return aa > ba
	}
	return a.Name < b.Name
}

type byMaxSide []PackableItem

func (s byMaxSide) Len() int      { return len(s) }
func (s byMaxSide) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

func (s byMaxSide) Less(i, j int) bool {
	a, b := s[i].Sprite(), s[j].Sprite()
	if am, bm := a.Size.MaxSide(), b.Size.MaxSide(); am != bm {
		return am > bm
	}
	return a.Name < b.Name
}

type byName []PackableItem

func (s byName) Len() int      { return len(s) }
func (s byName) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

func (s byName) Less(i, j int) bool {
	return s[i].Sprite().Name < s[j].Sprite().Name
}

func sortItems(items []PackableItem, key SortKey) {
	switch key {
	case SortMaxSide:
		sort.Stable(byMaxSide(items))
	case SortName:
		sort.Stable(byName(items))
	default:
		sort.Stable(byArea(items))
	}
}
