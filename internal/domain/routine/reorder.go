package routine

import "sort"

// SortItems orders items by (DayIndex, Position) in place.
func SortItems(items []Item) {
	sort.SliceStable(items, func(a, b int) bool {
		if items[a].DayIndex != items[b].DayIndex {
			return items[a].DayIndex < items[b].DayIndex
		}
		return items[a].Position < items[b].Position
	})
}

// MoveItem relocates one item to (toDay, toPos) and renumbers positions so
// they stay dense and 0-indexed within every day. Moving across days is the
// drag-between-columns gesture of the routine builder.
// PRE: items carry valid DayIndex values; itemID identifies one of them
// POST: returned slice is sorted by (DayIndex, Position) with dense positions;
// only DayIndex/Position fields differ from the input
func MoveItem(items []Item, itemID string, toDay, toPos int) ([]Item, error) {
	if toDay < 0 || toDay >= MaxDays || toPos < 0 {
		return nil, ErrInvalidTarget
	}

	moved := -1
	for i := range items {
		if items[i].ID == itemID {
			moved = i
			break
		}
	}
	if moved == -1 {
		return nil, ErrItemNotFound
	}

	out := make([]Item, len(items))
	copy(out, items)
	SortItems(out)

	// Pull the moved item out, then splice it into the target day.
	var target Item
	rest := out[:0]
	for _, it := range out {
		if it.ID == itemID {
			target = it
			continue
		}
		rest = append(rest, it)
	}

	// Renumber the remainder first so toPos indexes into the dense
	// post-removal ordering (standard drop semantics).
	renumber(rest)

	dayLen := 0
	for _, it := range rest {
		if it.DayIndex == toDay {
			dayLen++
		}
	}
	if toPos > dayLen {
		toPos = dayLen
	}

	target.DayIndex = toDay
	target.Position = toPos

	final := make([]Item, 0, len(items))
	inserted := false
	for _, it := range rest {
		if it.DayIndex == toDay && it.Position >= toPos && !inserted {
			// positions at/after the slot shift down by one
			final = append(final, target)
			inserted = true
		}
		final = append(final, it)
	}
	if !inserted {
		final = append(final, target)
	}

	renumber(final)
	return final, nil
}

// renumber rewrites positions so each day's items are 0..n-1 in order.
func renumber(items []Item) {
	SortItems(items)
	day, pos := -1, 0
	for i := range items {
		if items[i].DayIndex != day {
			day = items[i].DayIndex
			pos = 0
		}
		items[i].Position = pos
		pos++
	}
}
