package stores

import "slices"

func sortStableBy[E any](items []E, cmp func(a, b E) int) {
	slices.SortStableFunc(items, cmp)
}
