package testutils

import (
	"slices"
)

// Map applies f to every element.
func Map[T, U any](items []T, f func(T) U) []U {
	ret := make([]U, len(items))
	for i, item := range items {
		ret[i] = f(item)
	}
	return ret
}

// Filter keeps the elements satisfying keep, in order.
func Filter[T any](items []T, keep func(T) bool) []T {
	ret := []T{}
	for _, item := range items {
		if keep(item) {
			ret = append(ret, item)
		}
	}
	return ret
}

// SortedKeys returns the keys of items in ascending order.
func SortedKeys[T any](items []T, key func(T) int) []int {
	ret := Map(items, key)
	slices.Sort(ret)
	return ret
}

// GroupSizes returns the number of items per key.
func GroupSizes[T any, K comparable](items []T, key func(T) K) map[K]int {
	ret := map[K]int{}
	for _, item := range items {
		ret[key(item)]++
	}
	return ret
}

// Window returns items[skip:skip+take] clamped to the slice bounds.
func Window[T any](items []T, skip, take int) []T {
	skip, take = max(skip, 0), max(take, 0)
	lo, hi := min(skip, len(items)), min(skip+take, len(items))
	return slices.Clone(items[lo:hi])
}

// Unique returns the distinct elements in order of first appearance.
func Unique[T comparable](items []T) []T {
	seen := map[T]bool{}
	ret := []T{}
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			ret = append(ret, item)
		}
	}
	return ret
}
