package util

import (
	"cmp"

	"golang.org/x/exp/slices"
)

// RemoveDuplicates keeps the first occurrence of every value, dropping zero values and anything in ignoreList
func RemoveDuplicates[T comparable](values []T, ignoreList []T) []T {
	present := make(map[T]bool)
	var list []T
	var zero T

	for _, ignore := range ignoreList {
		present[ignore] = true
	}

	for _, item := range values {
		if !present[item] && item != zero {
			present[item] = true
			list = append(list, item)
		}
	}
	return list
}

func SortedUnique[T cmp.Ordered](values []T) []T {
	unique := RemoveDuplicates(values, nil)
	slices.Sort(unique)

	return unique
}
