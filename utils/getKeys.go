package utils

import (
	"sort"
)

// GetKeys returns the keys of m sorted ascending.
func GetKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UnionKeys collects the keys of every map into a set.
func UnionKeys[T any](maps ...map[string]T) map[string]struct{} {
	union := map[string]struct{}{}
	for _, m := range maps {
		for k := range m {
			union[k] = struct{}{}
		}
	}
	return union
}
