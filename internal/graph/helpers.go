package graph

import "sort"

// sortedKeys orders a property map's names so bulk merges assign values in
// a deterministic order regardless of map iteration.
func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
