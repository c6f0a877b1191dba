package utils

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// Permutations returns every ordering of items. Orderings are produced in
// lexicographic order of the input positions, so sorted input yields sorted
// output.
func Permutations[T any](items []T) [][]T {
	if len(items) == 0 {
		return nil
	}
	var out [][]T
	used := make([]bool, len(items))
	current := make([]T, 0, len(items))
	var build func()
	build = func() {
		if len(current) == len(items) {
			out = append(out, append([]T(nil), current...))
			return
		}
		for i, item := range items {
			if used[i] {
				continue
			}
			used[i] = true
			current = append(current, item)
			build()
			current = current[:len(current)-1]
			used[i] = false
		}
	}
	build()
	return out
}
