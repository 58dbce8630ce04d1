package cache

import "slices"

// InvalidationSet lists the exact keys and glob patterns one mutation must purge.
type InvalidationSet struct {
	Keys     []string
	Patterns []string
}

// Empty reports whether the set purges nothing.
func (s InvalidationSet) Empty() bool {
	return len(s.Keys) == 0 && len(s.Patterns) == 0
}

// Merge returns the union of s and other, preserving order and dropping duplicates.
func (s InvalidationSet) Merge(other InvalidationSet) InvalidationSet {
	return InvalidationSet{
		Keys:     appendUnique(slices.Clone(s.Keys), other.Keys...),
		Patterns: appendUnique(slices.Clone(s.Patterns), other.Patterns...),
	}
}

func appendUnique(dst []string, src ...string) []string {
	for _, v := range src {
		if !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}
