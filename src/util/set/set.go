package set

import "sort"

type Set[T comparable] struct {
	_map map[T]struct{}
}

func New[T comparable](values ...T) Set[T] {
	s := Set[T]{map[T]struct{}{}}
	for _, v := range values {
		s.Insert(v)
	}
	return s
}

func (s *Set[T]) Insert(val T) {
	s._map[val] = struct{}{}
}

func (s *Set[T]) Delete(val T) {
	delete(s._map, val)
}

func (s Set[T]) Contains(val T) bool {
	_, contained := s._map[val]
	return contained
}

func (s Set[T]) Len() int {
	return len(s._map)
}

func (s *Set[T]) Clear() {
	s._map = map[T]struct{}{}
}

// Sorted returns the members ordered by less
func (s Set[T]) Sorted(less func(a, b T) bool) []T {
	out := make([]T, 0, len(s._map))
	for v := range s._map {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
