package metalava

import (
	"maps"
	"slices"
)

// StringSet is an unordered set of strings. Values returns the members
// sorted so output stays deterministic.
type StringSet struct {
	items map[string]struct{}
}

// NewStringSet builds a set holding items.
func NewStringSet(items ...string) *StringSet {
	set := &StringSet{items: make(map[string]struct{}, len(items))}
	set.Add(items...)
	return set
}

// Add inserts items, ignoring duplicates, and returns how many were new.
func (s *StringSet) Add(items ...string) int {
	if s.items == nil {
		s.items = make(map[string]struct{}, len(items))
	}
	added := 0
	for _, item := range items {
		if _, ok := s.items[item]; ok {
			continue
		}
		s.items[item] = struct{}{}
		added++
	}
	return added
}

// Contains reports membership.
func (s *StringSet) Contains(item string) bool {
	if s == nil {
		return false
	}
	_, ok := s.items[item]
	return ok
}

// Len returns the set cardinality.
func (s *StringSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Values returns the members sorted.
func (s *StringSet) Values() []string {
	if s == nil || len(s.items) == 0 {
		return []string{}
	}
	return slices.Sorted(maps.Keys(s.items))
}

// Clone returns a detached copy.
func (s *StringSet) Clone() *StringSet {
	if s == nil {
		return NewStringSet()
	}
	return &StringSet{items: maps.Clone(s.items)}
}
