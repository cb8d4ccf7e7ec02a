package domain

import (
	"encoding/json"
	"sort"
	"strings"
)

// StringSet is an unordered set of strings. The configuration document writes
// these as comma-separated lists or TOML arrays; membership, not order, is
// what matters.
type StringSet map[string]struct{}

// NewStringSet builds a set from the given items, ignoring empties.
func NewStringSet(items ...string) StringSet {
	s := make(StringSet, len(items))
	for _, it := range items {
		if it != "" {
			s[it] = struct{}{}
		}
	}
	return s
}

// ParseList splits a comma-separated list into a set, trimming whitespace.
// Returns nil for an empty input so absent and present-but-empty stay
// distinguishable.
func ParseList(raw string) StringSet {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	s := make(StringSet)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			s[part] = struct{}{}
		}
	}
	if len(s) == 0 {
		return nil
	}
	return s
}

// Has reports set membership. Safe on a nil set.
func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members in lexical order.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Join renders the set as a sorted comma-separated list.
func (s StringSet) Join() string {
	return strings.Join(s.Sorted(), ",")
}

// Equal reports whether two sets hold the same members.
func (s StringSet) Equal(other StringSet) bool {
	if len(s) != len(other) {
		return false
	}
	for v := range s {
		if !other.Has(v) {
			return false
		}
	}
	return true
}

// MarshalJSON renders the set as a sorted array.
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON accepts an array of strings.
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*s = NewStringSet(items...)
	return nil
}
