package core

import (
	"errors"
	"fmt"
	"sort"
)

// ConflictPolicy decides what happens when a deduplicated key reappears with
// different attributes. The first occurrence is always the one emitted.
type ConflictPolicy string

const (
	ConflictIgnore ConflictPolicy = "ignore"
	ConflictWarn   ConflictPolicy = "warn"
	ConflictAbort  ConflictPolicy = "error"
)

// ParseConflictPolicy validates a policy name. Empty selects ConflictWarn.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch ConflictPolicy(s) {
	case "":
		return ConflictWarn, nil
	case ConflictIgnore, ConflictWarn, ConflictAbort:
		return ConflictPolicy(s), nil
	}
	return "", fmt.Errorf("invalid conflict policy %q (use ignore, warn or error)", s)
}

// ErrConflict is matched by every *ConflictError.
var ErrConflict = errors.New("conflicting duplicate")

// ConflictError is returned under the ConflictAbort policy.
type ConflictError struct {
	Conflict Conflict
}

func (e *ConflictError) Error() string {
	c := e.Conflict
	return fmt.Sprintf("conflicting duplicate %s %q at line %d: %s was %q, now %q",
		c.Kind, c.Key, c.Line, c.Field, c.First, c.Later)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// seen tracks emitted keys of one entity kind with their first attributes.
type seen map[string]Record

// RunState holds the deduplication sets of a single conversion run.
// It is never shared between runs.
type RunState struct {
	policy    ConflictPolicy
	sets      map[Kind]seen
	conflicts []Conflict
}

// NewRunState creates empty per-kind sets.
func NewRunState(policy ConflictPolicy) *RunState {
	if policy == "" {
		policy = ConflictWarn
	}
	return &RunState{policy: policy, sets: make(map[Kind]seen)}
}

// Observe marks key as seen for kind. It returns true on the first
// occurrence, in which case the caller emits rec. Later occurrences are
// compared against the first; mismatches are recorded and, under
// ConflictAbort policy, returned as an error.
func (s *RunState) Observe(kind Kind, key string, rec Record, line int) (bool, error) {
	set, ok := s.sets[kind]
	if !ok {
		set = make(seen)
		s.sets[kind] = set
	}

	first, ok := set[key]
	if !ok {
		set[key] = rec
		return true, nil
	}

	for _, field := range sortedAttrs(first, rec) {
		if first[field] == rec[field] {
			continue
		}
		c := Conflict{Kind: kind, Key: key, Field: field, First: first[field], Later: rec[field], Line: line}
		s.conflicts = append(s.conflicts, c)
		if s.policy == ConflictAbort {
			return false, &ConflictError{Conflict: c}
		}
	}
	return false, nil
}

// Seen reports whether key has been emitted for kind.
func (s *RunState) Seen(kind Kind, key string) bool {
	_, ok := s.sets[kind][key]
	return ok
}

// Unique returns the number of distinct keys seen for kind.
func (s *RunState) Unique(kind Kind) int {
	return len(s.sets[kind])
}

// Conflicts returns the conflicts recorded so far in row order.
func (s *RunState) Conflicts() []Conflict {
	return s.conflicts
}

func sortedAttrs(a, b Record) []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
