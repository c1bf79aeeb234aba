package listquery

import (
	"maps"
	"slices"
	"strings"
)

// State is the keyword, pagination, sort and filter state of one list view.
type State struct {
	PageNumber int
	PageSize   int
	Keyword    string
	Sorts      []Sort
	Filters    map[string]string
}

// Default returns the documented default state for schema.
func Default(schema Schema) State {
	return State{
		PageNumber: 1,
		PageSize:   DefaultPageSize,
		Sorts:      slices.Clone(schema.DefaultSorts),
		Filters:    map[string]string{},
	}
}

func (s State) Clone() State {
	out := s
	out.Sorts = slices.Clone(s.Sorts)
	out.Filters = maps.Clone(s.Filters)
	if out.Filters == nil {
		out.Filters = map[string]string{}
	}
	return out
}

// Equal treats nil and empty sort lists and filter maps as equal.
func (s State) Equal(o State) bool {
	if s.PageNumber != o.PageNumber || s.PageSize != o.PageSize || s.Keyword != o.Keyword {
		return false
	}
	if !sortsEqual(s.Sorts, o.Sorts) {
		return false
	}
	if len(s.Filters) != len(o.Filters) {
		return false
	}
	for k, v := range s.Filters {
		if ov, ok := o.Filters[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Offset is the zero-based row offset of the current page.
func (s State) Offset() int {
	if s.PageNumber < 1 {
		return 0
	}
	return (s.PageNumber - 1) * s.PageSize
}

// SortsParam formats the sort list as "field:dir,field:dir".
func (s State) SortsParam() string {
	return formatSorts(s.Sorts)
}

// Key is the canonical cache key of this state for entity. Every field is
// included so two states share a key only when they are equal.
func (s State) Key(entity Entity) string {
	v := encodeScalars(s)
	v.Set(paramSorts, formatSorts(s.Sorts))
	for k, val := range s.Filters {
		if val != "" {
			v.Set(k, val)
		}
	}
	return string(entity) + "?" + v.Encode()
}

func sortsEqual(a, b []Sort) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func formatSorts(sorts []Sort) string {
	parts := make([]string, 0, len(sorts))
	for _, s := range sorts {
		parts = append(parts, string(s.Field)+":"+string(s.Direction))
	}
	return strings.Join(parts, ",")
}

// ParseSorts reads "field:dir,field:dir". Unknown fields, bad directions and
// repeated fields are dropped; a bare field sorts ascending.
func ParseSorts(schema Schema, raw string) []Sort {
	out := []Sort{}
	seen := map[SortField]bool{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, dir, found := strings.Cut(part, ":")
		field := SortField(strings.TrimSpace(name))
		d := Asc
		if found {
			d = Direction(strings.ToLower(strings.TrimSpace(dir)))
		}
		if !schema.HasSortField(field) || !d.Valid() || seen[field] {
			continue
		}
		seen[field] = true
		out = append(out, Sort{Field: field, Direction: d})
	}
	return out
}
