package listquery

import (
	"errors"
	"fmt"
	"net/url"
	"sync"
)

var (
	ErrUnknownSortField = errors.New("unknown sort field")
	ErrUnknownFilter    = errors.New("unknown filter")
	ErrInvalidPage      = errors.New("page number must be >= 1")
	ErrInvalidPageSize  = errors.New("unsupported page size")
)

// Sink receives the encoded query string after every state change.
// It is called with the manager lock held and must not call back into it.
type Sink interface {
	Sync(query url.Values)
}

type SinkFunc func(url.Values)

func (f SinkFunc) Sync(q url.Values) { f(q) }

// Manager owns the list state of one page and mirrors it into a Sink.
type Manager struct {
	mu     sync.Mutex
	schema Schema
	state  State
	sink   Sink
}

// NewManager parses the initial state from query. sink may be nil.
func NewManager(schema Schema, query url.Values, sink Sink) *Manager {
	return &Manager{
		schema: schema,
		state:  Parse(schema, query),
		sink:   sink,
	}
}

func (m *Manager) Schema() Schema { return m.schema }

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Query returns the URL params of the current state.
func (m *Manager) Query() url.Values {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Encode(m.schema, m.state)
}

func (m *Manager) SetKeyword(keyword string) State {
	return m.apply(true, func(s *State) error {
		s.Keyword = keyword
		return nil
	})
}

// SetPage is the only update that keeps the current filters' page position.
func (m *Manager) SetPage(n int) (State, error) {
	if n < 1 {
		return m.State(), ErrInvalidPage
	}
	return m.applyErr(false, func(s *State) error {
		s.PageNumber = n
		return nil
	})
}

func (m *Manager) SetPageSize(n int) (State, error) {
	if !ValidPageSize(n) {
		return m.State(), fmt.Errorf("%w: %d", ErrInvalidPageSize, n)
	}
	return m.applyErr(true, func(s *State) error {
		s.PageSize = n
		return nil
	})
}

// SetFilter sets an entity-specific filter; an empty value removes it.
func (m *Manager) SetFilter(key, value string) (State, error) {
	if !m.schema.HasFilter(key) {
		return m.State(), fmt.Errorf("%w %q for %s", ErrUnknownFilter, key, m.schema.Entity)
	}
	return m.applyErr(true, func(s *State) error {
		if value == "" {
			delete(s.Filters, key)
		} else {
			s.Filters[key] = value
		}
		return nil
	})
}

// ToggleSort cycles field through unset -> asc -> desc -> unset when dir is
// empty, or sets dir explicitly. A field keeps its position in the list while
// present; newly added fields go last.
func (m *Manager) ToggleSort(field SortField, dir Direction) (State, error) {
	if !m.schema.HasSortField(field) {
		return m.State(), fmt.Errorf("%w %q for %s", ErrUnknownSortField, field, m.schema.Entity)
	}
	if dir != "" && !dir.Valid() {
		return m.State(), fmt.Errorf("invalid sort direction %q", dir)
	}
	return m.applyErr(true, func(s *State) error {
		s.Sorts = toggle(s.Sorts, field, dir)
		return nil
	})
}

// ClearAll resets every field to its default.
func (m *Manager) ClearAll() State {
	return m.apply(true, func(s *State) error {
		*s = Default(m.schema)
		return nil
	})
}

func (m *Manager) apply(resetPage bool, fn func(*State) error) State {
	st, _ := m.applyErr(resetPage, fn)
	return st
}

func (m *Manager) applyErr(resetPage bool, fn func(*State) error) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.state.Clone()
	if err := fn(&next); err != nil {
		return m.state.Clone(), err
	}
	if resetPage {
		next.PageNumber = 1
	}
	m.state = next
	if m.sink != nil {
		m.sink.Sync(Encode(m.schema, next))
	}
	return next.Clone(), nil
}

func toggle(sorts []Sort, field SortField, dir Direction) []Sort {
	idx := -1
	for i, s := range sorts {
		if s.Field == field {
			idx = i
			break
		}
	}

	if dir != "" {
		if idx >= 0 {
			sorts[idx].Direction = dir
			return sorts
		}
		return append(sorts, Sort{Field: field, Direction: dir})
	}

	switch {
	case idx < 0:
		return append(sorts, Sort{Field: field, Direction: Asc})
	case sorts[idx].Direction == Asc:
		sorts[idx].Direction = Desc
		return sorts
	default:
		return append(sorts[:idx], sorts[idx+1:]...)
	}
}
