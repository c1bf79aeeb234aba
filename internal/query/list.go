package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jobboard/internal/apierror"
	"jobboard/internal/domain"
	"jobboard/internal/listquery"

	"github.com/sirupsen/logrus"
)

const DefaultTimeout = 15 * time.Second

// Fetcher reads one page of T for a list state.
type Fetcher[T any] func(ctx context.Context, st listquery.State) (domain.PagedResult[T], error)

// Result is what a list view renders. Data stays at the last successful page
// while a newer load is in flight or after it failed.
type Result[T any] struct {
	Data      *domain.PagedResult[T]
	State     listquery.State
	IsLoading bool
	IsError   bool
	Error     *apierror.DisplayError
}

type ListOption func(*listConfig)

type listConfig struct {
	timeout time.Duration
	parser  apierror.Parser
	logger  logrus.FieldLogger
}

func WithTimeout(d time.Duration) ListOption {
	return func(c *listConfig) { c.timeout = d }
}

func WithParser(p apierror.Parser) ListOption {
	return func(c *listConfig) { c.parser = p }
}

func WithLogger(l logrus.FieldLogger) ListOption {
	return func(c *listConfig) { c.logger = l }
}

// List observes one list view. The last issued Load wins: a response that
// arrives after a newer Load was issued is dropped.
type List[T any] struct {
	cache  *Cache
	entity listquery.Entity
	fetch  Fetcher[T]
	cfg    listConfig

	mu       sync.Mutex
	seq      uint64
	current  Result[T]
	onChange func(Result[T])
}

func NewList[T any](cache *Cache, entity listquery.Entity, fetch Fetcher[T], opts ...ListOption) *List[T] {
	cfg := listConfig{
		timeout: DefaultTimeout,
		parser:  apierror.Parser{Messages: apierror.DefaultMessages},
		logger:  logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(&cfg)
	}
	return &List[T]{cache: cache, entity: entity, fetch: fetch, cfg: cfg}
}

// OnChange registers a callback for every published result. It runs with the
// list lock held and must not call back into the list.
func (l *List[T]) OnChange(fn func(Result[T])) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = fn
}

func (l *List[T]) Snapshot() Result[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Load fetches st and returns the resulting snapshot. A fresh cache entry is
// served without a request.
func (l *List[T]) Load(ctx context.Context, st listquery.State) Result[T] {
	key := st.Key(l.entity)

	l.mu.Lock()
	l.seq++
	seq := l.seq
	if v, fresh, ok := l.cache.Peek(key); ok {
		if page, ok := v.(domain.PagedResult[T]); ok {
			if fresh {
				l.current = Result[T]{Data: &page, State: st}
				l.publish()
				out := l.current
				l.mu.Unlock()
				return out
			}
			l.current.Data = &page
		}
	}
	l.current.State = st
	l.current.IsLoading = true
	l.current.IsError = false
	l.current.Error = nil
	l.publish()
	l.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, l.cfg.timeout)
	defer cancel()

	v, err := l.cache.Get(ctx, l.entity, key, func(ctx context.Context) (any, error) {
		return l.fetch(ctx, st)
	})

	l.mu.Lock()
	defer l.mu.Unlock()

	if seq != l.seq {
		l.cfg.logger.WithFields(logrus.Fields{
			"entity": l.entity,
			"key":    key,
		}).Debug("discarding superseded list response")
		return l.current
	}

	l.current.IsLoading = false
	if err != nil {
		de := l.cfg.parser.FromError(err)
		l.cfg.logger.WithFields(logrus.Fields{
			"entity": l.entity,
			"status": de.Status,
			"kind":   de.Kind,
		}).WithError(err).Warn("list fetch failed")
		l.current.IsError = true
		l.current.Error = de
		l.publish()
		return l.current
	}

	page, ok := v.(domain.PagedResult[T])
	if !ok {
		l.current.IsError = true
		l.current.Error = l.cfg.parser.FromError(fmt.Errorf("unexpected cached type %T", v))
		l.publish()
		return l.current
	}
	l.current = Result[T]{Data: &page, State: st}
	l.publish()
	return l.current
}

// Refetch reloads the current state.
func (l *List[T]) Refetch(ctx context.Context) Result[T] {
	return l.Load(ctx, l.Snapshot().State)
}

func (l *List[T]) publish() {
	if l.onChange != nil {
		l.onChange(l.current)
	}
}
