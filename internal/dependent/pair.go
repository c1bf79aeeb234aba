// Package dependent resolves cascading selects: the option set of a child
// field is loaded from the current value of its parent.
package dependent

import (
	"context"
	"errors"
	"sync"

	"jobboard/internal/apierror"

	"github.com/sirupsen/logrus"
)

type Status int

const (
	Unresolved Status = iota
	Resolving
	Resolved
)

func (s Status) String() string {
	switch s {
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	default:
		return "unresolved"
	}
}

var (
	ErrDisabled      = errors.New("child field is disabled until its parent is resolved")
	ErrUnknownOption = errors.New("value is not one of the loaded options")
)

// Option is one selectable value of a child field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Loader fetches the child options for a parent value.
type Loader func(ctx context.Context, parent string) ([]Option, error)

// Snapshot is what a form renders for one pair.
type Snapshot struct {
	Scope    string
	Parent   string
	Child    string
	Options  []Option
	Status   Status
	Disabled bool
	Error    *apierror.DisplayError
}

type PairOption func(*Pair)

func WithLogger(l logrus.FieldLogger) PairOption {
	return func(p *Pair) { p.logger = l }
}

func WithParser(parser apierror.Parser) PairOption {
	return func(p *Pair) { p.parser = parser }
}

// Pair is one parent -> child state machine. Pairs never share state with
// each other; they only share an OptionCache slot when their scope matches.
type Pair struct {
	scope  string
	load   Loader
	cache  *OptionCache
	logger logrus.FieldLogger
	parser apierror.Parser

	mu       sync.Mutex
	gen      uint64
	parent   string
	child    string
	options  []Option
	status   Status
	err      *apierror.DisplayError
	onChange func(Snapshot)
}

// NewPair creates an unresolved pair. A nil cache gives the pair a private one.
func NewPair(scope string, load Loader, cache *OptionCache, opts ...PairOption) *Pair {
	if cache == nil {
		cache = NewOptionCache()
	}
	p := &Pair{
		scope:  scope,
		load:   load,
		cache:  cache,
		logger: logrus.StandardLogger(),
		parser: apierror.Parser{Messages: apierror.DefaultMessages},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// OnChange registers a callback for every state change. It runs with the pair
// lock held and must not call back into the pair.
func (p *Pair) OnChange(fn func(Snapshot)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = fn
}

func (p *Pair) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot()
}

// SetParent changes the parent value. The child selection is cleared before
// any option load starts; an empty parent leaves the pair unresolved.
func (p *Pair) SetParent(ctx context.Context, value string) Snapshot {
	p.mu.Lock()
	if value == p.parent && p.err == nil && (value == "" || p.status != Unresolved) {
		out := p.snapshot()
		p.mu.Unlock()
		return out
	}
	return p.resolve(ctx, value)
}

// Retry reloads the options after a failed load.
func (p *Pair) Retry(ctx context.Context) Snapshot {
	p.mu.Lock()
	if p.parent == "" || p.err == nil {
		out := p.snapshot()
		p.mu.Unlock()
		return out
	}
	return p.resolve(ctx, p.parent)
}

// Select sets the child value. An empty value clears it.
func (p *Pair) Select(value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if value == "" {
		if p.child != "" {
			p.child = ""
			p.publish()
		}
		return nil
	}
	if p.status != Resolved {
		return ErrDisabled
	}
	for _, o := range p.options {
		if o.Value == value {
			p.child = value
			p.publish()
			return nil
		}
	}
	return ErrUnknownOption
}

// resolve is entered with p.mu held and releases it.
func (p *Pair) resolve(ctx context.Context, value string) Snapshot {
	p.gen++
	gen := p.gen
	p.parent = value
	p.child = ""
	p.options = nil
	p.err = nil

	if value == "" {
		p.status = Unresolved
		p.publish()
		out := p.snapshot()
		p.mu.Unlock()
		return out
	}
	if opts, ok := p.cache.Get(p.scope, value); ok {
		p.options = opts
		p.status = Resolved
		p.publish()
		out := p.snapshot()
		p.mu.Unlock()
		return out
	}

	p.status = Resolving
	p.publish()
	p.mu.Unlock()

	opts, err := p.load(ctx, value)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		p.logger.WithFields(logrus.Fields{
			"scope":  p.scope,
			"parent": value,
		}).Debug("discarding options for superseded parent value")
		return p.snapshot()
	}
	if err != nil {
		p.logger.WithFields(logrus.Fields{
			"scope":  p.scope,
			"parent": value,
		}).WithError(err).Warn("dependent options load failed")
		p.status = Unresolved
		p.err = p.parser.FromError(err)
		p.publish()
		return p.snapshot()
	}

	if opts == nil {
		opts = []Option{}
	}
	p.cache.Put(p.scope, value, opts)
	p.options = cloneOptions(opts)
	p.status = Resolved
	p.publish()
	return p.snapshot()
}

func (p *Pair) snapshot() Snapshot {
	return Snapshot{
		Scope:    p.scope,
		Parent:   p.parent,
		Child:    p.child,
		Options:  cloneOptions(p.options),
		Status:   p.status,
		Disabled: p.status != Resolved,
		Error:    p.err,
	}
}

func (p *Pair) publish() {
	if p.onChange != nil {
		p.onChange(p.snapshot())
	}
}

func cloneOptions(in []Option) []Option {
	if in == nil {
		return nil
	}
	return append([]Option(nil), in...)
}
