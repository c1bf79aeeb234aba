// Package mutation sends create/update/delete requests and keeps the list
// cache consistent with them.
package mutation

import (
	"context"
	"fmt"
	"time"

	"jobboard/internal/apierror"
	"jobboard/internal/client"
	"jobboard/internal/domain"
	"jobboard/internal/listquery"

	"github.com/sirupsen/logrus"
)

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Backend is the write side of the REST API. *client.Client implements it.
type Backend interface {
	Create(ctx context.Context, entity listquery.Entity, payload any, files []client.File) ([]byte, error)
	Update(ctx context.Context, entity listquery.Entity, id domain.ID, payload any, files []client.File) ([]byte, error)
	Delete(ctx context.Context, entity listquery.Entity, id domain.ID) error
}

// Invalidator marks an entity's cached lists stale. *query.Cache implements it.
type Invalidator interface {
	Invalidate(entity listquery.Entity)
}

// Request describes one mutation.
type Request struct {
	Entity  listquery.Entity
	Op      Op
	ID      domain.ID
	Payload any
	Files   []client.File
	// Invalidates names other entities whose lists embed this one.
	Invalidates    []listquery.Entity
	SuccessMessage string
	// AfterSuccess runs once the cache is invalidated and the success
	// notification was sent, e.g. to close the form.
	AfterSuccess func(body []byte)
}

// Outcome is never accompanied by a returned error; failures are reported
// through Error and the notifier.
type Outcome struct {
	OK    bool
	Body  []byte
	Error *apierror.DisplayError
}

type Executor struct {
	backend  Backend
	cache    Invalidator
	notifier Notifier
	parser   apierror.Parser
	logger   logrus.FieldLogger
	timeout  time.Duration
}

type Option func(*Executor)

func WithNotifier(n Notifier) Option {
	return func(e *Executor) { e.notifier = n }
}

func WithParser(p apierror.Parser) Option {
	return func(e *Executor) { e.parser = p }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Executor) { e.logger = l }
}

// WithTimeout bounds every backend call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) { e.timeout = d }
}

func NewExecutor(backend Backend, cache Invalidator, opts ...Option) *Executor {
	e := &Executor{
		backend: backend,
		cache:   cache,
		parser:  apierror.Parser{Messages: apierror.DefaultMessages},
		logger:  logrus.StandardLogger(),
		timeout: client.DefaultTimeout,
	}
	for _, o := range opts {
		o(e)
	}
	if e.notifier == nil {
		e.notifier = LogNotifier{Logger: e.logger}
	}
	return e
}

// Execute runs req. On success the affected lists are invalidated before the
// success notification and before AfterSuccess. On failure nothing is
// invalidated and AfterSuccess does not run.
func (e *Executor) Execute(ctx context.Context, req Request) (out Outcome) {
	log := e.logger.WithFields(logrus.Fields{
		"entity": req.Entity,
		"op":     req.Op,
		"id":     req.ID,
	})

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("mutation panicked")
			out = e.fail(log, fmt.Errorf("mutation panicked: %v", r))
		}
	}()

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	body, err := e.call(ctx, req)
	if err != nil {
		return e.fail(log, err)
	}

	e.invalidate(req)
	e.notifier.Success(successMessage(req))
	log.Info("mutation succeeded")

	if req.AfterSuccess != nil {
		req.AfterSuccess(body)
	}
	return Outcome{OK: true, Body: body}
}

func (e *Executor) call(ctx context.Context, req Request) ([]byte, error) {
	switch req.Op {
	case OpCreate:
		return e.backend.Create(ctx, req.Entity, req.Payload, req.Files)
	case OpUpdate:
		if req.ID <= 0 {
			return nil, fmt.Errorf("update %s: missing id", req.Entity)
		}
		return e.backend.Update(ctx, req.Entity, req.ID, req.Payload, req.Files)
	case OpDelete:
		if req.ID <= 0 {
			return nil, fmt.Errorf("delete %s: missing id", req.Entity)
		}
		return nil, e.backend.Delete(ctx, req.Entity, req.ID)
	default:
		return nil, fmt.Errorf("unsupported mutation %q", req.Op)
	}
}

func (e *Executor) invalidate(req Request) {
	if e.cache == nil {
		return
	}
	e.cache.Invalidate(req.Entity)
	for _, other := range req.Invalidates {
		if other != req.Entity {
			e.cache.Invalidate(other)
		}
	}
}

func (e *Executor) fail(log logrus.FieldLogger, err error) Outcome {
	de := e.parser.FromError(err)
	log.WithError(err).WithField("status", de.Status).Warn("mutation failed")
	e.notifier.Error(de)
	return Outcome{Error: de}
}

func successMessage(req Request) string {
	if req.SuccessMessage != "" {
		return req.SuccessMessage
	}
	noun := entityNoun(req.Entity)
	switch req.Op {
	case OpCreate:
		return noun + " created successfully"
	case OpUpdate:
		return noun + " updated successfully"
	case OpDelete:
		return noun + " deleted successfully"
	}
	return "Saved"
}

func entityNoun(e listquery.Entity) string {
	switch e {
	case listquery.Users:
		return "User"
	case listquery.Employers:
		return "Employer"
	case listquery.Jobs:
		return "Job"
	case listquery.Applications:
		return "Application"
	case listquery.Provinces:
		return "Province"
	case listquery.Districts:
		return "District"
	case listquery.Industries:
		return "Industry"
	}
	return "Record"
}
