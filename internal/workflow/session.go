// Package workflow ties a form draft to validation and the mutation executor:
// validate, submit, invalidate, close.
package workflow

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"jobboard/internal/apierror"
	"jobboard/internal/client"
	"jobboard/internal/domain"
	"jobboard/internal/form"
	"jobboard/internal/listquery"
	"jobboard/internal/mutation"
)

var (
	ErrClosed = errors.New("form is closed")
	ErrBusy   = errors.New("submission already in flight")
)

// Spec configures one create/edit form.
type Spec struct {
	Entity      listquery.Entity
	Op          mutation.Op
	ID          domain.ID
	Schema      form.Schema
	Initial     form.Draft
	Invalidates []listquery.Entity
	// Internal keys take part in validation but are never sent.
	Internal []string
	// Build overrides how the request payload is derived from the draft.
	Build   func(d form.Draft, files []client.File) (any, []client.File)
	OnClose func(body []byte)
}

type attachment struct {
	filename string
	content  []byte
}

// Result of one Submit call. Blocked means validation stopped the submission
// before any request was made.
type Result struct {
	Blocked bool
	Errors  form.ErrorSet
	Outcome mutation.Outcome
}

// Session owns the draft of one open form. The draft is discarded on Cancel
// or after a successful submission; a failed submission keeps it intact.
type Session struct {
	spec     Spec
	exec     *mutation.Executor
	notifier mutation.Notifier

	mu         sync.Mutex
	draft      form.Draft
	files      map[string]attachment
	errs       form.ErrorSet
	open       bool
	submitting bool
}

func NewSession(exec *mutation.Executor, notifier mutation.Notifier, spec Spec) *Session {
	if notifier == nil {
		notifier = mutation.LogNotifier{}
	}
	return &Session{
		spec:     spec,
		exec:     exec,
		notifier: notifier,
		draft:    spec.Initial.Clone(),
		files:    map[string]attachment{},
		open:     true,
	}
}

func (s *Session) Open() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *Session) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

func (s *Session) Draft() form.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

func (s *Session) Errors() form.ErrorSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs.Clone()
}

// Set updates one field and revalidates it. Fields whose requiredness depends
// on other values lose a stale error once they pass.
func (s *Session) Set(field string, value any) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return "", false
	}
	s.draft[field] = value
	return s.revalidate(field)
}

// Attach sets a file field. The content is kept so a failed submission can be
// retried without re-reading the file.
func (s *Session) Attach(field, filename string, content []byte) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return "", false
	}
	if filename == "" {
		delete(s.files, field)
		delete(s.draft, field)
	} else {
		s.files[field] = attachment{filename: filename, content: append([]byte(nil), content...)}
		s.draft[field] = filename
	}
	return s.revalidate(field)
}

// Cancel discards the draft without submitting.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discard()
}

// Submit validates the whole draft and, if it passes, runs the mutation. The
// first failing field is also raised as an error notification.
func (s *Session) Submit(ctx context.Context) (Result, error) {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return Result{}, ErrClosed
	}
	if s.submitting {
		s.mu.Unlock()
		return Result{}, ErrBusy
	}

	s.errs = s.spec.Schema.Validate(s.draft)
	if !s.errs.Empty() {
		errs := s.errs.Clone()
		s.mu.Unlock()
		_, msg, _ := errs.First()
		s.notifier.Error(&apierror.DisplayError{
			Kind:        apierror.KindValidation,
			Message:     msg,
			FieldErrors: errs.Map(),
		})
		return Result{Blocked: true, Errors: errs}, nil
	}

	req := s.request()
	s.submitting = true
	s.mu.Unlock()

	req.AfterSuccess = func(body []byte) {
		s.mu.Lock()
		s.discard()
		s.mu.Unlock()
		if s.spec.OnClose != nil {
			s.spec.OnClose(body)
		}
	}
	out := s.exec.Execute(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if !out.OK && out.Error != nil {
		for field, msg := range out.Error.FieldErrors {
			s.errs.Set(field, msg)
		}
	}
	return Result{Outcome: out, Errors: s.errs.Clone()}, nil
}

func (s *Session) request() mutation.Request {
	files := make([]client.File, 0, len(s.files))
	for field, a := range s.files {
		files = append(files, client.File{Field: field, Filename: a.filename, Content: bytes.NewReader(a.content)})
	}

	var payload any
	if s.spec.Build != nil {
		payload, files = s.spec.Build(s.draft.Clone(), files)
	} else {
		body := s.draft.Clone()
		for _, k := range s.spec.Internal {
			delete(body, k)
		}
		for field := range s.files {
			delete(body, field)
		}
		payload = map[string]any(body)
	}

	return mutation.Request{
		Entity:      s.spec.Entity,
		Op:          s.spec.Op,
		ID:          s.spec.ID,
		Payload:     payload,
		Files:       files,
		Invalidates: s.spec.Invalidates,
	}
}

func (s *Session) revalidate(field string) (string, bool) {
	msg, bad := s.spec.Schema.ValidateField(field, s.draft)
	if bad {
		s.errs.Set(field, msg)
	} else {
		s.errs.Clear(field)
	}
	for _, dep := range s.spec.Schema.Dependents() {
		if dep == field {
			continue
		}
		if _, shown := s.errs.Get(dep); !shown {
			continue
		}
		if _, stillBad := s.spec.Schema.ValidateField(dep, s.draft); !stillBad {
			s.errs.Clear(dep)
		}
	}
	return msg, bad
}

func (s *Session) discard() {
	s.open = false
	s.draft = form.Draft{}
	s.files = map[string]attachment{}
	s.errs = form.ErrorSet{}
}
