package mutation

import (
	"sync"

	"jobboard/internal/apierror"

	"github.com/sirupsen/logrus"
)

// Notifier shows transient user-facing messages (toasts).
type Notifier interface {
	Success(message string)
	Error(err *apierror.DisplayError)
}

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	Logger logrus.FieldLogger
}

func (n LogNotifier) Success(message string) {
	n.logger().WithField("toast", "success").Info(message)
}

func (n LogNotifier) Error(err *apierror.DisplayError) {
	n.logger().WithFields(logrus.Fields{
		"toast":  "error",
		"kind":   err.Kind,
		"status": err.Status,
	}).Warn(err.Message)
}

func (n LogNotifier) logger() logrus.FieldLogger {
	if n.Logger == nil {
		return logrus.StandardLogger()
	}
	return n.Logger
}

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

type Notification struct {
	Kind    Kind
	Message string
}

// Recorder keeps every notification in order. Useful for views that render
// a toast queue and for tests.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
	hook  func(Notification)
}

// OnNotify registers fn to be called for every new notification.
func (r *Recorder) OnNotify(fn func(Notification)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hook = fn
}

func (r *Recorder) Success(message string) {
	r.add(Notification{Kind: KindSuccess, Message: message})
}

func (r *Recorder) Error(err *apierror.DisplayError) {
	r.add(Notification{Kind: KindError, Message: err.Message})
}

func (r *Recorder) add(n Notification) {
	r.mu.Lock()
	r.items = append(r.items, n)
	hook := r.hook
	r.mu.Unlock()
	if hook != nil {
		hook(n)
	}
}

func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}
