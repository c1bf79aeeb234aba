package form

// ErrorSet maps field paths to messages and remembers the order in which the
// schema reported them.
type ErrorSet struct {
	order []string
	msgs  map[string]string
}

func (e *ErrorSet) Set(field, msg string) {
	if e.msgs == nil {
		e.msgs = map[string]string{}
	}
	if _, ok := e.msgs[field]; !ok {
		e.order = append(e.order, field)
	}
	e.msgs[field] = msg
}

func (e *ErrorSet) Clear(field string) {
	if _, ok := e.msgs[field]; !ok {
		return
	}
	delete(e.msgs, field)
	for i, f := range e.order {
		if f == field {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

func (e ErrorSet) Get(field string) (string, bool) {
	msg, ok := e.msgs[field]
	return msg, ok
}

func (e ErrorSet) Empty() bool { return len(e.order) == 0 }

func (e ErrorSet) Len() int { return len(e.order) }

// First returns the first failing field in schema order.
func (e ErrorSet) First() (field, msg string, ok bool) {
	if len(e.order) == 0 {
		return "", "", false
	}
	return e.order[0], e.msgs[e.order[0]], true
}

func (e ErrorSet) Fields() []string {
	return append([]string(nil), e.order...)
}

// Map returns a copy of the messages keyed by field.
func (e ErrorSet) Map() map[string]string {
	out := make(map[string]string, len(e.msgs))
	for k, v := range e.msgs {
		out[k] = v
	}
	return out
}

func (e ErrorSet) Clone() ErrorSet {
	if e.msgs == nil {
		return ErrorSet{}
	}
	return ErrorSet{order: e.Fields(), msgs: e.Map()}
}
