package form

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
)

// Draft holds the unsaved values of one open form.
type Draft map[string]any

func (d Draft) Clone() Draft {
	out := maps.Clone(d)
	if out == nil {
		out = Draft{}
	}
	return out
}

// String renders the value of name as trimmed text. Missing and nil values
// are empty.
func (d Draft) String(name string) string {
	switch v := d[name].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func (d Draft) Bool(name string) bool {
	switch v := d[name].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	}
	return false
}

// Int returns the value of name as an integer, or 0 when it is not one.
func (d Draft) Int(name string) int64 {
	switch v := d[name].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	}
	n, _ := strconv.ParseInt(d.String(name), 10, 64)
	return n
}

func (d Draft) Present(name string) bool {
	return d.String(name) != ""
}
