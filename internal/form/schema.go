// Package form validates form drafts against declarative schemas before they
// are submitted.
package form

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Rule checks a non-empty field value. Rules never run on empty values;
// requiredness is decided by the Field.
type Rule struct {
	Msg   string
	check func(value string) bool
}

func (r Rule) ok(value string) bool { return r.check(value) }

func tagRule(tag, msg string) Rule {
	return Rule{Msg: msg, check: func(v string) bool { return validate.Var(v, tag) == nil }}
}

func Email(msg string) Rule { return tagRule("email", msg) }

func URL(msg string) Rule { return tagRule("url", msg) }

func Numeric(msg string) Rule { return tagRule("number", msg) }

// Date accepts YYYY-MM-DD.
func Date(msg string) Rule { return tagRule("datetime=2006-01-02", msg) }

func MinLen(n int, msg string) Rule { return tagRule("min="+strconv.Itoa(n), msg) }

func MaxLen(n int, msg string) Rule { return tagRule("max="+strconv.Itoa(n), msg) }

func OneOf(msg string, values ...string) Rule {
	return Rule{Msg: msg, check: func(v string) bool {
		for _, allowed := range values {
			if v == allowed {
				return true
			}
		}
		return false
	}}
}

func Regex(pattern, msg string) Rule {
	re := regexp.MustCompile(pattern)
	return Rule{Msg: msg, check: re.MatchString}
}

// Field declares one input. RequiredIf makes the field required depending on
// the rest of the draft; it is consulted only when Required is false.
type Field struct {
	Name        string
	Label       string
	Required    bool
	RequiredIf  func(Draft) bool
	RequiredMsg string
	Rules       []Rule
}

func (f Field) required(d Draft) bool {
	return f.Required || (f.RequiredIf != nil && f.RequiredIf(d))
}

func (f Field) requiredMsg() string {
	if f.RequiredMsg != "" {
		return f.RequiredMsg
	}
	label := f.Label
	if label == "" {
		label = f.Name
	}
	return fmt.Sprintf("%s is required", label)
}

// Refinement is a cross-field check reported on Field. It runs only when the
// field passed its own checks.
type Refinement struct {
	Field string
	Msg   string
	Check func(Draft) bool
}

type Schema struct {
	Fields      []Field
	Refinements []Refinement
}

// Refine returns a copy of s with an extra cross-field check.
func (s Schema) Refine(field, msg string, check func(Draft) bool) Schema {
	out := Schema{
		Fields:      s.Fields,
		Refinements: append(append([]Refinement(nil), s.Refinements...), Refinement{Field: field, Msg: msg, Check: check}),
	}
	return out
}

// Validate checks the whole draft, e.g. on a submit attempt.
func (s Schema) Validate(d Draft) ErrorSet {
	var errs ErrorSet
	for _, f := range s.Fields {
		if msg, bad := s.check(f, d); bad {
			errs.Set(f.Name, msg)
		}
	}
	return errs
}

// ValidateField checks a single field, e.g. on change or blur. Unknown
// fields always pass.
func (s Schema) ValidateField(name string, d Draft) (string, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return s.check(f, d)
		}
	}
	return "", false
}

// Dependents lists the fields whose requiredness or refinements may change
// when another field changes. Callers revalidate them on every change.
func (s Schema) Dependents() []string {
	var out []string
	seen := map[string]bool{}
	for _, f := range s.Fields {
		if f.RequiredIf != nil && !seen[f.Name] {
			seen[f.Name] = true
			out = append(out, f.Name)
		}
	}
	for _, r := range s.Refinements {
		if !seen[r.Field] {
			seen[r.Field] = true
			out = append(out, r.Field)
		}
	}
	return out
}

func (s Schema) check(f Field, d Draft) (string, bool) {
	value := d.String(f.Name)
	if value == "" {
		if f.required(d) {
			return f.requiredMsg(), true
		}
		return "", false
	}
	for _, r := range f.Rules {
		if !r.ok(value) {
			return r.Msg, true
		}
	}
	for _, r := range s.Refinements {
		if r.Field == f.Name && !r.Check(d) {
			return r.Msg, true
		}
	}
	return "", false
}
