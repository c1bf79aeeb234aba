// Package apierror normalizes every backend error shape into one DisplayError
// that is safe to show to a user.
package apierror

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

type Kind string

const (
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindTimeout      Kind = "timeout"
	KindGeneric      Kind = "generic"
)

// Messages are the fallback texts used when the backend message must not or
// cannot be shown.
type Messages struct {
	Generic string
	Timeout string
	Network string
}

var DefaultMessages = Messages{
	Generic: "Something went wrong. Please try again later.",
	Timeout: "The request timed out. Please try again.",
	Network: "Unable to reach the server. Check your connection and try again.",
}

// DisplayError is the only error shape the workflow layer hands to a view.
type DisplayError struct {
	Status      int
	Kind        Kind
	Message     string
	FieldErrors map[string]string
}

func (e *DisplayError) Error() string { return e.Message }

// Parser applies the fallback chain with a configurable message catalog.
type Parser struct {
	Messages Messages
}

var std = Parser{Messages: DefaultMessages}

func FromResponse(status int, body []byte) *DisplayError { return std.FromResponse(status, body) }
func FromError(err error) *DisplayError                  { return std.FromError(err) }

const maxPlainMessage = 300

// FromResponse maps a non-2xx response. Only statuses with a known meaning
// expose the backend message; 5xx and unmapped 4xx get the generic text.
func (p Parser) FromResponse(status int, body []byte) *DisplayError {
	kind, mapped := kindFor(status)
	out := &DisplayError{Status: status, Kind: kind, Message: p.messages().Generic}
	if !mapped {
		return out
	}

	msg, fields := sniff(body)
	if len(fields) > 0 {
		out.FieldErrors = fields
	}
	if msg != "" {
		out.Message = msg
	}
	return out
}

// FromError maps transport failures. A DisplayError passes through unchanged.
func (p Parser) FromError(err error) *DisplayError {
	if err == nil {
		return nil
	}
	var de *DisplayError
	if errors.As(err, &de) {
		return de
	}
	m := p.messages()
	if errors.Is(err, context.DeadlineExceeded) {
		return &DisplayError{Kind: KindTimeout, Message: m.Timeout}
	}
	var ne net.Error
	if errors.As(err, &ne) {
		if ne.Timeout() {
			return &DisplayError{Kind: KindTimeout, Message: m.Timeout}
		}
		return &DisplayError{Kind: KindGeneric, Message: m.Network}
	}
	return &DisplayError{Kind: KindGeneric, Message: m.Generic}
}

func (p Parser) messages() Messages {
	m := p.Messages
	if m.Generic == "" {
		m.Generic = DefaultMessages.Generic
	}
	if m.Timeout == "" {
		m.Timeout = DefaultMessages.Timeout
	}
	if m.Network == "" {
		m.Network = DefaultMessages.Network
	}
	return m
}

func kindFor(status int) (Kind, bool) {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation, true
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized, true
	case http.StatusNotFound:
		return KindNotFound, true
	case http.StatusConflict:
		return KindConflict, true
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return KindTimeout, false
	default:
		return KindGeneric, false
	}
}

// sniff walks the known payload shapes in order: {status,message} or
// {message}, a bare JSON string, an array of {fieldName,message}, then a
// short plain-text body.
func sniff(body []byte) (string, map[string]string) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "", nil
	}
	if !gjson.Valid(trimmed) {
		if len(trimmed) <= maxPlainMessage && !strings.HasPrefix(trimmed, "<") {
			return trimmed, nil
		}
		return "", nil
	}

	r := gjson.Parse(trimmed)
	switch {
	case r.IsObject():
		fields := objectFields(r.Get("fieldErrors"))
		for _, key := range []string{"message", "error"} {
			if v := r.Get(key); v.Type == gjson.String && strings.TrimSpace(v.String()) != "" {
				return strings.TrimSpace(v.String()), fields
			}
		}
		return "", fields
	case r.IsArray():
		return arrayMessage(r.Array())
	case r.Type == gjson.String:
		return strings.TrimSpace(r.String()), nil
	}
	return "", nil
}

func arrayMessage(items []gjson.Result) (string, map[string]string) {
	if len(items) == 0 {
		return "", nil
	}
	fields := map[string]string{}
	for _, it := range items {
		if !it.IsObject() {
			continue
		}
		name := it.Get("fieldName").String()
		msg := it.Get("message").String()
		if name != "" && msg != "" {
			if _, dup := fields[name]; !dup {
				fields[name] = msg
			}
		}
	}
	if len(fields) == 0 {
		fields = nil
	}

	first := items[0]
	switch {
	case first.IsObject():
		return strings.TrimSpace(first.Get("message").String()), fields
	case first.Type == gjson.String:
		return strings.TrimSpace(first.String()), fields
	}
	return "", fields
}

func objectFields(r gjson.Result) map[string]string {
	if !r.IsObject() {
		return nil
	}
	out := map[string]string{}
	r.ForEach(func(k, v gjson.Result) bool {
		if v.Type == gjson.String {
			out[k.String()] = v.String()
		}
		return true
	})
	if len(out) == 0 {
		return nil
	}
	return out
}
