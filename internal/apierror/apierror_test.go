package apierror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromResponse_FallbackChain(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
		kind   Kind
		fields map[string]string
	}{
		{"status and message", 409, `{"status":409,"message":"email already exists"}`, "email already exists", KindConflict, nil},
		{"message only", 404, `{"message":"job not found"}`, "job not found", KindNotFound, nil},
		{"error key", 400, `{"error":"payload tidak valid"}`, "payload tidak valid", KindValidation, nil},
		{"plain json string", 400, `"bad keyword"`, "bad keyword", KindValidation, nil},
		{"plain text", 400, "cv too large", "cv too large", KindValidation, nil},
		{
			"field array", 422,
			`[{"fieldName":"email","message":"email is invalid"},{"fieldName":"phone","message":"too long"}]`,
			"email is invalid", KindValidation,
			map[string]string{"email": "email is invalid", "phone": "too long"},
		},
		{"string array", 400, `["first problem","second"]`, "first problem", KindValidation, nil},
		{"empty body", 409, ``, DefaultMessages.Generic, KindConflict, nil},
		{"html body", 400, `<html>oops</html>`, DefaultMessages.Generic, KindValidation, nil},
		{"server error hides message", 500, `{"message":"sql: connection refused at 10.0.0.3"}`, DefaultMessages.Generic, KindGeneric, nil},
		{"unmapped 4xx", 418, `{"message":"teapot"}`, DefaultMessages.Generic, KindGeneric, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FromResponse(tc.status, []byte(tc.body))
			assert.Equal(t, tc.want, got.Message)
			assert.Equal(t, tc.kind, got.Kind)
			assert.Equal(t, tc.status, got.Status)
			assert.Equal(t, tc.fields, got.FieldErrors)
		})
	}
}

func TestFromResponse_ObjectFieldErrors(t *testing.T) {
	got := FromResponse(http.StatusBadRequest, []byte(`{"message":"invalid payload","fieldErrors":{"email":"must be an email"}}`))
	assert.Equal(t, "invalid payload", got.Message)
	assert.Equal(t, map[string]string{"email": "must be an email"}, got.FieldErrors)
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	de := &DisplayError{Status: 409, Kind: KindConflict, Message: "dup"}
	assert.Same(t, de, FromError(fmt.Errorf("wrapped: %w", de)))

	timeout := FromError(fmt.Errorf("get jobs: %w", context.DeadlineExceeded))
	assert.Equal(t, KindTimeout, timeout.Kind)
	assert.Equal(t, DefaultMessages.Timeout, timeout.Message)

	generic := FromError(errors.New("tls: handshake failure"))
	assert.Equal(t, DefaultMessages.Generic, generic.Message)
}

func TestParser_CustomMessages(t *testing.T) {
	p := Parser{Messages: Messages{Generic: "Terjadi kesalahan"}}
	got := p.FromResponse(503, nil)
	require.NotNil(t, got)
	assert.Equal(t, "Terjadi kesalahan", got.Message)
	assert.Equal(t, DefaultMessages.Timeout, p.FromError(context.DeadlineExceeded).Message)
}
