package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jobboard/internal/apierror"
	"jobboard/internal/dependent"
	"jobboard/internal/domain/models"
	"jobboard/internal/listquery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/api", opts...)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	_, err := New("localhost:8080")
	require.Error(t, err)
}

func TestListPage_SendsEveryParamAndDecodesEnvelope(t *testing.T) {
	var got *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":{"items":[{"id":7,"title":"Go developer"}],"totalPages":3,"numberOfElements":21}}`)
	}, WithToken("secret"))

	st := listquery.Default(listquery.JobSchema)
	st.Keyword = "go"
	st.Filters["provinceId"] = "31"

	page, err := ListPage[models.Job](context.Background(), c, listquery.JobSchema, st)
	require.NoError(t, err)

	assert.Equal(t, "/api/jobs", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "1", q.Get("pageNumber"))
	assert.Equal(t, "10", q.Get("pageSize"))
	assert.Equal(t, "go", q.Get("keyword"))
	assert.Equal(t, "createdAt:desc", q.Get("sorts"))
	assert.Equal(t, "31", q.Get("provinceId"))
	assert.Equal(t, "Bearer secret", got.Header.Get("Authorization"))

	require.Len(t, page.Items, 1)
	assert.Equal(t, "Go developer", page.Items[0].Title)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 21, page.NumberOfElements)
}

func TestCreate_SendsMultipartDataAndFiles(t *testing.T) {
	var blob map[string]any
	var fileBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("data")), &blob))
		f, _, err := r.FormFile("cv")
		require.NoError(t, err)
		b, _ := io.ReadAll(f)
		fileBody = string(b)

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"data":{"id":12,"status":"pending"}}`)
	})

	data, err := c.Create(context.Background(), listquery.Applications,
		map[string]any{"jobId": 3, "fullName": "Sari"},
		[]File{{Field: "cv", Filename: "cv.pdf", Content: strings.NewReader("%PDF-1.4")}})
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":12,"status":"pending"}`, string(data))
	assert.Equal(t, "Sari", blob["fullName"])
	assert.Equal(t, "%PDF-1.4", fileBody)
}

func TestDelete_NoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/5", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.Delete(context.Background(), listquery.Users, 5))
}

func TestErrors_BecomeDisplayErrors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		kind    apierror.Kind
		message string
	}{
		{"conflict literal", http.StatusConflict, `{"status":409,"message":"email already exists"}`, apierror.KindConflict, "email already exists"},
		{"server error hidden", http.StatusInternalServerError, `{"message":"sql: connection refused"}`, apierror.KindGeneric, apierror.DefaultMessages.Generic},
		{"field array", http.StatusBadRequest, `[{"fieldName":"email","message":"invalid email"}]`, apierror.KindValidation, "invalid email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})
			_, err := c.Create(context.Background(), listquery.Users, map[string]string{}, nil)
			var de *apierror.DisplayError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tc.kind, de.Kind)
			assert.Equal(t, tc.message, de.Message)
		})
	}
}

func TestOptions_WalksEveryPage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/districts", r.URL.Path)
		assert.Equal(t, "31", r.URL.Query().Get("provinceId"))
		assert.Equal(t, "100", r.URL.Query().Get("pageSize"))
		switch r.URL.Query().Get("pageNumber") {
		case "1":
			_, _ = io.WriteString(w, `{"data":{"items":[{"id":3171,"name":"Jakarta Selatan"}],"totalPages":2,"numberOfElements":2}}`)
		default:
			_, _ = io.WriteString(w, `{"data":{"items":[{"id":3172,"name":"Jakarta Timur"}],"totalPages":2,"numberOfElements":2}}`)
		}
	})

	opts, err := c.DistrictLoader()(context.Background(), "31")
	require.NoError(t, err)
	assert.Equal(t, []dependent.Option{
		{Value: "3171", Label: "Jakarta Selatan"},
		{Value: "3172", Label: "Jakarta Timur"},
	}, opts)
}

func TestPriorApplication(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/applications/check", r.URL.Path)
		assert.Equal(t, "4", r.URL.Query().Get("jobId"))
		assert.Equal(t, "9", r.URL.Query().Get("userId"))
		_, _ = io.WriteString(w, `{"data":{"hasPrior":true,"cvPath":"uploads/cv/9.pdf"}}`)
	})

	prior, err := c.PriorApplication(context.Background(), 4, 9)
	require.NoError(t, err)
	assert.True(t, prior.HasPrior)
	assert.Equal(t, "uploads/cv/9.pdf", prior.CVPath)
}

func TestLogin_StoresToken(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path == "/api/auth/login" {
			_, _ = io.WriteString(w, `{"data":{"token":"jwt-token"}}`)
			return
		}
		assert.Equal(t, "Bearer jwt-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	token, err := c.Login(context.Background(), "admin@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
	require.NoError(t, c.Delete(context.Background(), listquery.Industries, 1))
	assert.Equal(t, 2, calls)
}
