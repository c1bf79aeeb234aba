package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jobboard/internal/listquery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetListFlags() {
	listKeyword, listSorts, listFilters = "", nil, nil
	listPage, listPageSize = 1, listquery.DefaultPageSize
}

func TestBuildManager(t *testing.T) {
	resetListFlags()
	t.Cleanup(resetListFlags)

	listKeyword = "golang"
	listSorts = []string{"salaryMin:desc", "title"}
	listFilters = []string{"provinceId=31"}
	listPage = 3

	m, err := buildManager(listquery.JobSchema)
	require.NoError(t, err)
	st := m.State()
	assert.Equal(t, 3, st.PageNumber)
	assert.Equal(t, "salaryMin:desc,title:asc", st.SortsParam())
	assert.Equal(t, "31", st.Filters["provinceId"])
}

func TestBuildManagerRejectsUnknownInput(t *testing.T) {
	resetListFlags()
	t.Cleanup(resetListFlags)

	listFilters = []string{"tenantId=1"}
	_, err := buildManager(listquery.JobSchema)
	assert.ErrorIs(t, err, listquery.ErrUnknownFilter)

	resetListFlags()
	listFilters = []string{"provinceId"}
	_, err = buildManager(listquery.JobSchema)
	assert.Error(t, err)

	resetListFlags()
	listPageSize = 33
	_, err = buildManager(listquery.JobSchema)
	assert.ErrorIs(t, err, listquery.ErrInvalidPageSize)
}

func TestReadDraft(t *testing.T) {
	d, err := readDraft(`{"name":"Tech","count":3}`)
	require.NoError(t, err)
	assert.Equal(t, "Tech", d.String("name"))
	assert.Equal(t, int64(3), d.Int("count"))

	path := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"From file"}`), 0o600))
	d, err = readDraft("@" + path)
	require.NoError(t, err)
	assert.Equal(t, "From file", d.String("name"))

	_, err = readDraft(`[1,2]`)
	assert.Error(t, err)
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestListCommand(t *testing.T) {
	resetListFlags()
	t.Cleanup(resetListFlags)

	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":{"items":[{"id":1,"name":"Technology"}],"totalPages":1,"numberOfElements":1}}`)
	}))
	defer srv.Close()

	out, _, err := run(t, "list", "industries", "--base-url", srv.URL+"/api", "--keyword", "tech")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "/api/industries", got.URL.Path)
	assert.Equal(t, "tech", got.URL.Query().Get("keyword"))

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "?keyword=tech", lines[0])
	assert.Contains(t, lines[2], "Technology")
	assert.Equal(t, "page 1 of 1, 1 total", lines[3])
}

func TestCreateCommandBlocksInvalidDraft(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	_, stderr, err := run(t, "create", "users", "--base-url", srv.URL+"/api",
		"--data", `{"fullName":"Ann","email":"not-an-email","password":"secret-pass","role":"seeker"}`)
	assert.ErrorIs(t, err, errFailed)
	assert.Equal(t, 0, calls)
	assert.Contains(t, stderr, "invalid email")
}
