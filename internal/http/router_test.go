package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"regexp"
	"testing"
	"time"

	intconfig "jobboard/internal/config"
	"jobboard/internal/http/middleware"
	"jobboard/internal/metrics"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type errorBody struct {
	Status      int               `json:"status"`
	Message     string            `json:"message"`
	Code        string            `json:"code"`
	RequestID   string            `json:"request_id"`
	FieldErrors map[string]string `json:"fieldErrors"`
}

func newTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, *metrics.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	prev := intconfig.DB
	intconfig.DB = db
	t.Cleanup(func() {
		intconfig.DB = prev
		db.Close()
	})

	reg := metrics.New()
	env := intconfig.Env{JWTSecret: testSecret}
	return NewRouter(env, nil, reg), mock, reg
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	return bearerFor(t, 1, role)
}

func bearerFor(t *testing.T, userID int64, role string) string {
	t.Helper()
	token, err := middleware.IssueToken([]byte(testSecret), userID, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

var applicationColumns = []string{"id", "job_id", "user_id", "full_name", "email", "phone", "cover_letter",
	"cv_path", "cv_link", "status", "created_at", "updated_at"}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestHealthSetsRequestID(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := do(r, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	rec = do(r, req)
	assert.Equal(t, "abc-123", rec.Header().Get(middleware.RequestIDHeader))
}

func TestUnknownRoute(t *testing.T) {
	r, _, _ := newTestRouter(t)
	rec := do(r, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "route not found", decodeError(t, rec).Message)
}

func TestListJobsEnvelope(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM jobs WHERE (title LIKE ? OR description LIKE ?) AND province_id = ?")).
		WithArgs("%go%", "%go%", "31").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY title ASC, id DESC LIMIT ? OFFSET ?")).
		WithArgs("%go%", "%go%", "31", 10, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "employer_id", "title", "description", "job_type", "salary_min",
			"salary_max", "province_id", "district_id", "industry_id", "deadline", "status", "created_at", "updated_at"}).
			AddRow(7, 3, "Go developer", "APIs", "full_time", 0, 0, 31, 3171, 2, "", "open", now, now))

	rec := do(r, httptest.NewRequest(http.MethodGet, "/api/jobs?pageNumber=3&keyword=go&provinceId=31&sorts=title:asc", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data struct {
			Items []struct {
				ID    int64  `json:"id"`
				Title string `json:"title"`
			} `json:"items"`
			TotalPages       int `json:"totalPages"`
			NumberOfElements int `json:"numberOfElements"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Data.TotalPages)
	assert.Equal(t, 21, body.Data.NumberOfElements)
	require.Len(t, body.Data.Items, 1)
	assert.Equal(t, "Go developer", body.Data.Items[0].Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidID(t *testing.T) {
	r, _, _ := newTestRouter(t)
	rec := do(r, httptest.NewRequest(http.MethodGet, "/api/jobs/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", decodeError(t, rec).Code)
}

func TestUsersRequireAdmin(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := do(r, httptest.NewRequest(http.MethodGet, "/api/users", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", bearer(t, "seeker"))
	rec = do(r, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = do(r, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid token", decodeError(t, rec).Message)
}

func TestCreateUserConflictIsLiteral(t *testing.T) {
	r, mock, _ := newTestRouter(t)
	mock.ExpectExec("INSERT INTO users").WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	payload := `{"fullName":"Ann","email":"ann@example.com","password":"secret-pass","role":"seeker"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, "admin"))
	rec := do(r, req)

	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	body := decodeError(t, rec)
	assert.Equal(t, "email already exists", body.Message)
	assert.Equal(t, http.StatusConflict, body.Status)
	assert.NotEmpty(t, body.RequestID)
}

func TestCreateUserValidationFields(t *testing.T) {
	r, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBufferString(`{"fullName":"","email":"x","role":"seeker","password":"secret-pass"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, "admin"))
	rec := do(r, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "fullName is required", body.FieldErrors["fullName"])
	assert.Equal(t, "email must be a valid email", body.FieldErrors["email"])
}

func TestFirstApplicationWithoutFile(t *testing.T) {
	r, mock, _ := newTestRouter(t)
	now := time.Now()
	mock.ExpectQuery("FROM jobs WHERE id = \\?").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "employer_id", "title", "description", "job_type", "salary_min",
			"salary_max", "province_id", "district_id", "industry_id", "deadline", "status", "created_at", "updated_at"}).
			AddRow(7, 3, "Go developer", "APIs", "full_time", 0, 0, 31, 3171, 2, "", "open", now, now))
	mock.ExpectQuery("FROM applications\\s+WHERE user_id = \\?").WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="data"`)
	h.Set("Content-Type", "application/json")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write([]byte(`{"jobId":7,"userId":99,"fullName":"Ann","email":"ann@example.com"}`))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/applications", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", bearerFor(t, 5, "seeker"))
	rec := do(r, req)

	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	body := decodeError(t, rec)
	assert.Equal(t, "first application requires file upload", body.Message)
	assert.Equal(t, "first application requires file upload", body.FieldErrors["cv"])
}

func TestApplicationsRequireLogin(t *testing.T) {
	r, _, _ := newTestRouter(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/applications"},
		{http.MethodGet, "/api/applications/41"},
		{http.MethodGet, "/api/applications/41/receipt"},
		{http.MethodPost, "/api/applications"},
		{http.MethodPut, "/api/applications/41"},
		{http.MethodDelete, "/api/applications/41"},
	} {
		rec := do(r, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestSeekerCannotChangeApplications(t *testing.T) {
	r, _, _ := newTestRouter(t)

	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/applications/41", bytes.NewBufferString(`{"status":"accepted"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", bearerFor(t, 5, "seeker"))
		rec := do(r, req)
		assert.Equal(t, http.StatusForbidden, rec.Code, method)
	}
}

func TestSeekerReadsOnlyOwnApplications(t *testing.T) {
	r, mock, _ := newTestRouter(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM applications WHERE user_id = ?")).WithArgs("5").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	req := httptest.NewRequest(http.MethodGet, "/api/applications?userId=6", nil)
	req.Header.Set("Authorization", bearerFor(t, 5, "seeker"))
	rec := do(r, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	mock.ExpectQuery("FROM applications WHERE id = \\?").WithArgs(int64(41)).
		WillReturnRows(sqlmock.NewRows(applicationColumns).
			AddRow(41, 7, 6, "Dewi", "dewi@example.com", "", "", "cv/d.pdf", "", "pending", now, now))
	req = httptest.NewRequest(http.MethodGet, "/api/applications/41/receipt", nil)
	req.Header.Set("Authorization", bearerFor(t, 5, "seeker"))
	rec = do(r, req)
	require.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "dewi@example.com")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployerCannotDeleteOtherCompanyJob(t *testing.T) {
	r, mock, _ := newTestRouter(t)
	now := time.Now()
	mock.ExpectQuery("FROM jobs WHERE id = \\?").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "employer_id", "title", "description", "job_type", "salary_min",
			"salary_max", "province_id", "district_id", "industry_id", "deadline", "status", "created_at", "updated_at"}).
			AddRow(7, 3, "Go developer", "APIs", "full_time", 0, 0, 31, 3171, 2, "", "open", now, now))
	mock.ExpectQuery("FROM users WHERE id = \\?").WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "email", "phone", "role", "status", "password_hash", "created_at", "updated_at"}).
			AddRow(8, "Budi", "hr@other.example.com", "", "employer", "active", "x", now, now))
	mock.ExpectQuery("FROM employers WHERE id = \\?").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "website", "address", "description",
			"province_id", "district_id", "industry_id", "logo_path", "created_at", "updated_at"}).
			AddRow(3, "PT Maju", "hr@maju.example.com", "", "", "", "", 31, 3171, 2, "", now, now))

	req := httptest.NewRequest(http.MethodDelete, "/api/jobs/7", nil)
	req.Header.Set("Authorization", bearerFor(t, 8, "employer"))
	rec := do(r, req)
	require.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
	assert.Equal(t, "you can only manage jobs of your own company", decodeError(t, rec).Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginIssuesToken(t *testing.T) {
	r, mock, _ := newTestRouter(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now()
	mock.ExpectQuery("FROM users WHERE email = \\?").WithArgs("admin@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "email", "phone", "role", "status", "password_hash", "created_at", "updated_at"}).
			AddRow(1, "Admin", "admin@example.com", "", "admin", "active", string(hash), now, now))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{"email":"admin@example.com","password":"password123"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := do(r, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data struct {
			Token string `json:"token"`
			User  struct {
				Role string `json:"role"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "admin", body.Data.User.Role)
	assert.NotContains(t, rec.Body.String(), "password")

	// the issued token passes the admin gate
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	req = httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+body.Data.Token)
	rec = do(r, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestInternalErrorsAreGeneric(t *testing.T) {
	r, mock, _ := newTestRouter(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM provinces")).
		WillReturnError(assert.AnError)

	rec := do(r, httptest.NewRequest(http.MethodGet, "/api/provinces", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "internal_error", body.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestMetricsEndpoint(t *testing.T) {
	r, _, _ := newTestRouter(t)
	do(r, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	rec := do(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `jobboard_http_requests_total{method="GET",route="/api/health",status="200"} 1`)
}
