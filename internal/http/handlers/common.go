package handlers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"jobboard/internal/domain"
	"jobboard/internal/http/middleware"
	"jobboard/internal/listquery"
	"jobboard/internal/services"
	"jobboard/internal/storage"

	"github.com/gin-gonic/gin"
)

// Options configures the handlers. It is set once by the router.
type Options struct {
	Files     storage.Store
	JWTSecret []byte
	TokenTTL  time.Duration
}

var (
	optsMu sync.RWMutex
	opts   = Options{TokenTTL: 24 * time.Hour}
)

func Configure(o Options) {
	if o.TokenTTL <= 0 {
		o.TokenTTL = 24 * time.Hour
	}
	optsMu.Lock()
	defer optsMu.Unlock()
	opts = o
}

func current() Options {
	optsMu.RLock()
	defer optsMu.RUnlock()
	return opts
}

// actor is the caller as seen by the services.
func actor(c *gin.Context) services.Actor {
	return services.Actor{UserID: middleware.UserID(c), Role: middleware.UserRole(c)}
}

func respondData(c *gin.Context, status int, v any) {
	c.JSON(status, domain.Envelope[any]{Data: v})
}

// parseID reads the :id path param and answers 400 when it is not a
// positive integer.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondDomainError(c, domain.Invalid("id", "id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func queryID(c *gin.Context, key string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Query(key)), 10, 64)
	if err != nil || id <= 0 {
		RespondDomainError(c, domain.Invalid(key, key+" must be a positive integer"))
		return 0, false
	}
	return id, true
}

func listState(c *gin.Context, schema listquery.Schema) listquery.State {
	return listquery.Parse(schema, c.Request.URL.Query())
}

// bindPayload decodes the request body into dst. Multipart requests carry
// the JSON payload in their "data" field; anything else is read as JSON.
func bindPayload[T any](c *gin.Context, dst *T) bool {
	var err error
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		raw, ok := c.GetPostForm("data")
		if !ok {
			err = errors.New("missing data field")
		} else {
			err = json.Unmarshal([]byte(raw), dst)
		}
	} else {
		err = c.ShouldBindJSON(dst)
	}
	if err != nil {
		RespondDomainError(c, domain.ValidationError{Msg: "invalid payload", Err: err})
		return false
	}
	return true
}

// formFile opens an optional uploaded file. The returned closer is never nil.
func formFile(c *gin.Context, field string) (*storage.Upload, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, noop, nil
	}
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, domain.ValidationError{Field: field, Msg: "invalid file upload", Err: err}
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, domain.Internal("failed to read upload", err)
	}
	return upload(fh, f), func() { _ = f.Close() }, nil
}

func upload(fh *multipart.FileHeader, f multipart.File) *storage.Upload {
	return &storage.Upload{Filename: fh.Filename, Size: fh.Size, Content: f}
}
