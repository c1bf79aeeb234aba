// Package client is a typed HTTP client for the job board REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"jobboard/internal/apierror"
	"jobboard/internal/domain"
	"jobboard/internal/listquery"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	DefaultTimeout = 15 * time.Second
	maxErrorBody   = 64 << 10
)

// File is one multipart file field of a create/update request.
type File struct {
	Field    string
	Filename string
	Content  io.Reader
}

type Client struct {
	base   *url.URL
	http   *http.Client
	token  string
	parser apierror.Parser
	logger logrus.FieldLogger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithToken sends a bearer token on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithParser(p apierror.Parser) Option {
	return func(c *Client) { c.parser = p }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) { c.logger = l }
}

// New builds a client for baseURL, e.g. "http://localhost:8080/api".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	c := &Client{
		base:   u,
		http:   &http.Client{Timeout: DefaultTimeout},
		parser: apierror.Parser{Messages: apierror.DefaultMessages},
		logger: logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Client) SetToken(token string) { c.token = token }

// List reads one page of entity and returns the raw "data" object.
func (c *Client) List(ctx context.Context, schema listquery.Schema, st listquery.State) ([]byte, error) {
	return c.do(ctx, http.MethodGet, c.endpoint(string(schema.Entity)), listParams(schema, st), nil, "")
}

func (c *Client) Get(ctx context.Context, entity listquery.Entity, id domain.ID) ([]byte, error) {
	return c.do(ctx, http.MethodGet, c.endpoint(string(entity), idSegment(id)), nil, nil, "")
}

// Create posts payload as the "data" JSON field of a multipart form with the
// given files attached, and returns the created entity.
func (c *Client) Create(ctx context.Context, entity listquery.Entity, payload any, files []File) ([]byte, error) {
	body, ctype, err := multipartBody(payload, files)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, c.endpoint(string(entity)), nil, body, ctype)
}

func (c *Client) Update(ctx context.Context, entity listquery.Entity, id domain.ID, payload any, files []File) ([]byte, error) {
	body, ctype, err := multipartBody(payload, files)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPut, c.endpoint(string(entity), idSegment(id)), nil, body, ctype)
}

func (c *Client) Delete(ctx context.Context, entity listquery.Entity, id domain.ID) error {
	_, err := c.do(ctx, http.MethodDelete, c.endpoint(string(entity), idSegment(id)), nil, nil, "")
	return err
}

// Receipt downloads the PDF receipt of an application.
func (c *Client) Receipt(ctx context.Context, id domain.ID) ([]byte, error) {
	return c.raw(ctx, http.MethodGet, c.endpoint(string(listquery.Applications), idSegment(id), "receipt"), nil, nil, "")
}

// Login exchanges credentials for a bearer token and keeps it on the client.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}
	data, err := c.do(ctx, http.MethodPost, c.endpoint("auth", "login"), nil, bytes.NewReader(payload), "application/json")
	if err != nil {
		return "", err
	}
	token := gjson.GetBytes(data, "token").String()
	if token == "" {
		return "", fmt.Errorf("login response carried no token")
	}
	c.token = token
	return token, nil
}

func (c *Client) endpoint(segments ...string) *url.URL {
	u := *c.base
	u.Path = path.Join(append([]string{u.Path}, segments...)...)
	return &u
}

func idSegment(id domain.ID) string {
	return strconv.FormatInt(int64(id), 10)
}

// listParams sends every field explicitly so the server never has to guess
// the client's defaults.
func listParams(schema listquery.Schema, st listquery.State) url.Values {
	v := listquery.Encode(schema, st)
	v.Set("pageNumber", strconv.Itoa(st.PageNumber))
	v.Set("pageSize", strconv.Itoa(st.PageSize))
	v.Set("sorts", st.SortsParam())
	return v
}

func multipartBody(payload any, files []File) (io.Reader, string, error) {
	blob, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("encode payload: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="data"`)
	h.Set("Content-Type", "application/json")
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(blob); err != nil {
		return nil, "", err
	}

	for _, f := range files {
		if f.Content == nil {
			continue
		}
		fw, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(fw, f.Content); err != nil {
			return nil, "", fmt.Errorf("copy %s: %w", f.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// do sends the request and returns the "data" member of the JSON envelope.
func (c *Client) do(ctx context.Context, method string, u *url.URL, query url.Values, body io.Reader, contentType string) ([]byte, error) {
	raw, err := c.raw(ctx, method, u, query, body, contentType)
	if err != nil || len(raw) == 0 {
		return nil, err
	}
	data := gjson.GetBytes(raw, "data")
	if !data.Exists() {
		return raw, nil
	}
	return []byte(data.Raw), nil
}

func (c *Client) raw(ctx context.Context, method string, u *url.URL, query url.Values, body io.Reader, contentType string) ([]byte, error) {
	if query != nil {
		u.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"path":   u.Path,
		}).WithError(err).Warn("request failed")
		return nil, fmt.Errorf("%s %s: %w", method, u.Path, err)
	}
	defer resp.Body.Close()

	c.logger.WithFields(logrus.Fields{
		"method":     method,
		"path":       u.Path,
		"status":     resp.StatusCode,
		"latency_ms": time.Since(start).Milliseconds(),
	}).Debug("request done")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, c.parser.FromResponse(resp.StatusCode, b)
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	return io.ReadAll(resp.Body)
}
