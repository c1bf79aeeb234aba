package listquery

import (
	"net/url"
	"strconv"

	"github.com/go-playground/form"
)

const (
	paramPageNumber = "pageNumber"
	paramPageSize   = "pageSize"
	paramKeyword    = "keyword"
	paramSorts      = "sorts"
)

var (
	encoder = form.NewEncoder()
	decoder = form.NewDecoder()
)

type scalarParams struct {
	PageNumber int    `form:"pageNumber"`
	PageSize   int    `form:"pageSize"`
	Keyword    string `form:"keyword"`
}

// rawParams keeps numbers as strings so malformed input falls back to defaults
// instead of failing the whole decode.
type rawParams struct {
	PageNumber string `form:"pageNumber"`
	PageSize   string `form:"pageSize"`
	Keyword    string `form:"keyword"`
}

func encodeScalars(s State) url.Values {
	v, err := encoder.Encode(&scalarParams{
		PageNumber: s.PageNumber,
		PageSize:   s.PageSize,
		Keyword:    s.Keyword,
	})
	if err != nil || v == nil {
		v = url.Values{}
		v.Set(paramPageNumber, strconv.Itoa(s.PageNumber))
		v.Set(paramPageSize, strconv.Itoa(s.PageSize))
		v.Set(paramKeyword, s.Keyword)
	}
	return v
}

// Encode renders s as URL query params, one per field. Params equal to their
// default are omitted; an emptied sort list is kept as "sorts=".
func Encode(schema Schema, s State) url.Values {
	v := encodeScalars(s)
	if s.PageNumber == 1 {
		v.Del(paramPageNumber)
	}
	if s.PageSize == DefaultPageSize {
		v.Del(paramPageSize)
	}
	if s.Keyword == "" {
		v.Del(paramKeyword)
	}
	if !sortsEqual(s.Sorts, schema.DefaultSorts) {
		v.Set(paramSorts, formatSorts(s.Sorts))
	}
	for _, k := range schema.FilterKeys {
		if val := s.Filters[k]; val != "" {
			v.Set(k, val)
		}
	}
	return v
}

// Parse builds a State from URL query params. Absent or malformed params take
// their documented default.
func Parse(schema Schema, v url.Values) State {
	st := Default(schema)

	var raw rawParams
	if err := decoder.Decode(&raw, v); err != nil {
		raw = rawParams{
			PageNumber: v.Get(paramPageNumber),
			PageSize:   v.Get(paramPageSize),
			Keyword:    v.Get(paramKeyword),
		}
	}

	if n, err := strconv.Atoi(raw.PageNumber); err == nil && n >= 1 {
		st.PageNumber = n
	}
	if n, err := strconv.Atoi(raw.PageSize); err == nil && ValidPageSize(n) {
		st.PageSize = n
	}
	st.Keyword = raw.Keyword

	if v.Has(paramSorts) {
		st.Sorts = ParseSorts(schema, v.Get(paramSorts))
	}
	for _, k := range schema.FilterKeys {
		if val := v.Get(k); val != "" {
			st.Filters[k] = val
		}
	}
	return st
}

// ParseQuery is Parse over a raw query string.
func ParseQuery(schema Schema, rawQuery string) (State, error) {
	v, err := url.ParseQuery(rawQuery)
	if err != nil {
		return State{}, err
	}
	return Parse(schema, v), nil
}
