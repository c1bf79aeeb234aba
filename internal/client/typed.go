package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"jobboard/internal/dependent"
	"jobboard/internal/domain"
	"jobboard/internal/domain/models"
	"jobboard/internal/listquery"
	"jobboard/internal/query"

	"github.com/tidwall/gjson"
)

// ListPage reads one page of entity decoded as T.
func ListPage[T any](ctx context.Context, c *Client, schema listquery.Schema, st listquery.State) (domain.PagedResult[T], error) {
	var page domain.PagedResult[T]
	data, err := c.List(ctx, schema, st)
	if err != nil {
		return page, err
	}
	if err := json.Unmarshal(data, &page); err != nil {
		return page, fmt.Errorf("decode %s page: %w", schema.Entity, err)
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}

// Fetcher adapts ListPage to a query.List.
func Fetcher[T any](c *Client, schema listquery.Schema) query.Fetcher[T] {
	return func(ctx context.Context, st listquery.State) (domain.PagedResult[T], error) {
		return ListPage[T](ctx, c, schema, st)
	}
}

// GetOne reads one entity decoded as T.
func GetOne[T any](ctx context.Context, c *Client, entity listquery.Entity, id domain.ID) (T, error) {
	var out T
	data, err := c.Get(ctx, entity, id)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", entity, err)
	}
	return out, nil
}

// Options lists every {id, name} record of entity as select options.
func (c *Client) Options(ctx context.Context, entity listquery.Entity, filters map[string]string) ([]dependent.Option, error) {
	schema, ok := listquery.SchemaFor(entity)
	if !ok {
		return nil, fmt.Errorf("unknown entity %q", entity)
	}
	st := listquery.Default(schema)
	st.PageSize = listquery.PageSizes[len(listquery.PageSizes)-1]
	for k, v := range filters {
		st.Filters[k] = v
	}

	var out []dependent.Option
	for {
		data, err := c.List(ctx, schema, st)
		if err != nil {
			return nil, err
		}
		gjson.GetBytes(data, "items").ForEach(func(_, item gjson.Result) bool {
			out = append(out, dependent.Option{
				Value: item.Get("id").String(),
				Label: item.Get("name").String(),
			})
			return true
		})
		if int(gjson.GetBytes(data, "totalPages").Int()) <= st.PageNumber {
			break
		}
		st.PageNumber++
	}
	if out == nil {
		out = []dependent.Option{}
	}
	return out, nil
}

// DistrictLoader loads the districts of a province for a dependent.Pair.
func (c *Client) DistrictLoader() dependent.Loader {
	return func(ctx context.Context, provinceID string) ([]dependent.Option, error) {
		return c.Options(ctx, listquery.Districts, map[string]string{"provinceId": provinceID})
	}
}

// PriorApplication reports whether userID already applied to jobID.
func (c *Client) PriorApplication(ctx context.Context, jobID, userID domain.ID) (models.PriorApplication, error) {
	var out models.PriorApplication
	u := c.endpoint(string(listquery.Applications), "check")
	q := u.Query()
	q.Set("jobId", strconv.FormatInt(int64(jobID), 10))
	q.Set("userId", strconv.FormatInt(int64(userID), 10))

	data, err := c.do(ctx, "GET", u, q, nil, "")
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode prior application: %w", err)
	}
	return out, nil
}
