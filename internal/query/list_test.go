package query

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"jobboard/internal/apierror"
	"jobboard/internal/domain"
	"jobboard/internal/listquery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageOf(items ...string) domain.PagedResult[string] {
	return domain.NewPagedResult(items, len(items), listquery.DefaultPageSize)
}

func stateWith(keyword string, page int) listquery.State {
	st := listquery.Default(listquery.JobSchema)
	st.Keyword = keyword
	st.PageNumber = page
	return st
}

func TestList_FirstLoadHasNoDataThenServesFreshCache(t *testing.T) {
	cache, err := NewCache(CacheOptions{})
	require.NoError(t, err)

	calls := 0
	l := NewList(cache, listquery.Jobs, func(ctx context.Context, st listquery.State) (domain.PagedResult[string], error) {
		calls++
		return pageOf("backend engineer"), nil
	})

	var seen []Result[string]
	l.OnChange(func(r Result[string]) { seen = append(seen, r) })

	res := l.Load(context.Background(), stateWith("", 1))
	require.False(t, res.IsLoading)
	require.NotNil(t, res.Data)
	assert.Equal(t, []string{"backend engineer"}, res.Data.Items)

	require.Len(t, seen, 2)
	assert.True(t, seen[0].IsLoading)
	assert.Nil(t, seen[0].Data, "very first load shows an empty loading state")

	res = l.Load(context.Background(), stateWith("", 1))
	assert.Equal(t, 1, calls, "fresh cache entry served without a request")
	assert.False(t, res.IsLoading)
}

func TestList_KeepsPreviousPageWhileLoading(t *testing.T) {
	cache, err := NewCache(CacheOptions{})
	require.NoError(t, err)

	l := NewList(cache, listquery.Jobs, func(ctx context.Context, st listquery.State) (domain.PagedResult[string], error) {
		if st.PageNumber == 1 {
			return pageOf("p1-a", "p1-b"), nil
		}
		return pageOf("p2-a"), nil
	})
	l.Load(context.Background(), stateWith("", 1))

	var loading []Result[string]
	l.OnChange(func(r Result[string]) {
		if r.IsLoading {
			loading = append(loading, r)
		}
	})
	res := l.Load(context.Background(), stateWith("", 2))

	require.Len(t, loading, 1)
	require.NotNil(t, loading[0].Data)
	assert.Equal(t, []string{"p1-a", "p1-b"}, loading[0].Data.Items)
	assert.Equal(t, 2, loading[0].State.PageNumber)
	assert.Equal(t, []string{"p2-a"}, res.Data.Items)
}

func TestList_FailedPageKeepsPreviousDataAndShowsGenericMessage(t *testing.T) {
	cache, err := NewCache(CacheOptions{})
	require.NoError(t, err)

	l := NewList(cache, listquery.Jobs, func(ctx context.Context, st listquery.State) (domain.PagedResult[string], error) {
		if st.PageNumber == 2 {
			return domain.PagedResult[string]{}, apierror.FromResponse(http.StatusInternalServerError,
				[]byte(`{"message":"dial tcp 10.1.1.1:3306: connection refused"}`))
		}
		return pageOf("first"), nil
	})

	l.Load(context.Background(), stateWith("", 1))
	res := l.Load(context.Background(), stateWith("", 2))

	require.True(t, res.IsError)
	assert.False(t, res.IsLoading)
	assert.Equal(t, apierror.DefaultMessages.Generic, res.Error.Message)
	require.NotNil(t, res.Data)
	assert.Equal(t, []string{"first"}, res.Data.Items)
	assert.Equal(t, 2, res.State.PageNumber)

	res = l.Load(context.Background(), stateWith("", 1))
	assert.False(t, res.IsError, "page controls keep working after a failure")
	assert.Equal(t, []string{"first"}, res.Data.Items)
}

func TestList_LastIssuedLoadWins(t *testing.T) {
	cache, err := NewCache(CacheOptions{})
	require.NoError(t, err)

	startedA := make(chan struct{})
	releaseA := make(chan struct{})
	l := NewList(cache, listquery.Jobs, func(ctx context.Context, st listquery.State) (domain.PagedResult[string], error) {
		if st.Keyword == "a" {
			close(startedA)
			<-releaseA
		}
		return pageOf("result:" + st.Keyword), nil
	})

	var mu sync.Mutex
	var rendered []string
	l.OnChange(func(r Result[string]) {
		if r.Data != nil {
			mu.Lock()
			rendered = append(rendered, r.Data.Items[0])
			mu.Unlock()
		}
	})

	doneA := make(chan Result[string])
	go func() { doneA <- l.Load(context.Background(), stateWith("a", 1)) }()
	<-startedA

	resAB := l.Load(context.Background(), stateWith("ab", 1))
	close(releaseA)
	resA := <-doneA

	assert.Equal(t, []string{"result:ab"}, resAB.Data.Items)
	assert.Equal(t, []string{"result:ab"}, resA.Data.Items, "stale response is discarded")
	assert.Equal(t, "ab", l.Snapshot().State.Keyword)

	mu.Lock()
	defer mu.Unlock()
	for _, r := range rendered {
		assert.Equal(t, "result:ab", r)
	}
}

func TestList_TimeoutSurfacesMessage(t *testing.T) {
	cache, err := NewCache(CacheOptions{})
	require.NoError(t, err)

	l := NewList(cache, listquery.Jobs, func(ctx context.Context, st listquery.State) (domain.PagedResult[string], error) {
		<-ctx.Done()
		return domain.PagedResult[string]{}, ctx.Err()
	}, WithTimeout(20*time.Millisecond))

	res := l.Load(context.Background(), stateWith("", 1))
	require.True(t, res.IsError)
	assert.Equal(t, apierror.KindTimeout, res.Error.Kind)
	assert.Equal(t, apierror.DefaultMessages.Timeout, res.Error.Message)
}

func TestList_InvalidationIsObservedByNextLoad(t *testing.T) {
	cache, err := NewCache(CacheOptions{FreshFor: time.Hour})
	require.NoError(t, err)

	var mu sync.Mutex
	rows := []string{"ana"}
	l := NewList(cache, listquery.Users, func(ctx context.Context, st listquery.State) (domain.PagedResult[string], error) {
		mu.Lock()
		defer mu.Unlock()
		return pageOf(append([]string(nil), rows...)...), nil
	})

	st := listquery.Default(listquery.UserSchema)
	l.Load(context.Background(), st)

	mu.Lock()
	rows = append(rows, "budi")
	mu.Unlock()

	assert.Equal(t, []string{"ana"}, l.Load(context.Background(), st).Data.Items, "fresh within window")

	cache.Invalidate(listquery.Users)
	assert.Equal(t, []string{"ana", "budi"}, l.Load(context.Background(), st).Data.Items)
}
