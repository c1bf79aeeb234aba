package dependent

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"jobboard/internal/apierror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var districtsByProvince = map[string][]Option{
	"31": {{Value: "3171", Label: "Jakarta Selatan"}, {Value: "3172", Label: "Jakarta Timur"}},
	"32": {{Value: "3273", Label: "Kota Bandung"}},
}

func staticLoader(calls *int) Loader {
	return func(ctx context.Context, parent string) ([]Option, error) {
		if calls != nil {
			*calls++
		}
		return districtsByProvince[parent], nil
	}
}

func TestPair_StartsUnresolvedAndDisabled(t *testing.T) {
	p := NewPair("employer.address", staticLoader(nil), nil)
	snap := p.Snapshot()
	assert.Equal(t, Unresolved, snap.Status)
	assert.True(t, snap.Disabled)
	assert.ErrorIs(t, p.Select("3171"), ErrDisabled)
}

func TestPair_ClearingParentEmptiesAndDisablesChild(t *testing.T) {
	p := NewPair("employer.address", staticLoader(nil), nil)

	snap := p.SetParent(context.Background(), "31")
	require.Equal(t, Resolved, snap.Status)
	require.NoError(t, p.Select("3172"))

	snap = p.SetParent(context.Background(), "")
	assert.Equal(t, Unresolved, snap.Status)
	assert.True(t, snap.Disabled)
	assert.Empty(t, snap.Child)
	assert.Empty(t, snap.Options)
}

func TestPair_NewParentClearsSelectionBeforeOptionsArrive(t *testing.T) {
	release := make(chan struct{})
	load := func(ctx context.Context, parent string) ([]Option, error) {
		if parent == "32" {
			<-release
		}
		return districtsByProvince[parent], nil
	}
	p := NewPair("job.location", load, nil)
	p.SetParent(context.Background(), "31")
	require.NoError(t, p.Select("3171"))

	var mu sync.Mutex
	var seen []Snapshot
	p.OnChange(func(s Snapshot) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})

	done := make(chan Snapshot)
	go func() { done <- p.SetParent(context.Background(), "32") }()

	require.Eventually(t, func() bool { return p.Snapshot().Status == Resolving }, time.Second, time.Millisecond)
	mid := p.Snapshot()
	assert.Empty(t, mid.Child, "stale selection cleared while resolving")
	assert.True(t, mid.Disabled)

	close(release)
	final := <-done
	assert.Equal(t, Resolved, final.Status)
	assert.Equal(t, districtsByProvince["32"], final.Options)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	assert.Equal(t, Resolving, seen[0].Status)
	for _, s := range seen {
		assert.Empty(t, s.Child)
	}
}

func TestPair_SupersededLoadIsDiscarded(t *testing.T) {
	releaseSlow := make(chan struct{})
	slowStarted := make(chan struct{})
	load := func(ctx context.Context, parent string) ([]Option, error) {
		if parent == "31" {
			close(slowStarted)
			<-releaseSlow
		}
		return districtsByProvince[parent], nil
	}
	p := NewPair("job.location", load, nil)

	done := make(chan Snapshot)
	go func() { done <- p.SetParent(context.Background(), "31") }()
	<-slowStarted

	latest := p.SetParent(context.Background(), "32")
	close(releaseSlow)
	<-done

	assert.Equal(t, latest, p.Snapshot())
	assert.Equal(t, "32", p.Snapshot().Parent)
	assert.Equal(t, districtsByProvince["32"], p.Snapshot().Options)
}

func TestPair_IndependentChainsDoNotShareOptions(t *testing.T) {
	cache := NewOptionCache()
	home := NewPair("user.home", staticLoader(nil), cache)
	office := NewPair("user.office", func(ctx context.Context, parent string) ([]Option, error) {
		return []Option{{Value: "office-" + parent, Label: "Office district"}}, nil
	}, cache)

	home.SetParent(context.Background(), "31")
	office.SetParent(context.Background(), "31")
	require.NoError(t, home.Select("3171"))

	assert.Equal(t, districtsByProvince["31"], home.Snapshot().Options)
	assert.Equal(t, []Option{{Value: "office-31", Label: "Office district"}}, office.Snapshot().Options)
	assert.Empty(t, office.Snapshot().Child)

	office.SetParent(context.Background(), "")
	assert.Equal(t, "3171", home.Snapshot().Child, "clearing one chain leaves the other alone")
	assert.Equal(t, Resolved, home.Snapshot().Status)
}

func TestPair_UsesCachedOptionsForSameScope(t *testing.T) {
	calls := 0
	cache := NewOptionCache()
	p := NewPair("employer.address", staticLoader(&calls), cache)

	p.SetParent(context.Background(), "31")
	p.SetParent(context.Background(), "32")
	p.SetParent(context.Background(), "31")
	assert.Equal(t, 2, calls)

	other := NewPair("employer.address", staticLoader(&calls), cache)
	other.SetParent(context.Background(), "32")
	assert.Equal(t, 2, calls)

	cache.Forget("employer.address")
	other.SetParent(context.Background(), "31")
	assert.Equal(t, 3, calls)
}

func TestPair_FailedLoadKeepsParentAndRetries(t *testing.T) {
	fail := true
	load := func(ctx context.Context, parent string) ([]Option, error) {
		if fail {
			return nil, errors.New("dial tcp: connection refused")
		}
		return districtsByProvince[parent], nil
	}
	p := NewPair("job.location", load, nil)

	snap := p.SetParent(context.Background(), "31")
	assert.Equal(t, Unresolved, snap.Status)
	assert.Equal(t, "31", snap.Parent)
	require.NotNil(t, snap.Error)
	assert.Equal(t, apierror.DefaultMessages.Generic, snap.Error.Message)
	assert.True(t, snap.Disabled)

	fail = false
	snap = p.Retry(context.Background())
	assert.Equal(t, Resolved, snap.Status)
	assert.Nil(t, snap.Error)
	assert.Len(t, snap.Options, 2)
}

func TestPair_SelectRejectsUnknownValue(t *testing.T) {
	p := NewPair("job.location", staticLoader(nil), nil)
	p.SetParent(context.Background(), "32")

	assert.ErrorIs(t, p.Select("3171"), ErrUnknownOption)
	require.NoError(t, p.Select("3273"))
	require.NoError(t, p.Select(""))
	assert.Empty(t, p.Snapshot().Child)
}
