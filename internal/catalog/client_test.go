package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-ticketing/internal/metrics"
)

const moviesJSON = `[
 {"movieId":1,"title":"Dune","originalTitle":"Dune: Part One","runTime":155,"startDate":"2021-10-22","poster":"/dune.jpg",
  "director":{"directorId":3,"name":"Denis Villeneuve"},
  "movieActors":[{"movieActorId":1,"movieId":1,"actorId":7,"actor":{"actorId":7,"name":"Zendaya"}}],
  "movieGenres":[{"movieGenreId":1,"movieId":1,"genreId":2,"genre":{"genreId":2,"name":"Sci-Fi"}}]},
 {"movieId":2,"title":"Paddington","runTime":95,"shortDescription":"A bear in London","poster":"https://img.example/p.jpg"},
 {"movieId":3,"title":"Arrival","runTime":116,"director":{"directorId":3,"name":"Denis Villeneuve"}},
 {"movieId":4,"title":"Up","runTime":95}
]`

type fakeCatalog struct {
	srv *httptest.Server

	mu       sync.Mutex
	hits     map[string]int
	queries  []url.Values
	headers  http.Header
	statuses map[string]int
}

func newFakeCatalog(t *testing.T, routes map[string]string) *fakeCatalog {
	t.Helper()
	f := &fakeCatalog{hits: map[string]int{}, statuses: map[string]int{}}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits[r.URL.Path]++
		f.queries = append(f.queries, r.URL.Query())
		f.headers = r.Header.Clone()
		status, forced := f.statuses[r.URL.Path]
		f.mu.Unlock()

		if forced {
			w.WriteHeader(status)
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeCatalog) fail(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[path] = status
}

func (f *fakeCatalog) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeCatalog) lastQuery() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestClient(f *fakeCatalog, cache Cache, m *metrics.Metrics) *Client {
	return NewClient(Config{BaseURL: f.srv.URL + "/api", ClientName: "test-client"}, cache, nil, m)
}

func TestList_CachesWithinTTL(t *testing.T) {
	fake := newFakeCatalog(t, map[string]string{"/api/movie": moviesJSON})
	clk := &clock{t: time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)}
	c := newTestClient(fake, NewMemoryCacheWithClock(DefaultTTL, clk.now), nil)
	ctx := context.Background()

	first, err := c.List(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, first, 4)

	clk.advance(DefaultTTL - time.Second)
	second, err := c.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fake.count("/api/movie"))

	clk.advance(time.Second)
	_, err = c.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, fake.count("/api/movie"), "an expired entry is refetched")

	_, err = c.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, fake.count("/api/movie"), "other parameters use another key")
}

func TestList_SendsQueryAndHeaders(t *testing.T) {
	fake := newFakeCatalog(t, map[string]string{"/api/movie": moviesJSON})
	c := newTestClient(fake, nil, nil)

	_, err := c.List(context.Background(), 2, 25)
	require.NoError(t, err)

	q := fake.lastQuery()
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "25", q.Get("size"))
	assert.Equal(t, "startDate,asc", q.Get("sort"))
	assert.Equal(t, "application/json", fake.headers.Get("Accept"))
	assert.Equal(t, "test-client", fake.headers.Get("X-Client-Name"))
}

func TestGetByID(t *testing.T) {
	fake := newFakeCatalog(t, map[string]string{
		"/api/movie/2": `{"movieId":2,"title":"Paddington","runTime":95}`,
	})
	c := newTestClient(fake, nil, nil)
	ctx := context.Background()

	m, err := c.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Paddington", m.Title)
	assert.Equal(t, posterFallback, m.PosterURL())

	_, err = c.GetByID(ctx, 99)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestNon200IsFailure(t *testing.T) {
	fake := newFakeCatalog(t, map[string]string{"/api/movie": moviesJSON})
	fake.fail("/api/movie", http.StatusNoContent)
	c := newTestClient(fake, nil, nil)

	_, err := c.List(context.Background(), 0, 10)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNoContent, se.StatusCode)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFailuresAreNotCached(t *testing.T) {
	fake := newFakeCatalog(t, map[string]string{"/api/movie": moviesJSON})
	fake.fail("/api/movie", http.StatusBadGateway)
	c := newTestClient(fake, nil, nil)
	ctx := context.Background()

	_, err := c.List(ctx, 0, 10)
	require.Error(t, err)
	_, err = c.List(ctx, 0, 10)
	require.Error(t, err)
	assert.Equal(t, 2, fake.count("/api/movie"))
}

func TestReferenceListsSwallowErrors(t *testing.T) {
	fake := newFakeCatalog(t, map[string]string{
		"/api/genre": `[{"genreId":2,"name":"Sci-Fi"},{"genreId":5,"name":"Comedy"}]`,
	})
	fake.fail("/api/director", http.StatusInternalServerError)
	c := newTestClient(fake, nil, nil)
	ctx := context.Background()

	genres := c.ListGenres(ctx)
	assert.Equal(t, []Genre{{GenreID: 2, Name: "Sci-Fi"}, {GenreID: 5, Name: "Comedy"}}, genres)

	directors := c.ListDirectors(ctx)
	assert.NotNil(t, directors)
	assert.Empty(t, directors)

	actors := c.ListActors(ctx)
	assert.NotNil(t, actors)
	assert.Empty(t, actors)
}

func TestListRuntimes(t *testing.T) {
	t.Run("dedicated endpoint", func(t *testing.T) {
		fake := newFakeCatalog(t, map[string]string{"/api/movie/runtimes": `[90,120]`})
		c := newTestClient(fake, nil, nil)

		got, err := c.ListRuntimes(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []int{90, 120}, got)
		assert.Zero(t, fake.count("/api/movie"))
	})

	t.Run("fallback derives sorted distinct runtimes", func(t *testing.T) {
		fake := newFakeCatalog(t, map[string]string{"/api/movie": moviesJSON})
		fake.fail("/api/movie/runtimes", http.StatusServiceUnavailable)
		c := newTestClient(fake, nil, nil)
		ctx := context.Background()

		got, err := c.ListRuntimes(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{95, 116, 155}, got)
		assert.Equal(t, "1000", fake.lastQuery().Get("size"))

		again, err := c.ListRuntimes(ctx)
		require.NoError(t, err)
		assert.Equal(t, got, again)
		assert.Equal(t, 1, fake.count("/api/movie/runtimes"), "the derived list is cached")
	})

	t.Run("fallback failure propagates", func(t *testing.T) {
		fake := newFakeCatalog(t, nil)
		fake.fail("/api/movie/runtimes", http.StatusServiceUnavailable)
		fake.fail("/api/movie", http.StatusServiceUnavailable)
		c := newTestClient(fake, nil, nil)

		_, err := c.ListRuntimes(context.Background())
		assert.Error(t, err)
	})
}

func TestSearch_SendsOnlySetFilters(t *testing.T) {
	fake := newFakeCatalog(t, map[string]string{"/api/movie/search": `[{"movieId":1,"title":"Dune","runTime":155}]`})
	c := newTestClient(fake, nil, nil)
	ctx := context.Background()

	got, err := c.Search(ctx, Filter{GenreID: 2, Search: "dune"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	q := fake.lastQuery()
	assert.Equal(t, "2", q.Get("genreId"))
	assert.Equal(t, "dune", q.Get("search"))
	assert.False(t, q.Has("directorId"))
	assert.False(t, q.Has("actorId"))
	assert.False(t, q.Has("runTime"))

	_, err = c.Search(ctx, Filter{GenreID: 2, Search: "dune"})
	require.NoError(t, err)
	_, err = c.Search(ctx, Filter{GenreID: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, fake.count("/api/movie/search"))
}

func TestClientRecordsMetrics(t *testing.T) {
	fake := newFakeCatalog(t, map[string]string{"/api/movie": moviesJSON})
	m := metrics.New(prometheus.NewRegistry())
	c := newTestClient(fake, nil, m)
	ctx := context.Background()

	_, err := c.List(ctx, 0, 10)
	require.NoError(t, err)
	_, err = c.List(ctx, 0, 10)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CatalogCache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CatalogCache.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CatalogRequests.WithLabelValues("list", "ok")))
}

func TestDistinctRuntimes(t *testing.T) {
	assert.Equal(t, []int{}, DistinctRuntimes(nil))
	assert.Equal(t, []int{80, 90}, DistinctRuntimes([]Movie{{RunTime: 90}, {RunTime: 80}, {RunTime: 90}}))
}
