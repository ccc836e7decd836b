// Package catalog is a caching client for the remote movie catalog API.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticketing/internal/metrics"
)

const (
	DefaultBaseURL    = "https://movie.pequla.com/api"
	DefaultClientName = "cinema-ticketing"

	// Page size used to derive runtimes when the dedicated endpoint fails.
	runtimeFallbackSize = 1000
)

// ErrNotFound is matched by a StatusError carrying 404.
var ErrNotFound = errors.New("catalog: not found")

// StatusError reports a catalog response other than 200 OK.
type StatusError struct {
	Op         string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog %s: unexpected status %d", e.Op, e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	ClientName string
	Timeout    time.Duration
	// HTTPClient overrides the transport; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client fetches catalog data, consulting the cache before every
// request and storing the raw payload of every successful one.
type Client struct {
	base    string
	name    string
	http    *http.Client
	cache   Cache
	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewClient builds a Client.  A nil cache gets a MemoryCache with the
// default TTL; nil log and metrics are allowed.
func NewClient(cfg Config, cache Cache, log *zap.Logger, m *metrics.Metrics) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ClientName == "" {
		cfg.ClientName = DefaultClientName
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	if cache == nil {
		cache = NewMemoryCache(DefaultTTL)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base:    strings.TrimRight(cfg.BaseURL, "/"),
		name:    cfg.ClientName,
		http:    hc,
		cache:   cache,
		log:     log,
		metrics: m,
	}
}

// List returns one page of movies sorted by start date.
func (c *Client) List(ctx context.Context, page, size int) ([]Movie, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	q.Set("sort", "startDate,asc")

	var movies []Movie
	key := fmt.Sprintf("movies_%d_%d", page, size)
	if err := c.getJSON(ctx, "list", key, "/movie", q, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// GetByID returns one movie.  A missing movie yields an error matching
// ErrNotFound.
func (c *Client) GetByID(ctx context.Context, id int) (Movie, error) {
	var m Movie
	key := fmt.Sprintf("movie_%d", id)
	if err := c.getJSON(ctx, "get", key, "/movie/"+strconv.Itoa(id), nil, &m); err != nil {
		return Movie{}, err
	}
	return m, nil
}

// ListGenres never fails; errors are logged and yield an empty list.
func (c *Client) ListGenres(ctx context.Context) []Genre {
	var out []Genre
	if err := c.getJSON(ctx, "genres", "genres", "/genre", nil, &out); err != nil {
		c.log.Warn("fetch genres", zap.Error(err))
		return []Genre{}
	}
	return out
}

// ListDirectors never fails; errors are logged and yield an empty list.
func (c *Client) ListDirectors(ctx context.Context) []Director {
	var out []Director
	if err := c.getJSON(ctx, "directors", "directors", "/director", nil, &out); err != nil {
		c.log.Warn("fetch directors", zap.Error(err))
		return []Director{}
	}
	return out
}

// ListActors never fails; errors are logged and yield an empty list.
func (c *Client) ListActors(ctx context.Context) []Actor {
	var out []Actor
	if err := c.getJSON(ctx, "actors", "actors", "/actor", nil, &out); err != nil {
		c.log.Warn("fetch actors", zap.Error(err))
		return []Actor{}
	}
	return out
}

// ListRuntimes returns the distinct runtimes in ascending order.  When
// the runtimes endpoint fails they are derived from the first 1000
// movies and cached under the same key.
func (c *Client) ListRuntimes(ctx context.Context) ([]int, error) {
	const key = "runtimes"
	var out []int
	err := c.getJSON(ctx, "runtimes", key, "/movie/runtimes", nil, &out)
	if err == nil {
		return out, nil
	}
	c.log.Info("runtimes endpoint unavailable, deriving from movies", zap.Error(err))

	movies, err := c.List(ctx, 0, runtimeFallbackSize)
	if err != nil {
		return nil, err
	}
	out = DistinctRuntimes(movies)
	if raw, err := json.Marshal(out); err == nil {
		c.store(ctx, key, raw)
	}
	return out, nil
}

// Search queries the remote search endpoint.  Only non-zero filter
// fields are sent.
func (c *Client) Search(ctx context.Context, f Filter) ([]Movie, error) {
	sig, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode search filter: %w", err)
	}
	q := url.Values{}
	setInt := func(name string, v int) {
		if v != 0 {
			q.Set(name, strconv.Itoa(v))
		}
	}
	setInt("genreId", f.GenreID)
	setInt("directorId", f.DirectorID)
	setInt("actorId", f.ActorID)
	setInt("runTime", f.RunTime)
	if f.Search != "" {
		q.Set("search", f.Search)
	}

	var movies []Movie
	if err := c.getJSON(ctx, "search", "search_"+string(sig), "/movie/search", q, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// DistinctRuntimes returns the sorted set of runtimes in movies.
func DistinctRuntimes(movies []Movie) []int {
	seen := make(map[int]struct{}, len(movies))
	out := make([]int, 0, len(movies))
	for _, m := range movies {
		if _, ok := seen[m.RunTime]; ok {
			continue
		}
		seen[m.RunTime] = struct{}{}
		out = append(out, m.RunTime)
	}
	sort.Ints(out)
	return out
}

func (c *Client) getJSON(ctx context.Context, op, key, path string, q url.Values, dst any) error {
	raw, err := c.fetch(ctx, op, key, path, q)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("catalog %s: decode: %w", op, err)
	}
	return nil
}

// fetch returns the cached payload for key or performs one GET and
// caches its body.
func (c *Client) fetch(ctx context.Context, op, key, path string, q url.Values) ([]byte, error) {
	cached, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.log.Warn("catalog cache read", zap.String("key", key), zap.Error(err))
	}
	c.metrics.CacheLookup(ok)
	if ok {
		return cached, nil
	}

	raw, err := c.do(ctx, op, path, q)
	c.metrics.CatalogRequest(op, err)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, raw)
	return raw, nil
}

func (c *Client) store(ctx context.Context, key string, raw []byte) {
	if err := c.cache.Set(ctx, key, raw); err != nil {
		c.log.Warn("catalog cache write", zap.String("key", key), zap.Error(err))
	}
}

func (c *Client) do(ctx context.Context, op, path string, q url.Values) ([]byte, error) {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client-Name", c.name)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: read body: %w", op, err)
	}
	return body, nil
}
