package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticketing/internal/catalog"
	"github.com/iliyamo/cinema-ticketing/internal/model"
	"github.com/iliyamo/cinema-ticketing/internal/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 1000
)

// CatalogHandler exposes the remote catalog and the reviews users left
// for its movies.
type CatalogHandler struct {
	Catalog *catalog.Client
	Users   *repository.UserStore
	Log     *zap.Logger
}

type movieView struct {
	catalog.Movie
	PosterURL string `json:"poster_url"`
}

func newMovieViews(movies []catalog.Movie) []movieView {
	out := make([]movieView, len(movies))
	for i, m := range movies {
		out[i] = movieView{Movie: m, PosterURL: m.PosterURL()}
	}
	return out
}

type reviewView struct {
	model.MovieReview
	RatingLabel string `json:"rating_label"`
}

// ListMovies handles GET /v1/movies?page=&size= plus the optional
// genreId, directorId, actorId, runTime and search filters, applied to
// the fetched page.
func (h *CatalogHandler) ListMovies(c echo.Context) error {
	page, ok := queryInt(c, "page", 0)
	if !ok {
		return badRequest(c, "invalid page")
	}
	size, ok := queryInt(c, "size", defaultPageSize)
	if !ok || size == 0 || size > maxPageSize {
		return badRequest(c, "invalid size")
	}
	var f catalog.Filter
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &f); err != nil {
		return badRequest(c, "invalid filter")
	}

	movies, err := h.Catalog.List(c.Request().Context(), page, size)
	if err != nil {
		return fail(c, h.Log, err)
	}
	if !f.Empty() {
		movies = f.Apply(movies)
	}
	return c.JSON(http.StatusOK, newMovieViews(movies))
}

// Search handles GET /v1/movies/search through the remote search
// endpoint.
func (h *CatalogHandler) Search(c echo.Context) error {
	var f catalog.Filter
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &f); err != nil {
		return badRequest(c, "invalid filter")
	}
	movies, err := h.Catalog.Search(c.Request().Context(), f)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, newMovieViews(movies))
}

// GetMovie handles GET /v1/movies/:id.
func (h *CatalogHandler) GetMovie(c echo.Context) error {
	id, ok := paramInt(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	m, err := h.Catalog.GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, movieView{Movie: m, PosterURL: m.PosterURL()})
}

// MovieReviews handles GET /v1/movies/:id/reviews.
func (h *CatalogHandler) MovieReviews(c echo.Context) error {
	id, ok := paramInt(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	reviews, err := h.Users.MovieReviews(c.Request().Context(), id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	out := make([]reviewView, len(reviews))
	for i, r := range reviews {
		out[i] = reviewView{MovieReview: r, RatingLabel: model.RatingLabel(r.Rating)}
	}
	return c.JSON(http.StatusOK, out)
}

// Genres handles GET /v1/genres.
func (h *CatalogHandler) Genres(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Catalog.ListGenres(c.Request().Context()))
}

// Directors handles GET /v1/directors.
func (h *CatalogHandler) Directors(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Catalog.ListDirectors(c.Request().Context()))
}

// Actors handles GET /v1/actors.
func (h *CatalogHandler) Actors(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Catalog.ListActors(c.Request().Context()))
}

// Runtimes handles GET /v1/runtimes.
func (h *CatalogHandler) Runtimes(c echo.Context) error {
	rt, err := h.Catalog.ListRuntimes(c.Request().Context())
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, rt)
}
