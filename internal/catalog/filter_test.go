package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadMovies(t *testing.T) []Movie {
	t.Helper()
	var movies []Movie
	require.NoError(t, json.Unmarshal([]byte(moviesJSON), &movies))
	return movies
}

func ids(movies []Movie) []int {
	out := make([]int, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.MovieID)
	}
	return out
}

func TestFilterApply(t *testing.T) {
	movies := loadMovies(t)

	tests := []struct {
		name   string
		filter Filter
		want   []int
	}{
		{"empty keeps all", Filter{}, []int{1, 2, 3, 4}},
		{"genre", Filter{GenreID: 2}, []int{1}},
		{"director", Filter{DirectorID: 3}, []int{1, 3}},
		{"actor", Filter{ActorID: 7}, []int{1}},
		{"runtime", Filter{RunTime: 95}, []int{2, 4}},
		{"title case-insensitive", Filter{Search: "  ARRIV "}, []int{3}},
		{"original title", Filter{Search: "part one"}, []int{1}},
		{"short description", Filter{Search: "bear"}, []int{2}},
		{"combined", Filter{DirectorID: 3, RunTime: 116}, []int{3}},
		{"no match", Filter{GenreID: 9}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.filter.Apply(movies)))
		})
	}
}

func TestFilterEmpty(t *testing.T) {
	assert.True(t, Filter{}.Empty())
	assert.True(t, Filter{Search: "   "}.Empty())
	assert.False(t, Filter{ActorID: 1}.Empty())
}

func TestPosterURL(t *testing.T) {
	assert.Equal(t, "/assets/no-poster.jpg", PosterURL(""))
	assert.Equal(t, "https://img.example/p.jpg", PosterURL("https://img.example/p.jpg"))
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/dune.jpg", PosterURL("/dune.jpg"))
}
