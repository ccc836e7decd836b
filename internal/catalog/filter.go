package catalog

import "strings"

// Filter selects movies by genre, director, actor, runtime and free text.
// It is sent to the remote search endpoint and can also narrow an
// already fetched list.  Zero values mean "any".
type Filter struct {
	GenreID    int    `json:"genreId,omitempty" query:"genreId"`
	DirectorID int    `json:"directorId,omitempty" query:"directorId"`
	ActorID    int    `json:"actorId,omitempty" query:"actorId"`
	RunTime    int    `json:"runTime,omitempty" query:"runTime"`
	Search     string `json:"search,omitempty" query:"search"`
}

// Empty reports whether f selects every movie.
func (f Filter) Empty() bool {
	return f.GenreID == 0 && f.DirectorID == 0 && f.ActorID == 0 && f.RunTime == 0 &&
		strings.TrimSpace(f.Search) == ""
}

// Apply returns the movies matching every set criterion, keeping order.
// The text search is case-insensitive over title, original title and
// short description.
func (f Filter) Apply(movies []Movie) []Movie {
	query := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Movie, 0, len(movies))
	for _, m := range movies {
		if f.GenreID != 0 && !hasGenre(m, f.GenreID) {
			continue
		}
		if f.DirectorID != 0 && (m.Director == nil || m.Director.DirectorID != f.DirectorID) {
			continue
		}
		if f.ActorID != 0 && !hasActor(m, f.ActorID) {
			continue
		}
		if f.RunTime != 0 && m.RunTime != f.RunTime {
			continue
		}
		if query != "" && !matchesText(m, query) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func hasGenre(m Movie, id int) bool {
	for _, g := range m.MovieGenres {
		if g.GenreID == id {
			return true
		}
	}
	return false
}

func hasActor(m Movie, id int) bool {
	for _, a := range m.MovieActors {
		if a.ActorID == id {
			return true
		}
	}
	return false
}

func matchesText(m Movie, query string) bool {
	for _, s := range []string{m.Title, m.OriginalTitle, m.ShortDescription} {
		if strings.Contains(strings.ToLower(s), query) {
			return true
		}
	}
	return false
}
