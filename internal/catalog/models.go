package catalog

// Movie mirrors the remote catalog's movie document.
type Movie struct {
	MovieID          int          `json:"movieId"`
	Title            string       `json:"title"`
	OriginalTitle    string       `json:"originalTitle,omitempty"`
	Description      string       `json:"description,omitempty"`
	ShortDescription string       `json:"shortDescription,omitempty"`
	RunTime          int          `json:"runTime"`
	StartDate        string       `json:"startDate,omitempty"`
	Poster           string       `json:"poster,omitempty"`
	Director         *Director    `json:"director,omitempty"`
	MovieActors      []MovieActor `json:"movieActors,omitempty"`
	MovieGenres      []MovieGenre `json:"movieGenres,omitempty"`
}

// PosterURL resolves the movie's poster path to a loadable URL.
func (m Movie) PosterURL() string {
	return PosterURL(m.Poster)
}

type Director struct {
	DirectorID int    `json:"directorId"`
	Name       string `json:"name"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

type Actor struct {
	ActorID   int    `json:"actorId"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type Genre struct {
	GenreID   int    `json:"genreId"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type MovieActor struct {
	MovieActorID int   `json:"movieActorId"`
	MovieID      int   `json:"movieId"`
	ActorID      int   `json:"actorId"`
	Actor        Actor `json:"actor"`
}

type MovieGenre struct {
	MovieGenreID int   `json:"movieGenreId"`
	MovieID      int   `json:"movieId"`
	GenreID      int   `json:"genreId"`
	Genre        Genre `json:"genre"`
}
