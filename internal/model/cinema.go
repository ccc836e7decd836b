package model

// Cinema is a venue a booking can be made for.  Orders embed a copy of
// the cinema at checkout time.
type Cinema struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	City    string `json:"city"`
}

// Cinemas returns the fixed set of venues that can be booked.
func Cinemas() []Cinema {
	return []Cinema{
		{ID: 1, Name: "MovieUniverse Rajiceva", Country: "Serbia", City: "Belgrade"},
		{ID: 2, Name: "MovieUniverse Knez Mihailova", Country: "Serbia", City: "Belgrade"},
	}
}

// CinemaByID looks up one of the fixed venues.
func CinemaByID(id int) (Cinema, bool) {
	for _, c := range Cinemas() {
		if c.ID == id {
			return c, true
		}
	}
	return Cinema{}, false
}
