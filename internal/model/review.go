package model

// MovieReview is a rated order shown on a movie's detail page.
type MovieReview struct {
	UserName string `json:"user_name"`
	Rating   int    `json:"rating"`
	Review   string `json:"review,omitempty"`
	Date     string `json:"date"`
}

// UserStats summarizes the active user's order history.
type UserStats struct {
	Orders int `json:"orders"`
	Liked  int `json:"liked"`
}

var ratingLabels = map[int]string{
	1: "Very bad",
	2: "Bad",
	3: "Average",
	4: "Good",
	5: "Excellent",
}

// RatingLabel returns the human label for a 1..5 rating, or "" when
// the rating is out of range.
func RatingLabel(rating int) string {
	return ratingLabels[rating]
}
