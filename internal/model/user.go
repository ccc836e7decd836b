package model

// User is a customer account as stored in the persisted users
// collection.  Orders are embedded by value in creation order, so
// the whole record (orders included) is written back on every
// mutation.
//
// Fields:
//  ID            – opaque unique identifier (UUID).
//  Email         – unique across all users, compared case-sensitively.
//  PasswordHash  – bcrypt hash of the password.
//  FirstName     – given name.
//  LastName      – family name.
//  Phone         – optional phone number.
//  Address       – optional postal address.
//  FavoriteGenre – optional genre name picked at signup.
//  Orders        – orders in creation order.
type User struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	PasswordHash  string  `json:"password_hash"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Phone         string  `json:"phone,omitempty"`
	Address       string  `json:"address,omitempty"`
	FavoriteGenre string  `json:"favorite_genre,omitempty"`
	Orders        []Order `json:"orders"`
}

// DisplayName joins first and last name the way reviews show it.
func (u User) DisplayName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// FindOrder returns a pointer into u.Orders for the given id, or nil.
func (u *User) FindOrder(id int64) *Order {
	for i := range u.Orders {
		if u.Orders[i].ID == id {
			return &u.Orders[i]
		}
	}
	return nil
}
