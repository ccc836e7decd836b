package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/iliyamo/cinema-ticketing/internal/model"
	"github.com/iliyamo/cinema-ticketing/internal/utils"
)

// Field names a single editable user attribute.
type Field string

const (
	FieldPassword  Field = "password"
	FieldEmail     Field = "email"
	FieldFirstName Field = "first_name"
	FieldLastName  Field = "last_name"
	FieldPhone     Field = "phone"
	FieldAddress   Field = "address"
)

// ParseField maps a wire name to a Field.
func ParseField(name string) (Field, bool) {
	switch f := Field(name); f {
	case FieldPassword, FieldEmail, FieldFirstName, FieldLastName, FieldPhone, FieldAddress:
		return f, true
	}
	return "", false
}

// ChangeField sets one field on the active user and persists the
// collection.  Passwords are hashed before storing.  A new email must
// not belong to another user, and the active session follows it.
func (s *UserStore) ChangeField(ctx context.Context, field Field, value string) error {
	if _, ok := ParseField(string(field)); !ok {
		return ErrUnknownField
	}
	if field == FieldEmail && strings.TrimSpace(value) == "" {
		return ErrInvalidEmail
	}

	var hash string
	if field == FieldPassword {
		h, err := utils.HashPassword(value, s.cost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		hash = h
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var newEmail string
	err := s.withActive(ctx, true, func(users []model.User, u *model.User) error {
		switch field {
		case FieldPassword:
			u.PasswordHash = hash
		case FieldEmail:
			if value == u.Email {
				return nil
			}
			if indexByEmail(users, value) >= 0 {
				return ErrEmailExists
			}
			u.Email = value
			newEmail = value
		case FieldFirstName:
			u.FirstName = value
		case FieldLastName:
			u.LastName = value
		case FieldPhone:
			u.Phone = value
		case FieldAddress:
			u.Address = value
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.moveActive(ctx, newEmail)
}

// ChangePassword sets a new password for the active user.
func (s *UserStore) ChangePassword(ctx context.Context, password string) error {
	return s.ChangeField(ctx, FieldPassword, password)
}

// ChangeEmail sets a new email for the active user.
func (s *UserStore) ChangeEmail(ctx context.Context, email string) error {
	return s.ChangeField(ctx, FieldEmail, email)
}

// ChangeFirstName sets the active user's first name.
func (s *UserStore) ChangeFirstName(ctx context.Context, name string) error {
	return s.ChangeField(ctx, FieldFirstName, name)
}

// ChangeLastName sets the active user's last name.
func (s *UserStore) ChangeLastName(ctx context.Context, name string) error {
	return s.ChangeField(ctx, FieldLastName, name)
}

// ChangePhone sets the active user's phone number.
func (s *UserStore) ChangePhone(ctx context.Context, phone string) error {
	return s.ChangeField(ctx, FieldPhone, phone)
}

// ChangeAddress sets the active user's address.
func (s *UserStore) ChangeAddress(ctx context.Context, address string) error {
	return s.ChangeField(ctx, FieldAddress, address)
}
