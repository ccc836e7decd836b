package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticketing/internal/database"
	"github.com/iliyamo/cinema-ticketing/internal/model"
	"github.com/iliyamo/cinema-ticketing/internal/utils"
)

// Persisted layout: the whole users collection lives under one key and
// the active session's email under another.
const (
	UsersKey  = "users"
	ActiveKey = "active"
)

// Demo account seeded the first time the collection is read.
const (
	DemoEmail    = "user@example.com"
	DemoPassword = "user123"
)

// NewUser carries the signup form.
type NewUser struct {
	Email         string
	Password      string
	FirstName     string
	LastName      string
	Phone         string
	Address       string
	FavoriteGenre string
}

// UserStore manages users, the single active session and the orders
// embedded in each user.  Every mutation reads the whole collection,
// edits it and writes it back.  The mutex serializes those cycles
// inside one process; it does not protect against a second process
// writing the same backend.
type UserStore struct {
	kv   database.KV
	log  *zap.Logger
	cost int
	mu   sync.Mutex
}

// NewUserStore builds a store over kv.  bcryptCost is used for every
// password hash the store creates.
func NewUserStore(kv database.KV, log *zap.Logger, bcryptCost int) *UserStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserStore{kv: kv, log: log, cost: bcryptCost}
}

// ListUsers returns every user, seeding the demo user when no
// collection has been stored yet.
func (s *UserStore) ListUsers(ctx context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// CreateUser appends a new user.  It fails with ErrEmailExists when any
// user already has the same email (exact, case-sensitive match).
func (s *UserStore) CreateUser(ctx context.Context, in NewUser) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(in.Email) == "" {
		return model.User{}, ErrInvalidEmail
	}
	users, err := s.load(ctx)
	if err != nil {
		return model.User{}, err
	}
	if indexByEmail(users, in.Email) >= 0 {
		return model.User{}, ErrEmailExists
	}
	hash, err := utils.HashPassword(in.Password, s.cost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := model.User{
		ID:            uuid.NewString(),
		Email:         in.Email,
		PasswordHash:  hash,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Phone:         in.Phone,
		Address:       in.Address,
		FavoriteGenre: in.FavoriteGenre,
		Orders:        []model.Order{},
	}
	users = append(users, u)
	if err := s.save(ctx, users); err != nil {
		return model.User{}, err
	}
	s.log.Info("user created", zap.String("user_id", u.ID))
	return u, nil
}

// Login makes email the active session when a user matches both email
// and password.  On failure the active session is left untouched.
func (s *UserStore) Login(ctx context.Context, email, password string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return model.User{}, err
	}
	i := indexByEmail(users, email)
	if i < 0 || !utils.VerifyPassword(users[i].PasswordHash, password) {
		return model.User{}, ErrInvalidCredentials
	}
	if err := s.kv.Set(ctx, ActiveKey, []byte(email)); err != nil {
		return model.User{}, fmt.Errorf("store active session: %w", err)
	}
	return users[i], nil
}

// Logout clears the active session.
func (s *UserStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Delete(ctx, ActiveKey)
}

// ActiveEmail returns the active session key, or "" when logged out.
func (s *UserStore) ActiveEmail(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeEmail(ctx)
}

// ActiveUser returns the user matching the active session key.
func (s *UserStore) ActiveUser(ctx context.Context) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out model.User
	err := s.withActive(ctx, false, func(_ []model.User, u *model.User) error {
		out = *u
		return nil
	})
	return out, err
}

// UpdateUser replaces the active user's record with u.  The record is
// located by the active session key.  If u carries a different email
// the active key follows it so later lookups still resolve; an email
// owned by another user is rejected with ErrEmailExists and an empty
// one with ErrInvalidEmail.  An empty ID or PasswordHash keeps the
// stored value.
func (s *UserStore) UpdateUser(ctx context.Context, u model.User) error {
	if strings.TrimSpace(u.Email) == "" {
		return ErrInvalidEmail
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var newEmail string
	err := s.withActive(ctx, true, func(users []model.User, cur *model.User) error {
		if u.Email != cur.Email && indexByEmail(users, u.Email) >= 0 {
			return ErrEmailExists
		}
		if u.ID == "" {
			u.ID = cur.ID
		}
		if u.PasswordHash == "" {
			u.PasswordHash = cur.PasswordHash
		}
		if u.Orders == nil {
			u.Orders = []model.Order{}
		}
		if u.Email != cur.Email {
			newEmail = u.Email
		}
		*cur = u
		return nil
	})
	if err != nil {
		return err
	}
	return s.moveActive(ctx, newEmail)
}

// CreateOrder appends order to the active user's orders.
func (s *UserStore) CreateOrder(ctx context.Context, order model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.Status == "" {
		order.Status = model.OrderStatusOrdered
	}
	if !order.Status.Valid() {
		return ErrInvalidStatus
	}
	err := s.withActive(ctx, true, func(_ []model.User, u *model.User) error {
		if u.FindOrder(order.ID) != nil {
			return ErrDuplicateOrder
		}
		u.Orders = append(u.Orders, order)
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("order created", zap.Int64("order_id", order.ID), zap.Int("seats", order.Count))
	return nil
}

// Order returns one of the active user's orders.
func (s *UserStore) Order(ctx context.Context, orderID int64) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out model.Order
	err := s.withActive(ctx, false, func(_ []model.User, u *model.User) error {
		o := u.FindOrder(orderID)
		if o == nil {
			return ErrOrderNotFound
		}
		out = *o
		return nil
	})
	return out, err
}

// SetOrderStatus overwrites the status of one of the active user's
// orders.  Cancellation is one-way: a canceled order cannot become
// ordered again, while canceling twice is a no-op.
func (s *UserStore) SetOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !status.Valid() {
		return model.Order{}, ErrInvalidStatus
	}
	var out model.Order
	err := s.withActive(ctx, true, func(_ []model.User, u *model.User) error {
		o := u.FindOrder(orderID)
		if o == nil {
			return ErrOrderNotFound
		}
		if o.Status == model.OrderStatusCanceled && status == model.OrderStatusOrdered {
			return ErrInvalidTransition
		}
		o.Status = status
		out = *o
		return nil
	})
	return out, err
}

// UpdateOrderRating sets the rating of one of the active user's orders.
// The review text is only written when non-empty, so an empty review
// keeps whatever was stored before.  Ratings are independent of the
// order status.
func (s *UserStore) UpdateOrderRating(ctx context.Context, orderID int64, rating int, review string) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rating < 1 || rating > 5 {
		return model.Order{}, ErrInvalidRating
	}
	var out model.Order
	err := s.withActive(ctx, true, func(_ []model.User, u *model.User) error {
		o := u.FindOrder(orderID)
		if o == nil {
			return ErrOrderNotFound
		}
		r := rating
		o.Rating = &r
		if review != "" {
			o.Review = review
		}
		out = *o
		return nil
	})
	return out, err
}

// MovieReviews collects every rated order for movieID across all users.
func (s *UserStore) MovieReviews(ctx context.Context, movieID int) ([]model.MovieReview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	reviews := []model.MovieReview{}
	for _, u := range users {
		for _, o := range u.Orders {
			if o.MovieID != movieID || o.Rating == nil {
				continue
			}
			reviews = append(reviews, model.MovieReview{
				UserName: u.DisplayName(),
				Rating:   *o.Rating,
				Review:   o.Review,
				Date:     o.StartDate,
			})
		}
	}
	return reviews, nil
}

// Stats counts the active user's orders and liked (rating > 3) orders.
func (s *UserStore) Stats(ctx context.Context) (model.UserStats, error) {
	u, err := s.ActiveUser(ctx)
	if err != nil {
		return model.UserStats{}, err
	}
	st := model.UserStats{Orders: len(u.Orders)}
	for _, o := range u.Orders {
		if o.Liked() {
			st.Liked++
		}
	}
	return st, nil
}

// load reads the collection, seeding the demo user on first use.
// Callers hold s.mu.
func (s *UserStore) load(ctx context.Context) ([]model.User, error) {
	raw, err := s.kv.Get(ctx, UsersKey)
	if errors.Is(err, database.ErrKeyNotFound) {
		return s.seed(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	var users []model.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (s *UserStore) seed(ctx context.Context) ([]model.User, error) {
	hash, err := utils.HashPassword(DemoPassword, s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	users := []model.User{{
		ID:            uuid.NewString(),
		Email:         DemoEmail,
		PasswordHash:  hash,
		FirstName:     "John",
		LastName:      "Doe",
		Phone:         "+381061123123",
		Address:       "Danijelova 32",
		FavoriteGenre: "Comedy",
		Orders:        []model.Order{},
	}}
	if err := s.save(ctx, users); err != nil {
		return nil, err
	}
	s.log.Info("seeded demo user", zap.String("email", DemoEmail))
	return users, nil
}

func (s *UserStore) save(ctx context.Context, users []model.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := s.kv.Set(ctx, UsersKey, raw); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

func (s *UserStore) activeEmail(ctx context.Context) (string, error) {
	raw, err := s.kv.Get(ctx, ActiveKey)
	if errors.Is(err, database.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load active session: %w", err)
	}
	return string(raw), nil
}

// moveActive repoints the active session after an email change.
func (s *UserStore) moveActive(ctx context.Context, email string) error {
	if email == "" {
		return nil
	}
	if err := s.kv.Set(ctx, ActiveKey, []byte(email)); err != nil {
		return fmt.Errorf("store active session: %w", err)
	}
	return nil
}

// withActive loads the collection, finds the active user and runs fn
// on it.  When persist is true and fn succeeds the collection is
// written back.  Callers hold s.mu.
func (s *UserStore) withActive(ctx context.Context, persist bool, fn func(users []model.User, u *model.User) error) error {
	email, err := s.activeEmail(ctx)
	if err != nil {
		return err
	}
	if email == "" {
		return ErrNoActiveSession
	}
	users, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := indexByEmail(users, email)
	if i < 0 {
		return ErrNoActiveSession
	}
	if err := fn(users, &users[i]); err != nil {
		return err
	}
	if !persist {
		return nil
	}
	return s.save(ctx, users)
}

func indexByEmail(users []model.User, email string) int {
	for i := range users {
		if users[i].Email == email {
			return i
		}
	}
	return -1
}
