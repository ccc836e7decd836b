package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/cinema-ticketing/internal/database"
	"github.com/iliyamo/cinema-ticketing/internal/model"
	"github.com/iliyamo/cinema-ticketing/internal/repository"
)

func setup(t *testing.T) (*repository.UserStore, model.Order) {
	t.Helper()
	ctx := context.Background()
	store := repository.NewUserStore(database.NewMemoryKV(), nil, bcrypt.MinCost)
	_, err := store.Login(ctx, repository.DemoEmail, repository.DemoPassword)
	require.NoError(t, err)
	order := model.Order{ID: 11, MovieID: 4, Title: "Up", Count: 1, PricePerItem: 890, Seats: []string{"B2"}}
	require.NoError(t, store.CreateOrder(ctx, order))
	stored, err := store.Order(ctx, 11)
	require.NoError(t, err)
	return store, stored
}

func TestSubmit(t *testing.T) {
	store, order := setup(t)
	w := NewWorkflow(store)
	w.Open(&order)

	require.NoError(t, w.Submit(context.Background(), 4, "  lovely  "))

	_, open := w.Target()
	assert.False(t, open, "the slot closes after a successful submit")
	require.NotNil(t, order.Rating)
	assert.Equal(t, 4, *order.Rating)
	assert.Equal(t, "lovely", order.Review)

	stored, err := store.Order(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, order, stored)
}

func TestSubmit_EmptyTextKeepsReview(t *testing.T) {
	store, order := setup(t)
	w := NewWorkflow(store)

	w.Open(&order)
	require.NoError(t, w.Submit(context.Background(), 2, "meh"))
	w.Open(&order)
	require.NoError(t, w.Submit(context.Background(), 5, "   "))

	assert.Equal(t, 5, *order.Rating)
	assert.Equal(t, "meh", order.Review)
}

func TestSubmit_RequiresTargetAndRating(t *testing.T) {
	store, order := setup(t)
	w := NewWorkflow(store)

	assert.ErrorIs(t, w.Submit(context.Background(), 3, "x"), ErrNoTarget)

	w.Open(&order)
	assert.ErrorIs(t, w.Submit(context.Background(), 0, "x"), ErrRatingRequired)
	got, open := w.Target()
	assert.True(t, open)
	assert.Same(t, &order, got)
	assert.Nil(t, order.Rating)
}

func TestSubmit_StoreFailureKeepsSlotOpen(t *testing.T) {
	store, order := setup(t)
	w := NewWorkflow(store)
	missing := order
	missing.ID = 999
	w.Open(&missing)

	err := w.Submit(context.Background(), 3, "x")
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
	_, open := w.Target()
	assert.True(t, open)
	assert.Nil(t, missing.Rating)

	assert.ErrorIs(t, w.Submit(context.Background(), 9, "x"), repository.ErrInvalidRating)
}

func TestOpenReplacesAndClose(t *testing.T) {
	store, order := setup(t)
	w := NewWorkflow(store)
	other := order
	other.ID = 12

	w.Open(&order)
	w.Open(&other)
	got, _ := w.Target()
	assert.Same(t, &other, got)

	w.Close()
	_, open := w.Target()
	assert.False(t, open)
}
