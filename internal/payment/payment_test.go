package payment

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

func validCard() Card {
	return Card{
		Number:        "4111 1111 1111 1111",
		Holder:        "John Doe",
		Expiry:        "09/28",
		CVV:           "123",
		TermsAccepted: true,
	}
}

func fieldErrors(t *testing.T, err error) FieldErrors {
	t.Helper()
	var fe FieldErrors
	require.True(t, errors.As(err, &fe), "expected FieldErrors, got %v", err)
	return fe
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, Validate(validCard(), now))

	c := validCard()
	c.Number = "41111111111111112222"
	c.Expiry = "12/36"
	assert.NoError(t, Validate(c, now))

	c.Expiry = "01/26"
	assert.NoError(t, Validate(c, now), "the current year is allowed")
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Card)
		field string
	}{
		{"short number", func(c *Card) { c.Number = "4111 1111 1111 111" }, "card_number"},
		{"letters in number", func(c *Card) { c.Number = "4111 1111 1111 111a" }, "card_number"},
		{"empty number", func(c *Card) { c.Number = "  " }, "card_number"},
		{"digits in holder", func(c *Card) { c.Holder = "John D0e" }, "card_holder"},
		{"empty holder", func(c *Card) { c.Holder = "" }, "card_holder"},
		{"bad expiry format", func(c *Card) { c.Expiry = "0928" }, "expiry"},
		{"month 13", func(c *Card) { c.Expiry = "13/28" }, "expiry"},
		{"month 00", func(c *Card) { c.Expiry = "00/28" }, "expiry"},
		{"past year", func(c *Card) { c.Expiry = "12/25" }, "expiry"},
		{"too far", func(c *Card) { c.Expiry = "01/37" }, "expiry"},
		{"short cvv", func(c *Card) { c.CVV = "12" }, "cvv"},
		{"long cvv", func(c *Card) { c.CVV = "1234" }, "cvv"},
		{"letter cvv", func(c *Card) { c.CVV = "12a" }, "cvv"},
		{"terms", func(c *Card) { c.TermsAccepted = false }, "terms_accepted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCard()
			tt.edit(&c)
			fe := fieldErrors(t, Validate(c, now))
			assert.Len(t, fe, 1)
			assert.Contains(t, fe, tt.field)
		})
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	fe := fieldErrors(t, Validate(Card{}, now))
	assert.Len(t, fe, 5)
	assert.Equal(t,
		"invalid payment: card_holder: card holder is required; card_number: card number is required; cvv: cvv is required; expiry: expiry date is required; terms_accepted: terms must be accepted",
		fe.Error())
}
