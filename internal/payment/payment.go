// Package payment validates card details submitted for an order.
package payment

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	minCardDigits  = 16
	maxExpiryYears = 10
)

// Card is the submitted payment form.
type Card struct {
	Number        string `json:"card_number"`
	Holder        string `json:"card_holder"`
	Expiry        string `json:"expiry"`
	CVV           string `json:"cvv"`
	TermsAccepted bool   `json:"terms_accepted"`
}

// FieldErrors maps a form field to its problem.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e[k]
	}
	return "invalid payment: " + strings.Join(parts, "; ")
}

// Validate checks every field of c against the date now and returns
// FieldErrors listing all problems, or nil.
func Validate(c Card, now time.Time) error {
	errs := FieldErrors{}

	number := strings.Join(strings.Fields(c.Number), "")
	switch {
	case number == "":
		errs["card_number"] = "card number is required"
	case !allDigits(number):
		errs["card_number"] = "card number may only contain digits"
	case len(number) < minCardDigits:
		errs["card_number"] = fmt.Sprintf("card number must have at least %d digits", minCardDigits)
	}

	switch holder := strings.TrimSpace(c.Holder); {
	case holder == "":
		errs["card_holder"] = "card holder is required"
	case !lettersAndSpaces(holder):
		errs["card_holder"] = "card holder may only contain letters"
	}

	if msg := checkExpiry(c.Expiry, now); msg != "" {
		errs["expiry"] = msg
	}

	switch {
	case c.CVV == "":
		errs["cvv"] = "cvv is required"
	case !allDigits(c.CVV):
		errs["cvv"] = "cvv may only contain digits"
	case len(c.CVV) != 3:
		errs["cvv"] = "cvv must have 3 digits"
	}

	if !c.TermsAccepted {
		errs["terms_accepted"] = "terms must be accepted"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func checkExpiry(v string, now time.Time) string {
	if v == "" {
		return "expiry date is required"
	}
	if len(v) != 5 || v[2] != '/' || !allDigits(v[:2]) || !allDigits(v[3:]) {
		return "expiry date must be MM/YY"
	}
	month, _ := strconv.Atoi(v[:2])
	year, _ := strconv.Atoi(v[3:])
	if month < 1 || month > 12 {
		return "month must be between 01 and 12"
	}
	current := now.Year() % 100
	if year < current {
		return "year cannot be in the past"
	}
	if year > current+maxExpiryYears {
		return fmt.Sprintf("year cannot be more than %d years ahead", maxExpiryYears)
	}
	return ""
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func lettersAndSpaces(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) && !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}
