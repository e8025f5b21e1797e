package domain

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount of rupees held as integer paise.
type Money int64

var hundred = decimal.NewFromInt(100)

// Paise builds a Money value from a count of paise.
func Paise(p int64) Money { return Money(p) }

// Rupees builds a Money value from whole rupees.
func Rupees(r int64) Money { return Money(r * 100) }

// ParseMoney parses a decimal rupee amount such as "25000" or "1417.50".
// More than two fractional digits is an error; the value is never rounded.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a decimal amount", ErrInvalidAmount, s)
	}
	return MoneyFromDecimal(d)
}

// MoneyFromDecimal converts an exact decimal rupee amount to Money.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	p := d.Shift(2)
	if !p.IsInteger() {
		return 0, fmt.Errorf("%w: %s has more than two decimal places", ErrInvalidAmount, d.String())
	}
	bi := p.BigInt()
	if !bi.IsInt64() {
		return 0, fmt.Errorf("%w: %s is out of range", ErrInvalidAmount, d.String())
	}
	return Money(bi.Int64()), nil
}

// Decimal returns the amount in rupees as an exact decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// String formats the amount with exactly two decimal places, e.g. "1125.00".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// IsNegative reports whether m is below zero.
func (m Money) IsNegative() bool { return m < 0 }

// MarshalJSON encodes Money as a quoted decimal string so no client parses it as a float.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

// UnmarshalJSON accepts either a quoted decimal string or a bare JSON number.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidAmount, s)
		}
		s = unq
	}
	v, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Rate is a tax rate in percent, e.g. 18.00.
type Rate struct {
	decimal.Decimal
}

// NewRate builds a Rate from a percentage expressed as value × 10^exp, e.g. NewRate(9, 0) or NewRate(1250, -2).
func NewRate(value int64, exp int32) Rate {
	return Rate{decimal.New(value, exp)}
}

// ParseRate parses a percentage such as "18" or "12.5".
func ParseRate(s string) (Rate, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Rate{}, fmt.Errorf("%w: %q is not a decimal rate", ErrInvalidAmount, s)
	}
	r := Rate{d}
	if err := r.Validate(); err != nil {
		return Rate{}, err
	}
	return r, nil
}

// Validate checks that the rate lies in [0, 100] with at most two decimal places.
func (r Rate) Validate() error {
	if r.IsNegative() || r.GreaterThan(hundred) {
		return fmt.Errorf("%w: rate %s must be between 0 and 100", ErrInvalidAmount, r.String())
	}
	if !r.Shift(2).IsInteger() {
		return fmt.Errorf("%w: rate %s has more than two decimal places", ErrInvalidAmount, r.String())
	}
	return nil
}

// String formats the rate with two decimal places.
func (r Rate) String() string {
	return r.StringFixed(2)
}

// MarshalJSON encodes the rate as a quoted two-decimal string.
func (r Rate) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(r.String())), nil
}

// UnmarshalJSON accepts a quoted decimal or bare number and validates the range.
func (r *Rate) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, string(data))
	}
	v := Rate{d}
	if err := v.Validate(); err != nil {
		return err
	}
	*r = v
	return nil
}
