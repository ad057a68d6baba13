package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a fixed-point monetary value with two fractional digits.
// Every constructor and arithmetic operation re-normalizes the result by
// rounding half-up to cents, so two Amounts representing the same value
// always compare equal.
type Amount struct {
	dec decimal.Decimal
}

// Zero returns the zero amount.
func Zero() Amount {
	return Amount{}
}

// FromInt constructs an Amount from a whole number of currency units.
func FromInt(n int64) Amount {
	return Amount{dec: decimal.NewFromInt(n)}
}

// FromDecimal constructs an Amount from an arbitrary decimal, rounding to cents.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount{dec: d.Round(2)}
}

// Parse constructs an Amount from a decimal-formatted string such as "12.345",
// which normalizes to 12.35.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return FromDecimal(d), nil
}

// MustParse is Parse for trusted literals; it panics on malformed input.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Add(b Amount) Amount {
	return FromDecimal(a.dec.Add(b.dec))
}

func (a Amount) Sub(b Amount) Amount {
	return FromDecimal(a.dec.Sub(b.dec))
}

func (a Amount) Neg() Amount {
	return Amount{dec: a.dec.Neg()}
}

// MulRate multiplies the amount by a fractional rate (e.g. a fee percentage
// of 0.01) and rounds the product back to cents.
func (a Amount) MulRate(rate decimal.Decimal) Amount {
	return FromDecimal(a.dec.Mul(rate))
}

// Cmp returns -1, 0 or 1 if a is less than, equal to or greater than b.
func (a Amount) Cmp(b Amount) int {
	return a.dec.Cmp(b.dec)
}

func (a Amount) Equal(b Amount) bool {
	return a.dec.Equal(b.dec)
}

func (a Amount) IsPositive() bool {
	return a.dec.IsPositive()
}

func (a Amount) IsNegative() bool {
	return a.dec.IsNegative()
}

func (a Amount) IsZero() bool {
	return a.dec.IsZero()
}

// Decimal exposes the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal {
	return a.dec
}

// String renders the amount with exactly two fractional digits.
func (a Amount) String() string {
	return a.dec.StringFixed(2)
}

// MarshalJSON renders the amount as a quoted decimal string, e.g. "89.50".
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts either a quoted decimal string or a bare JSON number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
