package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// ErrInvalidAmount is returned when a money string cannot be parsed.
var ErrInvalidAmount = errors.New("invalid amount")

// maxCents is the largest value a DECIMAL(10,2) column holds.
const maxCents = 99_999_999_99

// Cents is a non-negative money amount with two decimal places. It is
// written as a "123.45" string so no precision is lost in JSON.
type Cents int64

// ParseCents accepts plain decimals such as "12", "12.3" and "12.34".
// Negative amounts, sub-cent precision and values over 99999999.99 are
// rejected.
func ParseCents(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	c, err := CentsFromNumeric(n)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return c, nil
}

// CentsFromNumeric converts a NUMERIC value as read from Postgres. Trailing
// zeros past the second decimal are fine; any other sub-cent digit is not.
func CentsFromNumeric(n pgtype.Numeric) (Cents, error) {
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite || n.Int == nil || n.Int.Sign() < 0 {
		return 0, ErrInvalidAmount
	}

	v := new(big.Int).Set(n.Int)
	shift := int64(n.Exp) + 2
	switch {
	case shift > 0:
		v.Mul(v, new(big.Int).Exp(big.NewInt(10), big.NewInt(shift), nil))
	case shift < 0:
		var rem big.Int
		v.QuoRem(v, new(big.Int).Exp(big.NewInt(10), big.NewInt(-shift), nil), &rem)
		if rem.Sign() != 0 {
			return 0, ErrInvalidAmount
		}
	}

	if !v.IsInt64() || v.Int64() > maxCents {
		return 0, ErrInvalidAmount
	}
	return Cents(v.Int64()), nil
}

func (c Cents) String() string {
	return fmt.Sprintf("%d.%02d", int64(c)/100, int64(c)%100)
}

func (c Cents) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts a string ("12.50") or a bare JSON number (12.5).
func (c *Cents) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidAmount, string(b))
		}
		s = n.String()
	}

	v, err := ParseCents(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}
