// Package units converts between display ICX amounts and loop, the base unit.
// Conversions are decimal-exact.
package units

import (
	"math/big"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/liquid-icx/licx-client/internal/constants"
	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount reads a user-entered display amount such as "1.5".
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errors.Wrap(ErrInvalidAmount, "empty")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(ErrInvalidAmount, "%q", s)
	}
	return d, nil
}

// ToLoop converts a display amount to loop. Negative amounts and fractions
// below one loop are rejected.
func ToLoop(d decimal.Decimal) (*big.Int, error) {
	if d.Sign() < 0 {
		return nil, errors.Wrapf(ErrInvalidAmount, "%s is negative", d)
	}
	loop := d.Shift(constants.ICXDecimals)
	if !loop.IsInteger() {
		return nil, errors.Wrapf(ErrInvalidAmount, "%s has more than %d decimals", d, constants.ICXDecimals)
	}
	return loop.BigInt(), nil
}

func FromLoop(loop *big.Int) decimal.Decimal {
	if loop == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(loop, -constants.ICXDecimals)
}

// Format renders a loop amount in ICX, truncated to places decimals.
func Format(loop *big.Int, places int32) string {
	return FromLoop(loop).Truncate(places).String()
}
