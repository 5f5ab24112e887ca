package invoice

import (
	"errors"
	"math"
	"regexp"

	"github.com/shopspring/decimal"
)

var (
	errNotANumber  = errors.New("amount is not a number")
	errAmountRange = errors.New("amount out of range")

	// Plain decimal notation only; exponents would let a short input expand
	// into an enormous integer before the range check runs.
	amountRE = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)$`)

	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
)

const maxAmountLen = 32

// ToMinorUnits converts a major-unit amount such as "12.50" into an integer
// count of minor units (1250). Fractions of a minor unit are rounded half away
// from zero.
func ToMinorUnits(s string) (int64, error) {
	if len(s) > maxAmountLen || !amountRE.MatchString(s) {
		return 0, errNotANumber
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errNotANumber
	}
	minor := d.Shift(2).Round(0)
	if minor.GreaterThan(maxMinorUnits) || minor.LessThan(maxMinorUnits.Neg()) {
		return 0, errAmountRange
	}
	return minor.IntPart(), nil
}

// FormatMinorUnits renders minor units back as a major-unit string ("12.50").
func FormatMinorUnits(amount int64) string {
	return decimal.New(amount, -2).StringFixed(2)
}
