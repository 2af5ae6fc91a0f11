package tracker

import (
	"fmt"
	"math"
	"strconv"
)

// Percent is a percentage, 12.5 is 12.5%.
type Percent float64

// Growth returns the percentage change of a ratio, Growth(1.1) is 10%.
func Growth(ratio float64) Percent { return Percent((ratio - 1) * 100) }

// Equal compares percentages to the hundredth of a basis point.
func (p Percent) Equal(q Percent) bool { return math.Abs(float64(p-q)) < 0.0001 }

func (p Percent) String() string { return fmt.Sprintf("%.2f%%", p) }

// SignedString always shows the sign, except for zero.
func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" || res == "-0.00%" {
		return "0.00%"
	}
	return res
}

// MarshalJSON writes the percentage rounded to 4 decimals.
func (p Percent) MarshalJSON() ([]byte, error) {
	return strconv.AppendFloat(nil, math.Round(float64(p)*1e4)/1e4, 'f', -1, 64), nil
}
