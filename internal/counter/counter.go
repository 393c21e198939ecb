// Package counter provides the unbounded decimal tallies behind the
// repeater's status line. Iteration totals overflow uint64 within hours at
// multi-GB memory settings, so everything here is exact at any magnitude.
package counter

import (
	"fmt"
	"math/big"
	"strings"
)

// Scale selects the suffix ladder for display.
type Scale int

const (
	// ScaleIterations uses the short-scale ladder: k M B T q Q s S O N D.
	ScaleIterations Scale = iota
	// ScaleFrequency uses the SI ladder: k M G T P E Z Y R.
	ScaleFrequency
)

const (
	iterationSuffixes = " kMBTqQsSOND"
	frequencySuffixes = " kMGTPEZYR"
)

// Tally is an arbitrary-precision non-negative counter.
type Tally struct {
	n big.Int
}

// NewTally returns a zero tally.
func NewTally() *Tally {
	return &Tally{}
}

// SetProduct sets the tally to the product of the given factors.
// No factors means zero.
func (t *Tally) SetProduct(factors ...uint64) *Tally {
	if len(factors) == 0 {
		t.n.SetUint64(0)
		return t
	}
	t.n.SetUint64(factors[0])
	var f big.Int
	for _, v := range factors[1:] {
		f.SetUint64(v)
		t.n.Mul(&t.n, &f)
	}
	return t
}

// Add accumulates other into t.
func (t *Tally) Add(other *Tally) *Tally {
	t.n.Add(&t.n, &other.n)
	return t
}

// IsZero reports whether the tally is zero.
func (t *Tally) IsZero() bool {
	return t.n.Sign() == 0
}

func (t *Tally) String() string {
	return t.n.String()
}

// Suffix renders the tally as the status line does: up to three leading
// digits, a point, the next three digits, and a power-of-1000 letter from
// the chosen ladder.
func (t *Tally) Suffix(scale Scale) string {
	return Suffix(t.n.String(), scale)
}

// Exponential renders the tally in scientific notation, e.g. "1.234e+15".
func (t *Tally) Exponential() string {
	return Exponential(t.n.String())
}

// Multiply returns the product of two decimal strings. Unparseable input
// counts as zero.
func Multiply(a, b string) string {
	x := parse(a)
	y := parse(b)
	return x.Mul(x, y).String()
}

// Sum returns the sum of two decimal strings. Unparseable input counts
// as zero.
func Sum(a, b string) string {
	x := parse(a)
	y := parse(b)
	return x.Add(x, y).String()
}

func parse(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return new(big.Int)
	}
	return n
}

// Suffix formats a decimal string with a magnitude letter. The letter is
// chosen by the digit count; numbers beyond the ladder fall back to a
// bare space, matching the display behavior at absurd magnitudes.
func Suffix(num string, scale Scale) string {
	ladder := iterationSuffixes
	if scale == ScaleFrequency {
		ladder = frequencySuffixes
	}
	if num == "" {
		num = "0"
	}
	power := len(num) - 1
	suffix := byte(' ')
	if idx := power / 3; idx < len(ladder) {
		suffix = ladder[idx]
	}
	head := power%3 + 1
	tail := head + 3
	if tail > len(num) {
		tail = len(num)
	}
	return num[:head] + "." + num[head:tail] + string(suffix)
}

// Exponential formats a decimal string in scientific notation with three
// fractional digits.
func Exponential(num string) string {
	if num == "" {
		num = "0"
	}
	power := len(num) - 1
	frac := num[1:]
	if len(frac) > 3 {
		frac = frac[:3]
	}
	for len(frac) < 3 {
		frac += "0"
	}
	return fmt.Sprintf("%s.%se+%02d", num[:1], frac, power)
}

// FormatTime renders elapsed seconds as HH:MM:SS. Hours widen past two
// digits rather than wrapping.
func FormatTime(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// ParseClock validates an HH:MM:SS duration string and returns its total
// seconds. Used only to warn on malformed --dur values; the run loop
// compares formatted strings.
func ParseClock(clock string) (int64, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("duration %q is not HH:MM:SS", clock)
	}
	var h, m, s int64
	if _, err := fmt.Sscanf(clock, "%d:%d:%d", &h, &m, &s); err != nil {
		return 0, fmt.Errorf("duration %q is not HH:MM:SS: %w", clock, err)
	}
	if h < 0 || m < 0 || m > 59 || s < 0 || s > 59 {
		return 0, fmt.Errorf("duration %q has out-of-range fields", clock)
	}
	return h*3600 + m*60 + s, nil
}
