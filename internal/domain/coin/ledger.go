package coin

import (
	"fmt"
	"slices"
	"strings"
)

// Ledger is a bag of coins: one non-negative count per denomination.
// Ledgers are values; every operation returns a new ledger and never aliases
// the receiver's counts.
type Ledger struct {
	denoms Denominations
	counts []int
}

// NewLedger builds a ledger from positional counts. Missing trailing counts are zero.
func NewLedger(d Denominations, counts ...int) (Ledger, error) {
	if len(counts) > d.Len() {
		return Ledger{}, fmt.Errorf("%w: %d counts for %d denominations", ErrUnknownDenomination, len(counts), d.Len())
	}
	l := Empty(d)
	for i, c := range counts {
		if c < 0 {
			return Ledger{}, fmt.Errorf("%w: %d coins of %d", ErrNegativeCount, c, d.Face(i))
		}
		l.counts[i] = c
	}
	return l, nil
}

// Empty returns a ledger holding no coins
func Empty(d Denominations) Ledger {
	return Ledger{denoms: d, counts: make([]int, d.Len())}
}

// FromCounts builds a ledger from a face value -> count mapping
func FromCounts(d Denominations, byFace map[int]int) (Ledger, error) {
	l := Empty(d)
	for face, c := range byFace {
		i, ok := d.Index(face)
		if !ok {
			return Ledger{}, fmt.Errorf("%w: %d", ErrUnknownDenomination, face)
		}
		if c < 0 {
			return Ledger{}, fmt.Errorf("%w: %d coins of %d", ErrNegativeCount, c, face)
		}
		l.counts[i] = c
	}
	return l, nil
}

// ParseCoins builds a ledger from the face values of individually inserted coins
func ParseCoins(d Denominations, faces []int) (Ledger, error) {
	l := Empty(d)
	for _, face := range faces {
		i, ok := d.Index(face)
		if !ok {
			return Ledger{}, fmt.Errorf("%w: %d", ErrUnknownDenomination, face)
		}
		l.counts[i]++
	}
	return l, nil
}

// FromValue decomposes sum with an unlimited supply of every denomination,
// taking as many of the largest coin as fit before moving to the next one.
// The result is only a valid representation for canonical denomination sets.
func FromValue(d Denominations, sum int) Ledger {
	l := Empty(d)
	for i, face := range d.faces {
		l.counts[i] = sum / face
		sum %= face
	}
	return l
}

// Denominations returns the set the ledger is indexed against
func (l Ledger) Denominations() Denominations {
	return l.denoms
}

// Count returns the number of coins of the given face value
func (l Ledger) Count(face int) int {
	i, ok := l.denoms.Index(face)
	if !ok {
		return 0
	}
	return l.counts[i]
}

// Counts returns a copy of the positional counts
func (l Ledger) Counts() []int {
	return slices.Clone(l.counts)
}

// Clone returns a ledger holding the same coins that shares nothing with the receiver
func (l Ledger) Clone() Ledger {
	return Ledger{denoms: l.denoms, counts: slices.Clone(l.counts)}
}

// Total returns the face value of all coins in the ledger
func (l Ledger) Total() int {
	total := 0
	for i, c := range l.counts {
		total += l.denoms.faces[i] * c
	}
	return total
}

// Coins returns the number of coins in the ledger
func (l Ledger) Coins() int {
	n := 0
	for _, c := range l.counts {
		n += c
	}
	return n
}

// IsZero reports whether the ledger holds no coins
func (l Ledger) IsZero() bool {
	return l.Coins() == 0
}

// Equal reports whether both ledgers share a denomination set and hold the same coins
func (l Ledger) Equal(other Ledger) bool {
	return l.denoms.Equal(other.denoms) && slices.Equal(l.counts, other.counts)
}

// Combine returns the elementwise sum of both ledgers.
// Ledgers over different denomination sets are a programming error and panic.
func (l Ledger) Combine(other Ledger) Ledger {
	l.mustMatch(other, "combine")
	out := Empty(l.denoms)
	for i := range l.counts {
		out.counts[i] = l.counts[i] + other.counts[i]
	}
	return out
}

// Subtract returns the elementwise difference of both ledgers.
// The receiver must hold at least as many coins of every denomination as other;
// anything else is a programming error and panics.
func (l Ledger) Subtract(other Ledger) Ledger {
	l.mustMatch(other, "subtract")
	out := Empty(l.denoms)
	for i := range l.counts {
		if other.counts[i] > l.counts[i] {
			panic(fmt.Sprintf("coin: subtract %d coins of %d from %d", other.counts[i], l.denoms.faces[i], l.counts[i]))
		}
		out.counts[i] = l.counts[i] - other.counts[i]
	}
	return out
}

// Covers reports whether the receiver holds at least as many coins as other in every denomination
func (l Ledger) Covers(other Ledger) bool {
	l.mustMatch(other, "compare")
	for i := range l.counts {
		if other.counts[i] > l.counts[i] {
			return false
		}
	}
	return true
}

// String renders the non-zero counts as {face:count, ...}, largest face first
func (l Ledger) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for i, c := range l.counts {
		if c == 0 {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d:%d", l.denoms.faces[i], c)
		first = false
	}
	b.WriteByte('}')
	return b.String()
}

func (l Ledger) mustMatch(other Ledger, op string) {
	if !l.denoms.Equal(other.denoms) || len(l.counts) != len(other.counts) {
		panic(fmt.Sprintf("coin: %s ledgers over %v and %v", op, l.denoms, other.denoms))
	}
}
