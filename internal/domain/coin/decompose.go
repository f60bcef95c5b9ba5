package coin

import (
	"fmt"
	"math"
)

// Strategy selects how change is drawn from a pool of coins
type Strategy string

const (
	// StrategyGreedy is the single-pass largest-first search of DecomposeFor
	StrategyGreedy Strategy = "greedy"

	// StrategyMinimal is the exhaustive minimum-coin search of DecomposeMinimal
	StrategyMinimal Strategy = "minimal"
)

// IsValid returns true if the strategy is a known strategy
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyGreedy, StrategyMinimal:
		return true
	default:
		return false
	}
}

// String returns the string representation of the strategy
func (s Strategy) String() string {
	return string(s)
}

// DecomposeFor draws coins summing exactly to target from the ledger's own counts.
//
// Denominations are visited largest first and each is visited once: for every
// face the search keeps adding coins while one more still fits under the
// remaining target and the ledger still has one to give, then commits that
// count and moves on. There is no backtracking across denominations, so a
// target that is reachable only by taking fewer of a large coin is reported as
// unreachable. The second result is false when the remainder cannot be closed.
func (l Ledger) DecomposeFor(target int) (Ledger, bool) {
	if target < 0 {
		return Ledger{}, false
	}

	out := Empty(l.denoms)
	sum := 0
	for i, face := range l.denoms.faces {
		remaining := target - sum
		if remaining == 0 {
			break
		}

		taken := 0
		for taken < l.counts[i] && (taken+1)*face <= remaining {
			taken++
		}

		out.counts[i] = taken
		sum += taken * face
	}

	if sum > target {
		panic(fmt.Sprintf("coin: decomposition of %d overshot to %d", target, sum))
	}
	if sum < target {
		return Ledger{}, false
	}
	return out, true
}

// DecomposeMinimal draws the fewest coins summing exactly to target from the
// ledger's own counts. Unlike DecomposeFor it explores every combination, so
// it finds change whenever change exists. It is only used when
// StrategyMinimal is selected.
func (l Ledger) DecomposeMinimal(target int) (Ledger, bool) {
	if target < 0 {
		return Ledger{}, false
	}

	const unreachable = math.MaxInt

	// best[v] is the fewest coins reaching v with the denominations seen so far;
	// used[i][v] is how many coins of face i that optimum took.
	best := make([]int, target+1)
	for v := 1; v <= target; v++ {
		best[v] = unreachable
	}
	used := make([][]int, l.denoms.Len())

	for i, face := range l.denoms.faces {
		next := make([]int, target+1)
		used[i] = make([]int, target+1)
		for v := 0; v <= target; v++ {
			next[v] = best[v]
			for k := 1; k <= l.counts[i] && k*face <= v; k++ {
				prev := best[v-k*face]
				if prev != unreachable && prev+k < next[v] {
					next[v] = prev + k
					used[i][v] = k
				}
			}
		}
		best = next
	}

	if best[target] == unreachable {
		return Ledger{}, false
	}

	out := Empty(l.denoms)
	v := target
	for i := l.denoms.Len() - 1; i >= 0; i-- {
		k := used[i][v]
		out.counts[i] = k
		v -= k * l.denoms.faces[i]
	}
	return out, true
}

// decompose dispatches to the search selected by strategy
func (l Ledger) decompose(strategy Strategy, target int) (Ledger, bool) {
	if strategy == StrategyMinimal {
		return l.DecomposeMinimal(target)
	}
	return l.DecomposeFor(target)
}
