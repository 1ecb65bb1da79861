package openfec

import "fmt"

// NormalizeCycle coerces a cycle year to the even end year of its
// two-year federal reporting period. Odd years are coerced down by one;
// cycles before 1976 are rejected. Normalization is idempotent.
func NormalizeCycle(cycle int) (int, error) {
	if cycle < 1976 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidCycle, cycle)
	}
	if cycle%2 != 0 {
		return cycle - 1, nil
	}
	return cycle, nil
}
