package bf

import (
	"fmt"
	"math"
)

const (
	// ln2 is the natural logarithm of 2.
	ln2 = 0.6931471805599453
	// ln2Squared is ln(2)^2.
	ln2Squared = 0.4804530139182014
)

const (
	// MaxBits caps m at 8 GiB of bit array.
	MaxBits = 1 << 36
	// MaxHashes caps k. p = 2^-256 is already far past any useful rate.
	MaxHashes = 256
)

// checkShape rejects shapes that cannot be allocated or probed.
func checkShape(m, k uint64) error {
	if m == 0 {
		return fmt.Errorf("%w: m must be > 0", ErrConfig)
	}
	if m > MaxBits {
		return fmt.Errorf("%w: m=%d exceeds %d bits", ErrConfig, m, uint64(MaxBits))
	}
	if k == 0 {
		return fmt.Errorf("%w: k must be >= 1", ErrConfig)
	}
	if k > MaxHashes {
		return fmt.Errorf("%w: k=%d exceeds %d", ErrConfig, k, MaxHashes)
	}
	return nil
}

// OptimalParams returns the bit count and hash count for n expected names
// at false positive rate p:
//
//	m = ceil(-(n * ln(p)) / ln(2)^2)
//	k = round((m / n) * ln(2)), at least 1
//
// These values are recorded in every snapshot, so this formula decides
// whether an old snapshot is still compatible with the running config.
func OptimalParams(n uint64, p float64) (m, k uint64, err error) {
	if n == 0 {
		return 0, 0, fmt.Errorf("%w: expected elements must be > 0", ErrConfig)
	}
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return 0, 0, fmt.Errorf("%w: false positive rate %v not in (0, 1)", ErrConfig, p)
	}

	// Range-check in float before converting; uint64() of an out-of-range
	// float is implementation defined.
	mf := math.Ceil(-(float64(n) * math.Log(p)) / ln2Squared)
	if math.IsNaN(mf) || math.IsInf(mf, 0) || mf > MaxBits {
		return 0, 0, fmt.Errorf("%w: %d names at rate %v need %g bits, max %d", ErrConfig, n, p, mf, uint64(MaxBits))
	}
	m = max(uint64(mf), 1)

	kf := math.Round(float64(m) / float64(n) * ln2)
	if math.IsNaN(kf) || kf > MaxHashes {
		return 0, 0, fmt.Errorf("%w: rate %v needs %g hashes, max %d", ErrConfig, p, kf, MaxHashes)
	}
	k = max(uint64(kf), 1)

	return m, k, nil
}

// EstimateFalsePositiveRate computes (1 - e^(-k*c/m))^k for c insertions.
func EstimateFalsePositiveRate(m, k, c uint64) float64 {
	if m == 0 || c == 0 {
		return 0
	}
	kf := float64(k)
	return math.Pow(1-math.Exp(-kf*float64(c)/float64(m)), kf)
}

// estimateInsertions recovers an insertion count from a fill level using
// c = -(m/k) * ln(1 - x/m). A saturated filter reports m.
func estimateInsertions(m, k, setBits uint64) uint64 {
	if m == 0 || k == 0 || setBits == 0 {
		return 0
	}
	if setBits >= m {
		return m
	}
	c := -(float64(m) / float64(k)) * math.Log(1-float64(setBits)/float64(m))
	return uint64(math.Round(c))
}

// expectedFromShape inverts the k formula: n = round(m * ln2 / k).
func expectedFromShape(m, k uint64) uint64 {
	return uint64(math.Round(float64(m) * ln2 / float64(k)))
}
