package address

import "math/rand/v2"

// Sample selects n distinct addresses uniformly at random without
// replacement. n is clamped to [0, len(addresses)]. The input is not
// modified; the result is in selection order.
func Sample(addresses []string, n int, rng *rand.Rand) []string {
	if n <= 0 {
		return []string{}
	}

	if n > len(addresses) {
		n = len(addresses)
	}

	pool := make([]string, len(addresses))
	copy(pool, addresses)

	// partial Fisher-Yates: the first n slots hold the selection
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	return pool[:n]
}
