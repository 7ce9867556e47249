package hashtable

// Multipliers for the two hash functions. Both are primes larger than the
// ASCII alphabet.
const (
	Prime1 = 163
	Prime2 = 131
)

// Hash computes (sum of a^(len-i+1) * s[i]) mod n over the bytes of s.
// The modulus is applied at every step so the accumulator never overflows.
func Hash(s string, a, n int) int {
	if n <= 0 {
		panic("hashtable: hash modulus must be positive")
	}
	mod := uint64(n)
	base := uint64(a) % mod

	// the last byte carries a^2, each step towards the front multiplies by a
	pow := base * base % mod
	var h uint64
	for i := len(s) - 1; i >= 0; i-- {
		h = (h + pow*uint64(s[i])%mod) % mod
		pow = pow * base % mod
	}
	return int(h)
}

// probeIndex returns the slot visited on the given attempt for s in a table
// of n slots.
func probeIndex(s string, n, attempt int) int {
	return probe(Hash(s, Prime1, n), Hash(s, Prime2, n), n, attempt)
}

// probe combines a precomputed primary hash and secondary hash into a slot
// index. A stride that is a multiple of n would pin every attempt to the
// primary slot, so it is replaced by 1.
func probe(hashA, hashB, n, attempt int) int {
	stride := uint64(hashB+1) % uint64(n)
	if stride == 0 {
		stride = 1
	}
	return int((uint64(hashA) + uint64(attempt)*stride) % uint64(n))
}
