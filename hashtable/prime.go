package hashtable

// IsPrime reports whether x is prime. Values <= 1 are not prime.
func IsPrime(x int) bool {
	if x < 2 {
		return false
	}
	if x < 4 {
		return true
	}
	if x%2 == 0 {
		return false
	}
	for i := 3; i*i <= x; i += 2 {
		if x%i == 0 {
			return false
		}
	}
	return true
}

// NextPrime returns the smallest prime >= x.
func NextPrime(x int) int {
	if x <= 2 {
		return 2
	}
	for !IsPrime(x) {
		x++
	}
	return x
}

// PrevPrime returns the largest prime <= x, or 0 if there is none.
func PrevPrime(x int) int {
	for ; x >= 2; x-- {
		if IsPrime(x) {
			return x
		}
	}
	return 0
}
