package primemap

// NextPrime returns the least prime >= max(n, 3). The floor of 3 keeps the
// probe decrement 1 + hash%(capacity-2) defined for every table it sizes.
func NextPrime(n int) int {
	if n <= 3 {
		return 3
	}

	if n%2 == 0 {
		n++
	}
	for !isPrime(n) {
		n += 2
	}

	return n
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	if n%3 == 0 {
		return n == 3
	}

	for d := 5; d*d <= n; d += 6 {
		if n%d == 0 || n%(d+2) == 0 {
			return false
		}
	}

	return true
}
