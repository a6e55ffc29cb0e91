package schema

import "strings"

// Clamp bounds v to the inclusive [lo, hi] range.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampQuality normalizes a quality score to [0,100]. Out-of-range values
// collapse to 0 rather than the nearest bound: an invalid scorer result
// must never masquerade as a near-perfect one.
func ClampQuality(v int) (int, bool) {
	if v < 0 || v > 100 {
		return 0, false
	}
	return v, true
}

// StudentHandle derives a student identifier from a commit author email.
// GitHub noreply addresses ("12345+user@users.noreply.github.com" or
// "user@users.noreply.github.com") yield the bare username; anything else
// falls back on the local part of the address.
func StudentHandle(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "unknown"
	}
	local, _, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return "unknown"
	}
	if strings.HasSuffix(email, "@users.noreply.github.com") {
		if _, user, found := strings.Cut(local, "+"); found {
			return user
		}
	}
	return local
}
