package main

import "strconv"

// itoaSimple renders an int as a decimal string, used throughout the
// reply helpers for numeric parameters (counts, lengths, timestamps).
func itoaSimple(n int) string {
	return strconv.Itoa(n)
}
