package benchmark

import "strings"

// SyntheticPrompt builds a filler prompt of approximately the given token
// count. Each "x " unit tokenizes to a single token on common vocabularies,
// so the payload length scales linearly with the requested count.
func SyntheticPrompt(tokens int) string {
	if tokens <= 0 {
		return ""
	}
	return strings.Repeat("x ", tokens)
}
