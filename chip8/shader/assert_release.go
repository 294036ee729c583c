//go:build !debug

package shader

// checkWordIndex clamps rather than reading out of bounds. Build with the
// debug tag to turn a bad index into a panic.
func checkWordIndex(word, n int) int {
	if word < 0 {
		return 0
	}
	if word >= n {
		return n - 1
	}
	return word
}
