//go:build debug

package shader

import "fmt"

func checkWordIndex(word, n int) int {
	if word < 0 || word >= n {
		panic(fmt.Sprintf("shader: word index %d out of range [0,%d); viewport does not match bitmap and scale", word, n))
	}
	return word
}
