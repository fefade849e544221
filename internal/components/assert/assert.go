// Package assert holds invariant checks for values wired at construction
// time, a failed check is a programming error and panics.
package assert

import "fmt"

func NotNil(value any, name string) {
	if value == nil {
		panic(fmt.Sprintf("expected %s to be not nil", name))
	}
}

func NotEmptyStr(str string, name string) {
	if str == "" {
		panic(fmt.Sprintf("expected %s to be non-empty", name))
	}
}

func NotNegative[T ~int | ~int64 | ~float64](value T, name string) {
	if value < 0 {
		panic(fmt.Sprintf("expected %s to be >= 0, got %v", name, value))
	}
}
