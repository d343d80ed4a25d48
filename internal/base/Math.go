package base

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

/***************************************
 * Size formatting
 ***************************************/

type SizeInBytes[T constraints.Integer] struct {
	Value T
}

func MakeSizeInBytes[T constraints.Integer](value T) SizeInBytes[T] {
	return SizeInBytes[T]{Value: value}
}

func (x SizeInBytes[T]) String() string {
	f := float64(x.Value)
	switch {
	case f < 1024:
		return fmt.Sprintf("%d b", x.Value)
	case f < 1024*1024:
		return fmt.Sprintf("%.2f KiB", f/1024)
	case f < 1024*1024*1024:
		return fmt.Sprintf("%.2f MiB", f/(1024*1024))
	default:
		return fmt.Sprintf("%.2f GiB", f/(1024*1024*1024))
	}
}

// Ratio returns num/den as a percentage, 0 when den is 0.
func Ratio[T constraints.Integer](num, den T) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) * 100 / float64(den)
}
