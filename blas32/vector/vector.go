package vector

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas32"
)

func NewZeros(n int) blas32.Vector {
	return blas32.Vector{
		N:    n,
		Inc:  1,
		Data: make([]float32, n),
	}
}

// NewOneHot は長さ n で idx 番目だけが1のベクトルを返す。
func NewOneHot(idx, n int) (blas32.Vector, error) {
	if idx < 0 || idx >= n {
		return blas32.Vector{}, fmt.Errorf("vector.NewOneHot: index %d out of range [0, %d)", idx, n)
	}
	vec := NewZeros(n)
	vec.Data[idx] = 1.0
	return vec, nil
}
