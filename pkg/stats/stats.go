// Package stats keeps a rolling mean and standard deviation over a bounded window of integer samples, such as clock
// residuals in microseconds.
package stats

import (
	"math/big"

	"github.com/ddirect/container/fifo"
	"golang.org/x/exp/constraints"
)

// Window accumulates up to size samples. Once full, a new sample is only admitted if it lies within spread standard
// deviations of the current mean, and it then evicts the oldest one. Sums are kept in big.Int so that squares of
// large residuals cannot overflow.
type Window[T constraints.Signed] struct {
	samples fifo.Fifo[T]
	size    int
	spread  float64

	sum  big.Int
	sum2 big.Int
	tmp  [3]big.Int

	mean   T
	stdDev T
}

func NewWindow[T constraints.Signed](size int, spread float64) *Window[T] {
	return &Window[T]{
		size:   size,
		spread: spread,
	}
}

// Add offers x to the window and reports whether it was admitted.
func (w *Window[T]) Add(x T) bool {
	if w.Len() >= w.size {
		if !w.InRange(x) {
			return false
		}
		w.evict()
	}

	t := w.tmp[0].SetInt64(int64(x))
	w.sum.Add(&w.sum, t)
	w.sum2.Add(&w.sum2, t.Mul(t, t))
	w.samples.Enqueue(x)
	w.update()
	return true
}

// InRange reports whether x lies within spread standard deviations of the mean.
func (w *Window[T]) InRange(x T) bool {
	limit := T(float64(w.stdDev) * w.spread)
	return x >= w.mean-limit && x <= w.mean+limit
}

func (w *Window[T]) evict() {
	x, ok := w.samples.Dequeue()
	if !ok {
		return
	}
	t := w.tmp[0].SetInt64(int64(x))
	w.sum.Sub(&w.sum, t)
	w.sum2.Sub(&w.sum2, t.Mul(t, t))
}

func (w *Window[T]) update() {
	n := uint64(w.Len())
	w.mean, w.stdDev = 0, 0
	if n < 1 {
		return
	}

	a, b, c := &w.tmp[0], &w.tmp[1], &w.tmp[2]
	w.mean = T(b.Div(&w.sum, a.SetUint64(n)).Int64())
	if n < 2 {
		return
	}

	// sample variance: (n*sum2 - sum*sum) / (n*(n-1))
	b.Sub(b.Mul(a, &w.sum2), c.Mul(&w.sum, &w.sum))
	c.Mul(a, c.SetUint64(n-1))
	w.stdDev = T(b.Div(b, c).Sqrt(b).Uint64())
}

func (w *Window[T]) Len() int {
	return w.samples.Len()
}

func (w *Window[T]) Mean() T {
	return w.mean
}

func (w *Window[T]) StdDev() T {
	return w.stdDev
}
