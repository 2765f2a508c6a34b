package selection

import (
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/bitutil"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Mask is a fixed-length bitmap with one bit per row.
// A Mask handed out by a predicate MUST NOT be modified.
type Mask struct {
	bits []byte
	n    int
}

func newMask(n int) *Mask {
	return &Mask{
		bits: make([]byte, bitutil.BytesForBits(int64(n))),
		n:    n,
	}
}

// Len returns the number of rows covered by the mask.
func (m *Mask) Len() int { return m.n }

// Get reports whether row i is set. Out-of-range rows are not set.
func (m *Mask) Get(i int) bool {
	if i < 0 || i >= m.n {
		return false
	}
	return bitutil.BitIsSet(m.bits, i)
}

func (m *Mask) set(i int) { bitutil.SetBit(m.bits, i) }

// Count returns the number of set rows.
func (m *Mask) Count() int {
	return bitutil.CountSetBits(m.bits, 0, m.n)
}

// Indices returns the set row indices in ascending order.
func (m *Mask) Indices() []int {
	out := make([]int, 0, m.Count())
	for i := 0; i < m.n; i++ {
		if bitutil.BitIsSet(m.bits, i) {
			out = append(out, i)
		}
	}
	return out
}

// Bools expands the mask into one bool per row.
func (m *Mask) Bools() []bool {
	out := make([]bool, m.n)
	for i := range out {
		out[i] = bitutil.BitIsSet(m.bits, i)
	}
	return out
}

// Boolean builds an Arrow boolean array with the mask values and no nulls.
// Caller MUST call Release() on the result.
func (m *Mask) Boolean(mem memory.Allocator) *array.Boolean {
	b := array.NewBooleanBuilder(mem)
	defer b.Release()
	b.AppendValues(m.Bools(), nil)
	return b.NewBooleanArray()
}

// maskNot returns the complement of m.
func maskNot(m *Mask) *Mask {
	out := newMask(m.n)
	for i, b := range m.bits {
		out.bits[i] = ^b
	}
	out.clearTail()
	return out
}

// maskAnd combines two masks of equal length positionally.
func maskAnd(a, b *Mask) *Mask {
	out := newMask(a.n)
	for i := range out.bits {
		out.bits[i] = a.bits[i] & b.bits[i]
	}
	return out
}

// maskOr combines two masks of equal length positionally.
func maskOr(a, b *Mask) *Mask {
	out := newMask(a.n)
	for i := range out.bits {
		out.bits[i] = a.bits[i] | b.bits[i]
	}
	return out
}

// clearTail zeroes the padding bits past n in the last byte.
func (m *Mask) clearTail() {
	if rem := m.n % 8; rem != 0 {
		m.bits[len(m.bits)-1] &= byte(1)<<rem - 1
	}
}
