package pools

import (
	"sync"
)

// Buffer size classes. Row encoders grab a buffer per matrix row, so
// the classes track row widths: a row of n vertices needs about 2n
// bytes in text form.
const (
	TinySize   = 32    // header lines, counters
	SmallSize  = 256   // rows of graphs up to ~128 vertices
	MediumSize = 1024  // rows of mid-size graphs
	LargeSize  = 8192  // rows of large graphs
	HugeSize   = 65536 // whole-file reads of small graphs
	MaxPool    = 1 << 20
)

var byteClasses = [...]int{TinySize, SmallSize, MediumSize, LargeSize, HugeSize}

// byteClassFor returns the index of the smallest class holding n bytes,
// or -1 when n is too large to pool.
func byteClassFor(n int) int {
	for i, c := range byteClasses {
		if n <= c {
			return i
		}
	}
	return -1
}

// BytePool recycles byte slices by size class. Pooling row buffers
// keeps matrix writes allocation-free after warmup.
type BytePool struct {
	classes [len(byteClasses)]sync.Pool
}

// NewBytePool creates a byte pool with one sync.Pool per size class.
func NewBytePool() *BytePool {
	p := &BytePool{}
	for i, c := range byteClasses {
		p.classes[i].New = func() any {
			b := make([]byte, 0, c)
			return &b
		}
	}
	return p
}

// Get returns a zero-length byte slice with at least the requested capacity.
func (p *BytePool) Get(size int) []byte {
	i := byteClassFor(size)
	if i < 0 {
		return make([]byte, 0, size)
	}

	bp := p.classes[i].Get().(*[]byte)
	if cap(*bp) < size {
		// A smaller buffer landed in this class on Put; let it go.
		return make([]byte, 0, size)
	}
	return (*bp)[:0]
}

// GetSized returns a byte slice with exactly the requested length.
func (p *BytePool) GetSized(size int) []byte {
	return p.Get(size)[:size]
}

// Put recycles a byte slice. Slices above MaxPool are dropped.
func (p *BytePool) Put(b []byte) {
	c := cap(b)
	if c == 0 || c > MaxPool {
		return
	}

	i := byteClassFor(c)
	if i < 0 {
		return
	}

	b = b[:0]
	p.classes[i].Put(&b)
}

var defaultBytePool = NewBytePool()

// GetBytes returns a byte slice from the default pool.
func GetBytes(size int) []byte {
	return defaultBytePool.Get(size)
}

// GetBytesSized returns a byte slice with exact length from the default pool.
func GetBytesSized(size int) []byte {
	return defaultBytePool.GetSized(size)
}

// PutBytes recycles a byte slice into the default pool.
func PutBytes(b []byte) {
	defaultBytePool.Put(b)
}
