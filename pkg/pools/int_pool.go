package pools

import (
	"sync"
)

// Int slice classes track traversal scratch shapes: frontier queues
// and visit orders grow to the vertex count of the graph.
var intClasses = [...]int{64, 1024, 16384}

func intClassFor(n int) int {
	for i, c := range intClasses {
		if n <= c {
			return i
		}
	}
	return -1
}

// IntPool recycles int slices used as traversal scratch: frontier
// queues, visit orders, neighbor lists.
type IntPool struct {
	classes [len(intClasses)]sync.Pool
}

// NewIntPool creates an int slice pool with one sync.Pool per size class.
func NewIntPool() *IntPool {
	p := &IntPool{}
	for i, c := range intClasses {
		p.classes[i].New = func() any {
			s := make([]int, 0, c)
			return &s
		}
	}
	return p
}

// Get returns a zero-length int slice with at least the requested capacity.
func (p *IntPool) Get(size int) []int {
	i := intClassFor(size)
	if i < 0 {
		return make([]int, 0, size)
	}

	sp := p.classes[i].Get().(*[]int)
	if cap(*sp) < size {
		return make([]int, 0, size)
	}
	return (*sp)[:0]
}

// Put recycles an int slice.
func (p *IntPool) Put(s []int) {
	c := cap(s)
	if c == 0 {
		return
	}

	i := intClassFor(c)
	if i < 0 {
		return
	}

	s = s[:0]
	p.classes[i].Put(&s)
}

var defaultIntPool = NewIntPool()

// GetInts returns an int slice from the default pool.
func GetInts(size int) []int {
	return defaultIntPool.Get(size)
}

// PutInts recycles an int slice into the default pool.
func PutInts(s []int) {
	defaultIntPool.Put(s)
}
