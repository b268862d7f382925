// Package pools provides object pooling for reducing GC pressure.
//
// Sweeps over large graphs allocate the same scratch shapes over and
// over: per-traversal frontier queues, visit-order slices, and encode
// buffers for matrix rows. Pooling them keeps steady-state allocation
// flat no matter how many traversals run:
//
//   - BytePool: Size-class based byte slice pooling for row encoding
//   - IntPool: Pooling for int slices (frontiers, visit orders)
package pools
