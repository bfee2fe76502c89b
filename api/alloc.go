package api

import "unsafe"

// Mallocer interface for custom memory management. Implementations shall
// be safe for concurrent use unless documented otherwise.
type Mallocer interface {
	// Alloc allocate a block of `size` bytes aligned to `align`, which
	// must be a power of two. Return nil if the request cannot be
	// satisfied.
	Alloc(size, align int64) unsafe.Pointer

	// Free block obtained from Alloc. Allocators that never reclaim memory
	// may treat this as a no-op.
	Free(ptr unsafe.Pointer, size, align int64)

	// Info of memory accounting for this allocator.
	Info() (capacity, heap, alloc, overhead int64)
}
