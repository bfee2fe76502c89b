// Package malloc supplies a fixed capacity, lock-free bump allocator.
//
//  * Bump is safe for concurrent use. Alloc never blocks, never panics and
//    completes with a single compare-and-swap on the cursor, retrying only
//    when another goroutine advanced the cursor in between.
//  * Memory is carved out of a single buffer whose capacity is fixed when
//    the allocator is created. It can be a Go heap buffer, a buffer
//    obtained outside the Go runtime, or a buffer supplied by application.
//  * Memory is never reclaimed. Free is a no-op and blocks stay valid for
//    the lifetime of the allocator.
//  * Alloc returns nil once the buffer cannot satisfy the request, every
//    later request that does not fit will also fail.
//  * Memory handed out by Bump is not scanned by the garbage collector.
//    Values stored in it shall not contain Go pointers.
//
// Bump is an ordinary value implementing api.Mallocer. Applications that
// want a process wide allocator can hold one in a package variable and
// pass it around, typed helpers New and Makeslice fall back to Go heap
// when no allocator is supplied.
package malloc
