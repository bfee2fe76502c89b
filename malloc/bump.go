package malloc

import "fmt"
import "unsafe"
import "sync/atomic"

import "github.com/bnclabs/gobump/lib"
import "github.com/pkg/errors"

// Bump allocator carves blocks out of a fixed size buffer by advancing a
// single atomic cursor.
type Bump struct {
	// address of first unused byte, 0 until the first allocation.
	next atomic.Uintptr

	basep    unsafe.Pointer // keeps buffer reachable, anchors pointer math
	base     uintptr
	limit    uintptr
	capacity int64
	buf      []byte

	name      string
	kind      string
	logprefix string
}

// NewBump create a bump allocator over `buf`. Application shall not access
// `buf` other than through pointers returned by Alloc. An empty block
// carved at the end of the buffer must still point inside the Go
// allocation, so when cap(buf) equals len(buf) the last byte is kept
// aside and capacity is len(buf)-1, otherwise capacity is len(buf).
// Capacity stays fixed thereafter.
func NewBump(buf []byte) *Bump {
	return newbump("bump", "user", buf)
}

func newbump(name, kind string, buf []byte) *Bump {
	if len(buf) == 0 {
		panicerr("bump %q needs a non-empty buffer", name)
	} else if int64(len(buf)) > Maxcapacity {
		panicerr("bump %q cannot exceed %v bytes", name, Maxcapacity)
	}
	// off-heap memory is not tracked by the garbage collector.
	if kind != "offheap" && cap(buf) == len(buf) {
		if len(buf) == 1 {
			panicerr("bump %q needs atleast 2 bytes, got 1", name)
		}
		buf = buf[:len(buf)-1]
	}
	basep := unsafe.Pointer(unsafe.SliceData(buf))
	bump := &Bump{
		basep:    basep,
		base:     uintptr(basep),
		limit:    uintptr(basep) + uintptr(len(buf)),
		capacity: int64(len(buf)),
		buf:      buf,
		name:     name,
		kind:     kind,
	}
	bump.logprefix = fmt.Sprintf("BUMP [%s]", name)
	return bump
}

//---- operations

// Alloc implement api.Mallocer{} interface. Return a block of `size` bytes
// whose address is a multiple of `align`, or nil if the buffer cannot
// satisfy the request. `align` must be a power of two. Zero sized requests
// return a valid, aligned, non-nil address. Negative size and alignment
// that is not a power of two are treated as unsatisfiable.
func (bump *Bump) Alloc(size, align int64) unsafe.Pointer {
	if size < 0 || align <= 0 {
		return nil
	}
	sz, al := uintptr(size), uintptr(align)
	if !lib.Ispowerof2(al) {
		return nil
	}
	for {
		cursor := bump.next.Load()
		start, end, ok := bump.carve(cursor, sz, al)
		if !ok {
			debugf("%v exhausted size:%v align:%v\n", bump.logprefix, size, align)
			return nil
		}
		if bump.next.CompareAndSwap(cursor, end) {
			return unsafe.Add(bump.basep, start-bump.base)
		}
		// lost the race to another allocation, retry with fresh cursor.
	}
}

// carve computes the block for a request, given a snapshot of the cursor.
// It must remain free of side effects, under contention Alloc may call it
// several times for a single request.
func (bump *Bump) carve(cursor, size, align uintptr) (start, end uintptr, ok bool) {
	if cursor == 0 {
		cursor = bump.base
	}
	start = cursor + lib.Padding(cursor, align)
	if start < cursor || start > bump.limit { // wrapped or beyond buffer
		return 0, 0, false
	} else if size > bump.limit-start {
		return 0, 0, false
	}
	return start, start + size, true
}

// Allocbytes return a block of `size` bytes, aligned to `align`, as a
// byte-slice. Return ErrorOutofMemory if the buffer cannot satisfy the
// request.
func (bump *Bump) Allocbytes(size, align int64) ([]byte, error) {
	ptr := bump.Alloc(size, align)
	if ptr == nil {
		fmsg := "%v alloc size:%v align:%v available:%v"
		err := errors.Wrapf(
			ErrorOutofMemory, fmsg, bump.logprefix, size, align, bump.Available())
		return nil, err
	}
	return unsafe.Slice((*byte)(ptr), size), nil
}

// Free implement api.Mallocer{} interface. Memory is never reclaimed,
// Free has no effect for any pointer including those not obtained from
// this allocator.
func (bump *Bump) Free(ptr unsafe.Pointer, size, align int64) {
}

// Owns return whether `ptr` points inside the buffer managed by this
// allocator.
func (bump *Bump) Owns(ptr unsafe.Pointer) bool {
	addr := uintptr(ptr)
	return addr >= bump.base && addr < bump.limit
}

// Dumpimage write the consumed portion of the buffer, from its start upto
// the cursor, into file `filename`. The file can later be used as "image"
// setting to pre-fill another allocator, whose cursor still starts at its
// buffer base. Application shall make sure that
// no blocks are being written while dumping.
func (bump *Bump) Dumpimage(filename string) error {
	used := bump.Used()
	err := dumpimage(bump.buf[:used], filename)
	return errors.Wrapf(err, "%v", bump.logprefix)
}

//---- statistics

// Capacity return size of the buffer managed by this allocator.
func (bump *Bump) Capacity() int64 {
	return bump.capacity
}

// Used return the number of bytes consumed so far, including alignment
// padding. Used never decreases.
func (bump *Bump) Used() int64 {
	cursor := bump.next.Load()
	if cursor == 0 {
		return 0
	}
	return int64(cursor - bump.base)
}

// Available return the number of bytes yet to be consumed.
func (bump *Bump) Available() int64 {
	return bump.capacity - bump.Used()
}

// Info implement api.Mallocer{} interface. Entire buffer is reserved
// upfront so heap is same as capacity.
func (bump *Bump) Info() (capacity, heap, alloc, overhead int64) {
	overhead = int64(unsafe.Sizeof(*bump))
	return bump.capacity, bump.capacity, bump.Used(), overhead
}

// Stats return allocator statistics.
func (bump *Bump) Stats() map[string]interface{} {
	capacity, heap, alloc, overhead := bump.Info()
	utilization := float64(0)
	if capacity > 0 {
		utilization = (float64(alloc) / float64(capacity)) * 100
	}
	return map[string]interface{}{
		"name":        bump.name,
		"buffer":      bump.kind,
		"capacity":    capacity,
		"heap":        heap,
		"alloc":       alloc,
		"available":   capacity - alloc,
		"overhead":    overhead,
		"utilization": utilization,
	}
}

// Logstats log allocator statistics.
func (bump *Bump) Logstats() {
	infof("%v stats %v\n", bump.logprefix, lib.Prettystats(bump.Stats(), false))
}
