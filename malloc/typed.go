package malloc

import "sync"
import "unsafe"
import "reflect"

import "github.com/bnclabs/gobump/api"

// New allocate a zeroed value of type T from `m`. If `m` is nil or cannot
// satisfy the request, value is allocated from Go heap. T shall not contain
// Go pointers, strings, slices, maps, channels, functions or interfaces,
// since memory from `m` is not scanned by the garbage collector.
func New[T any](m api.Mallocer) *T {
	var zero T
	if m != nil {
		checkpointerfree(reflect.TypeOf(&zero).Elem())
		size, align := int64(unsafe.Sizeof(zero)), int64(unsafe.Alignof(zero))
		if ptr := m.Alloc(size, align); ptr != nil {
			val := (*T)(ptr)
			*val = zero
			return val
		}
	}
	return new(T)
}

// Makeslice allocate a zeroed slice of `n` elements of type T from `m`.
// If `m` is nil or cannot satisfy the request, slice is allocated from Go
// heap. Same restrictions as New apply on T.
func Makeslice[T any](m api.Mallocer, n int) []T {
	var zero T
	if n < 0 {
		panicerr("Makeslice negative length %v", n)
	}
	if m != nil {
		checkpointerfree(reflect.TypeOf(&zero).Elem())
		elemsize, align := uintptr(unsafe.Sizeof(zero)), int64(unsafe.Alignof(zero))
		if elemsize == 0 || uint64(n) <= uint64(Maxcapacity)/uint64(elemsize) {
			size := int64(uint64(elemsize) * uint64(n))
			if ptr := m.Alloc(size, align); ptr != nil {
				slice := unsafe.Slice((*T)(ptr), n)
				clear(slice)
				return slice
			}
		}
	}
	return make([]T, n)
}

var pointerfree sync.Map // reflect.Type -> bool

func checkpointerfree(typ reflect.Type) {
	ok, loaded := pointerfree.Load(typ)
	if !loaded {
		ok, _ = pointerfree.LoadOrStore(typ, !haspointers(typ))
	}
	if !ok.(bool) {
		panicerr("type %v holds pointers, cannot allocate from Mallocer", typ)
	}
}

func haspointers(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16,
		reflect.Int32, reflect.Int64, reflect.Uint, reflect.Uint8,
		reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64,
		reflect.Complex128:
		return false

	case reflect.Array:
		return typ.Len() > 0 && haspointers(typ.Elem())

	case reflect.Struct:
		for i := 0; i < typ.NumField(); i++ {
			if haspointers(typ.Field(i).Type) {
				return true
			}
		}
		return false
	}
	return true
}
