package lib

// Ispowerof2 return true if `n` is a non-zero power of two.
func Ispowerof2(n uintptr) bool {
	return n != 0 && (n&(n-1)) == 0
}

// Alignup round `addr` up to the next multiple of `align`, which must be a
// power of two. Result wraps around if `addr` is within `align` of the top
// of the address space, callers that care shall compare it with `addr`.
func Alignup(addr, align uintptr) uintptr {
	mask := align - 1
	return (addr + mask) &^ mask
}

// Padding return the number of bytes needed to align `addr` up to `align`.
func Padding(addr, align uintptr) uintptr {
	return Alignup(addr, align) - addr
}
