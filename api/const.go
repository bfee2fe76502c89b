package api

import "unsafe"

// Wordalign is the natural alignment of a machine word.
const Wordalign = int64(unsafe.Alignof(uintptr(0)))
