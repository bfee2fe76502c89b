// Package gobump implement a lock-free, fixed capacity bump allocator and
// the necessary tools and libraries around it.
//
// api:
//
// Interface specification for memory allocators.
//
// flock:
//
// File locking library for linux, mac and windows. Similar to sync.RWMutex
// and works across processes. Guards allocator images.
//
// lib:
//
// Convinience functions that can be used by other packages, settings,
// alignment arithmetic, histograms.
//
// log:
//
// Leveled logger used by all packages.
//
// malloc:
//
// Bump allocator, carves blocks out of a single buffer by advancing an
// atomic cursor. Blocks are never reclaimed individually.
//
// tools/bumpstat:
//
// Drive an allocator with a concurrent workload and report its usage.
package gobump
