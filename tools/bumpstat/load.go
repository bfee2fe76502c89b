package main

import "sort"
import "sync"
import "time"
import "unsafe"

import "github.com/bnclabs/gobump/lib"
import "github.com/bnclabs/gobump/malloc"

type report struct {
	success   int64
	failure   int64
	overlaps  int
	corrupted int
	elapsed   time.Duration
	sizes     *lib.Histogram
	latency   *lib.Histogram
}

type block struct {
	tag  byte
	size int64
	ptr  unsafe.Pointer
}

// runload allocates `repeat` blocks from each of `routines` concurrent
// routines, cycling through `sizes`. Every block is filled with a
// routine specific pattern, verified once all routines are done.
func runload(
	bump *malloc.Bump, routines, repeat int, sizes []int64, align int64) *report {

	var wg sync.WaitGroup

	maxsize := int64(0)
	for _, size := range sizes {
		if size > maxsize {
			maxsize = size
		}
	}
	width := maxsize / 16
	if width == 0 {
		width = 1
	}
	newsizes := func() *lib.Histogram {
		return lib.NewHistogram(0, maxsize+1, width)
	}
	newlatency := func() *lib.Histogram {
		return lib.NewHistogram(0, 10000 /*ns*/, 500)
	}

	rep := &report{sizes: newsizes(), latency: newlatency()}
	blocks := make([][]block, routines)
	histograms := make([][2]*lib.Histogram, routines)
	failures := make([]int64, routines)

	now := time.Now()
	wg.Add(routines)
	for n := 0; n < routines; n++ {
		go func(n int) {
			defer wg.Done()
			hsize, hlatency := newsizes(), newlatency()
			for i := 0; i < repeat; i++ {
				size := sizes[(n+i)%len(sizes)]
				start := time.Now()
				ptr := bump.Alloc(size, align)
				hlatency.Add(int64(time.Since(start)))
				if ptr == nil {
					failures[n]++
					continue
				}
				hsize.Add(size)
				lib.Memset(ptr, byte(n), int(size))
				blocks[n] = append(blocks[n], block{tag: byte(n), size: size, ptr: ptr})
			}
			for _, b := range blocks[n] {
				bump.Free(b.ptr, b.size, align)
			}
			histograms[n] = [2]*lib.Histogram{hsize, hlatency}
		}(n)
	}
	wg.Wait()
	rep.elapsed = time.Since(now)

	for n := 0; n < routines; n++ {
		rep.success += int64(len(blocks[n]))
		rep.failure += failures[n]
		rep.sizes.Merge(histograms[n][0])
		rep.latency.Merge(histograms[n][1])
	}
	rep.overlaps = countoverlaps(bump, blocks)
	rep.corrupted = countcorrupted(blocks)
	return rep
}

// countoverlaps count blocks that fall outside the allocator's buffer or
// overlap with another block.
func countoverlaps(bump *malloc.Bump, blocks [][]block) int {
	overlaps, ranges := 0, [][2]uintptr{}
	for _, bs := range blocks {
		for _, b := range bs {
			if b.size > 0 && !bump.Owns(b.ptr) {
				overlaps++
			}
			start := uintptr(b.ptr)
			ranges = append(ranges, [2]uintptr{start, start + uintptr(b.size)})
		}
	}
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i][0] == ranges[j][0] {
			return ranges[i][1] < ranges[j][1]
		}
		return ranges[i][0] < ranges[j][0]
	})
	for i := 1; i < len(ranges); i++ {
		if ranges[i-1][1] > ranges[i][0] {
			overlaps++
		}
	}
	return overlaps
}

func countcorrupted(blocks [][]block) int {
	corrupted := 0
	for _, bs := range blocks {
		for _, b := range bs {
			for _, x := range lib.Bytes(b.ptr, int(b.size)) {
				if x != b.tag {
					corrupted++
					break
				}
			}
		}
	}
	return corrupted
}
