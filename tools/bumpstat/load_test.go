package main

import "testing"
import "unsafe"

import "github.com/bnclabs/gobump/lib"
import "github.com/bnclabs/gobump/malloc"
import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

func TestParsesizes(t *testing.T) {
	sizes, err := parsesizes("8, 16,32")
	require.NoError(t, err)
	assert.Equal(t, []int64{8, 16, 32}, sizes)

	sizes, err = parsesizes(" 8x3,64,24x2 ")
	require.NoError(t, err)
	assert.Equal(t, []int64{8, 8, 8, 64, 24, 24}, sizes)

	sizes, err = parsesizes("8,16,32,64,128,256")
	require.NoError(t, err)
	assert.Equal(t, []int64{8, 16, 32, 64, 128, 256}, sizes)

	sizes, err = parsesizes("64")
	require.NoError(t, err)
	assert.Equal(t, []int64{64}, sizes)

	sizes, err = parsesizes("16x2")
	require.NoError(t, err)
	assert.Equal(t, []int64{16, 16}, sizes)

	for _, text := range []string{"", "8,x", "8,-1", "8x0", "8;16", "abc"} {
		_, err = parsesizes(text)
		assert.Error(t, err, "%q", text)
	}
}

func TestRunload(t *testing.T) {
	bump, err := malloc.NewBumpFrom(lib.Settings{"capacity": 65536})
	require.NoError(t, err)

	rep := runload(bump, 4, 100, []int64{8, 16}, 8)
	assert.Equal(t, int64(400), rep.success)
	assert.Equal(t, int64(0), rep.failure)
	assert.Equal(t, 0, rep.overlaps)
	assert.Equal(t, 0, rep.corrupted)
	assert.Equal(t, int64(4800), bump.Used())
	assert.Equal(t, int64(400), rep.sizes.Samples())
	assert.Equal(t, int64(4800), rep.sizes.Sum())
	assert.Equal(t, int64(400), rep.latency.Samples())
}

func TestRunloadExhaust(t *testing.T) {
	bump, err := malloc.NewBumpFrom(lib.Settings{"capacity": 1024})
	require.NoError(t, err)

	rep := runload(bump, 4, 100, []int64{64}, 8)
	assert.Equal(t, int64(16), rep.success)
	assert.Equal(t, int64(384), rep.failure)
	assert.Equal(t, 0, rep.overlaps)
	assert.Equal(t, 0, rep.corrupted)
	assert.Equal(t, int64(0), bump.Available())
}

func TestRunloadZerosize(t *testing.T) {
	bump, err := malloc.NewBumpFrom(lib.Settings{"capacity": 4096})
	require.NoError(t, err)

	rep := runload(bump, 2, 50, []int64{0, 24, 0, 7}, 8)
	assert.Equal(t, int64(100), rep.success)
	assert.Equal(t, 0, rep.overlaps)
	assert.Equal(t, 0, rep.corrupted)
	assert.Equal(t, int64(0), rep.sizes.Min())
	assert.Equal(t, int64(24), rep.sizes.Max())
}

func TestCountoverlaps(t *testing.T) {
	bump, err := malloc.NewBumpFrom(lib.Settings{"capacity": 1024})
	require.NoError(t, err)

	ptr := bump.Alloc(64, 8)
	require.NotNil(t, ptr)
	blocks := [][]block{
		{{size: 64, ptr: ptr}},
		{{size: 64, ptr: ptr}},
	}
	assert.Equal(t, 1, countoverlaps(bump, blocks))

	outside := make([]byte, 8)
	blocks = [][]block{{{size: 8, ptr: unsafe.Pointer(&outside[0])}}}
	assert.Equal(t, 1, countoverlaps(bump, blocks))
}

func TestNewsettings(t *testing.T) {
	options.capacity, options.buffer, options.image = 4096, "heap", ""
	options.log = ""
	setts := newsettings()
	assert.False(t, setts.Bool("log.enabled"))
	assert.Equal(t, "info", setts.String("log.level"))

	msetts := mallocsettings(setts)
	assert.Equal(t, lib.Settings{
		"name": "bumpstat", "capacity": int64(4096), "buffer": "heap", "image": "",
	}, msetts)
	bump, err := malloc.NewBumpFrom(msetts)
	require.NoError(t, err)
	assert.Equal(t, int64(4096), bump.Capacity())

	options.log = "debug"
	setts = newsettings()
	assert.True(t, setts.Bool("log.enabled"))
	assert.Equal(t, "debug", setts.String("log.level"))
	options.log = ""
}
