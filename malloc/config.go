package malloc

import "fmt"

import "github.com/bnclabs/gobump/lib"
import "github.com/pkg/errors"
import humanize "github.com/dustin/go-humanize"

// ErrorOutofMemory allocator cannot satisfy the request from what is left
// of its buffer.
var ErrorOutofMemory = errors.New("malloc.outofmemory")

// Maxcapacity maximum size of a bump allocator's buffer.
const Maxcapacity = int64(1024 * 1024 * 1024 * 1024) // 1TB

// Defaultcapacity used when settings don't specify "capacity".
const Defaultcapacity = int64(64 * 1024)

// Defaultsettings for bump allocator.
//
// "name" (string, default: "bump")
//		Name of the allocator, used in log messages.
//
// "capacity" (int64, default: <Defaultcapacity>)
//		Size of the buffer in bytes, cannot exceed Maxcapacity and the
//		physical memory on this machine.
//
// "buffer" (string, default: "heap")
//		Where the buffer is allocated, "heap" for Go heap and
//		"offheap" for memory mapped outside the Go runtime.
//
// "image" (string, default: "")
//		Path to a file whose content shall pre-fill the buffer. File
//		cannot be larger than "capacity".
func Defaultsettings() lib.Settings {
	return lib.Settings{
		"name":     "bump",
		"capacity": Defaultcapacity,
		"buffer":   "heap",
		"image":    "",
	}
}

// NewBumpFrom create a bump allocator as per `setts`, missing parameters
// are picked from Defaultsettings(). Invalid settings will panic, while
// failures to obtain the buffer or read the image are returned as error.
func NewBumpFrom(setts lib.Settings) (*Bump, error) {
	setts = Defaultsettings().Mixin(setts)
	name, capacity := setts.String("name"), setts.Int64("capacity")
	kind, image := setts.String("buffer"), setts.String("image")

	if capacity <= 0 {
		panicerr("bump %q capacity %v must be positive", name, capacity)
	} else if capacity > Maxcapacity {
		panicerr("bump %q cannot exceed %v bytes (%v)", name, Maxcapacity, capacity)
	} else if total, _, _ := getsysmem(); total > 0 && uint64(capacity) > total {
		fmsg := "bump %q capacity %v exceeds system memory %v"
		panicerr(fmsg, name, capacity, total)
	}

	var buf []byte
	var err error
	switch kind {
	case "heap":
		buf = heapbuffer(capacity)
	case "offheap":
		if buf, err = offheapbuffer(capacity); err != nil {
			return nil, errors.Wrapf(err, "bump %q", name)
		}
	default:
		panicerr("bump %q unknown buffer %q", name, kind)
	}
	if image != "" {
		if err = loadimage(buf, image); err != nil {
			return nil, errors.Wrapf(err, "bump %q", name)
		}
	}

	bump := newbump(name, kind, buf)
	size := humanize.Bytes(uint64(capacity))
	infof("%v started with %v buffer of %v\n", bump.logprefix, kind, size)
	return bump, nil
}

func panicerr(fmsg string, args ...interface{}) {
	panic(fmt.Errorf(fmsg, args...))
}
