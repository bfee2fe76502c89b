package malloc

import "io"
import "os"

import "github.com/bnclabs/gobump/flock"
import "github.com/cloudfoundry/gosigar"
import "github.com/pkg/errors"
import "golang.org/x/exp/mmap"
import "modernc.org/memory"

// heapbuffer allocates the buffer from Go heap with one spare byte past
// its end, left in cap(buf), so an empty block carved at the very end of
// the buffer still points inside the same Go allocation.
func heapbuffer(capacity int64) []byte {
	block := make([]byte, capacity+1)
	return block[:capacity]
}

// offheapbuffer maps zeroed memory outside the Go runtime. The mapping is
// never released, it lives as long as the process.
func offheapbuffer(capacity int64) ([]byte, error) {
	var mem memory.Allocator
	buf, err := mem.Calloc(int(capacity))
	if err != nil {
		return nil, errors.Wrapf(err, "offheap buffer of %v bytes", capacity)
	}
	return buf, nil
}

// loadimage copies the content of file `filename` into the head of `buf`,
// holding a shared lock on the file while reading it.
func loadimage(buf []byte, filename string) error {
	lock, err := flock.New(filename)
	if err != nil {
		return errors.Wrapf(err, "open image %q", filename)
	}
	defer lock.Close()
	lock.RLock()
	defer lock.RUnlock()

	r, err := mmap.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "open image %q", filename)
	}
	defer r.Close()

	if n := r.Len(); n > len(buf) {
		fmsg := "image %q of %v bytes exceeds buffer of %v bytes"
		return errors.Errorf(fmsg, filename, n, len(buf))
	}
	n, err := r.ReadAt(buf[:r.Len()], 0)
	if err != nil && err != io.EOF {
		return errors.Wrapf(err, "read image %q", filename)
	} else if n != r.Len() {
		return errors.Errorf("image %q short read %v/%v", filename, n, r.Len())
	}
	debugf("loaded image %q, %v bytes\n", filename, n)
	return nil
}

// dumpimage writes `data` into file `filename`, holding an exclusive lock
// on the file while writing it.
func dumpimage(data []byte, filename string) error {
	fd, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "create image %q", filename)
	}
	defer fd.Close()

	lock, err := flock.New(filename)
	if err != nil {
		return errors.Wrapf(err, "open image %q", filename)
	}
	defer lock.Close()
	lock.Lock()
	defer lock.Unlock()

	if err := fd.Truncate(0); err != nil {
		return errors.Wrapf(err, "truncate image %q", filename)
	} else if _, err := fd.Write(data); err != nil {
		return errors.Wrapf(err, "write image %q", filename)
	} else if err := fd.Sync(); err != nil {
		return errors.Wrapf(err, "sync image %q", filename)
	}
	debugf("dumped image %q, %v bytes\n", filename, len(data))
	return nil
}

func getsysmem() (total, used, free uint64) {
	mem := sigar.Mem{}
	if err := mem.Get(); err != nil {
		return 0, 0, 0
	}
	return mem.Total, mem.Used, mem.Free
}
