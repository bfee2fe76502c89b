//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd

package flock

import "sync"
import "syscall"

// RWMutex is equivalent to sync.RWMutex, but synchronizes across processes
// sharing the same file.
type RWMutex struct {
	mu sync.RWMutex
	fd int
}

// New create a multi-process rwmutex on an existing file.
func New(filename string) (*RWMutex, error) {
	fd, err := syscall.Open(filename, syscall.O_RDONLY|syscall.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	return &RWMutex{fd: fd}, nil
}

// Lock locks rw. If the lock is already in use, the calling goroutine
// blocks until the mutex is available.
func (rw *RWMutex) Lock() {
	rw.mu.Lock()
	if err := syscall.Flock(rw.fd, syscall.LOCK_EX); err != nil {
		panic(err)
	}
}

// Unlock unlocks rw.
func (rw *RWMutex) Unlock() {
	if err := syscall.Flock(rw.fd, syscall.LOCK_UN); err != nil {
		panic(err)
	}
	rw.mu.Unlock()
}

// RLock locks rw for reading. It should not be used for recursive read
// locking; a blocked Lock call excludes new readers from acquiring the lock.
func (rw *RWMutex) RLock() {
	rw.mu.RLock()
	if err := syscall.Flock(rw.fd, syscall.LOCK_SH); err != nil {
		panic(err)
	}
}

// RUnlock undo a single RLock call.
func (rw *RWMutex) RUnlock() {
	if err := syscall.Flock(rw.fd, syscall.LOCK_UN); err != nil {
		panic(err)
	}
	rw.mu.RUnlock()
}

// Close release the file descriptor, any lock held is dropped.
func (rw *RWMutex) Close() error {
	return syscall.Close(rw.fd)
}
