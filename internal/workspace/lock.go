package workspace

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrLocked reports that another run holds the workspace lock.
var ErrLocked = errors.New("another coloring run is already processing this workspace")

// Lock is a held single-instance guard on the workspace root.
type Lock struct {
	path string
	lock *flock.Flock
}

// Lock acquires the workspace lock without blocking.
func (l Layout) Lock() (*Lock, error) {
	path := l.LockPath()
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock file %s)", ErrLocked, path)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Path returns the lock file location.
func (lk *Lock) Path() string {
	return lk.path
}

// Release drops the lock. The lock file itself is left in place.
func (lk *Lock) Release() error {
	if lk == nil || lk.lock == nil {
		return nil
	}
	return lk.lock.Unlock()
}
