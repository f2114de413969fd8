//go:build !windows

package snapshot

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// acquireFileLock takes an exclusive, non-blocking lock on path.
var acquireFileLock = func(path string) (*os.File, error) {
	lockFile, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := unix.Flock(int(lockFile.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		lockFile.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("failed to acquire file lock: %w", err)
	}

	return lockFile, nil
}

// releaseFileLock unlocks and closes the lock file. The file stays on disk
// so every process locks the same inode.
func releaseFileLock(lockFile *os.File) error {
	if lockFile == nil {
		return nil
	}

	var err1 error
	if err := unix.Flock(int(lockFile.Fd()), unix.LOCK_UN); err != nil {
		err1 = fmt.Errorf("failed to release file lock: %w", err)
	}
	err2 := lockFile.Close()
	return errors.Join(err1, err2)
}
