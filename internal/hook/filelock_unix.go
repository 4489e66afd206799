//go:build unix

package hook

import (
	"os"
	"syscall"
)

// lockFile takes a blocking exclusive flock. Hook invocations for the
// same session queue behind each other rather than failing.
func lockFile(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_EX)
}

// unlockFile releases the flock. Errors are ignored; closing the file
// releases the lock anyway.
func unlockFile(f *os.File) {
	_ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
}
