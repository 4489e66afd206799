//go:build !unix

package hook

import "os"

// lockFile is a best-effort no-op on non-Unix platforms.
func lockFile(f *os.File) error {
	return nil
}

func unlockFile(f *os.File) {}
