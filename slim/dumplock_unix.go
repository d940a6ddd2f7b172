//go:build !windows

package slim

import (
	"os"

	"golang.org/x/sys/unix"
)

// withFileLock opens path (creating it when write is true) and holds an
// advisory flock for the duration of fn, the same concern the teacher's
// per-OS file addon solves for Io's File object (file_unix.go /
// file_windows.go), applied here to guard DumpPopulation/LoadPopulation
// against a half-written file when an embedder shares one dump path
// across processes.
func withFileLock(path string, write bool, fn func(*os.File) error) error {
	flags := os.O_RDONLY
	lockType := unix.LOCK_SH
	if write {
		flags = os.O_RDWR | os.O_CREATE | os.O_TRUNC
		lockType = unix.LOCK_EX
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := unix.Flock(int(f.Fd()), lockType); err != nil {
		return err
	}
	defer unix.Flock(int(f.Fd()), unix.LOCK_UN)
	return fn(f)
}
