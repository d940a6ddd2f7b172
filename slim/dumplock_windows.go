//go:build windows

package slim

import (
	"os"

	"golang.org/x/sys/windows"
)

// withFileLock is the Windows counterpart of dumplock_unix.go's flock-
// based guard, using LockFileEx the way the teacher's system_windows.go
// reaches for golang.org/x/sys/windows for OS-specific behavior the
// standard library does not expose.
func withFileLock(path string, write bool, fn func(*os.File) error) error {
	flags := os.O_RDONLY
	lockFlags := uint32(0)
	if write {
		flags = os.O_RDWR | os.O_CREATE | os.O_TRUNC
		lockFlags = windows.LOCKFILE_EXCLUSIVE_LOCK
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	h := windows.Handle(f.Fd())
	var overlapped windows.Overlapped
	if err := windows.LockFileEx(h, lockFlags, 0, ^uint32(0), ^uint32(0), &overlapped); err != nil {
		return err
	}
	defer windows.UnlockFileEx(h, 0, ^uint32(0), ^uint32(0), &overlapped)
	return fn(f)
}
