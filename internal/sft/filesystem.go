package sft

import "io"

// SymlinkState describes a projection location on disk, gathered in one
// inspection so the reconciliation engine needs a single filesystem check
// per identity.
type SymlinkState struct {
	Exists       bool
	IsSymlink    bool
	Target       string // readlink result; empty unless IsSymlink
	TargetExists bool
}

// FilesystemManager provides an interface for filesystem operations.
// It abstracts file access to enable testing without touching the real
// filesystem. Implementations return plain errors; the service layer maps
// them onto ErrIO.
type FilesystemManager interface {
	// Resolve validates a raw path and returns a Path object.
	// It resolves the path to an absolute path, stats it, and validates
	// it's a regular file or directory (not a device, pipe, etc.).
	Resolve(rawPath string) (*Path, error)

	// Open opens a file for reading.
	Open(path string) (io.ReadCloser, error)

	// HashFile reads the file and returns its SHA-256 checksum as a
	// lowercase hex string along with the byte count read.
	HashFile(path string) (string, int64, error)

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path string) error

	// CopyFile copies src to dst, creating parent directories as needed.
	// dst must not already exist.
	CopyFile(src, dst string) error

	// MoveFile moves src to dst with rename, falling back to copy+remove
	// across filesystems. dst must not already exist.
	MoveFile(src, dst string) error

	// RemoveFile removes a file or symlink. Removing a missing path is an
	// error.
	RemoveFile(path string) error

	// Exists reports whether a path exists (following symlinks).
	Exists(path string) (bool, error)

	// FileSize returns the size in bytes of a regular file.
	FileSize(path string) (int64, error)

	// ListDir returns the entry names directly inside dir, sorted.
	ListDir(dir string) ([]string, error)

	// Symlink creates a symbolic link at linkPath pointing to target.
	Symlink(target, linkPath string) error

	// InspectSymlink examines linkPath without following directory walks:
	// lstat, readlink if it is a symlink, and one stat of the target.
	InspectSymlink(linkPath string) (*SymlinkState, error)
}
