package port

import (
	"io"
)

// DiskUsage represents disk usage statistics
type DiskUsage struct {
	Total   uint64  // Total disk space in bytes
	Used    uint64  // Used disk space in bytes
	Free    uint64  // Free disk space in bytes
	UsedPct float64 // Used percentage (0-100)
}

// FileSystem defines the interface for filesystem operations.
// The filesystem is the only state store: presence of a path is what
// decides whether a phase has already run.
type FileSystem interface {
	// RootDir returns the data root directory
	RootDir() string

	// FileExists checks if a path exists (file or directory)
	FileExists(path string) bool

	// DirExists checks if path exists and is a directory
	DirExists(path string) bool

	// GetFileSize returns the size of a file
	GetFileSize(path string) (int64, error)

	// CreateFile creates (or truncates) a file, creating parent directories
	CreateFile(path string) (io.WriteCloser, error)

	// DeleteFile removes a file; a missing file is not an error
	DeleteFile(path string) error

	// EnsureDir creates a directory and its parents
	EnsureDir(dir string) error

	// CountFiles counts regular files directly inside dir whose name ends in ext.
	// Returns 0 if dir does not exist.
	CountFiles(dir, ext string) (int, error)

	// GetDiskUsage returns disk usage statistics for the filesystem holding path
	GetDiskUsage(path string) (*DiskUsage, error)
}
