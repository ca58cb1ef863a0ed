package vo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// FileSize represents a file size value object.
// It provides type-safe operations and human-readable formatting.
type FileSize struct {
	bytes int64
}

const (
	KB int64 = 1024
	MB int64 = 1024 * KB
	GB int64 = 1024 * MB
	TB int64 = 1024 * GB
)

var (
	ErrNegativeSize = errors.New("file size cannot be negative")
	ErrInvalidLabel = errors.New("invalid size label")
)

// NewFileSize creates a new FileSize value object.
func NewFileSize(bytes int64) (FileSize, error) {
	if bytes < 0 {
		return FileSize{}, ErrNegativeSize
	}
	return FileSize{bytes: bytes}, nil
}

// ParseFileSize parses a human-readable size label such as "9.1 GB" or "1 MB".
// SI and IEC suffixes are both accepted.
func ParseFileSize(label string) (FileSize, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return FileSize{}, fmt.Errorf("%w: empty", ErrInvalidLabel)
	}

	n, err := humanize.ParseBytes(label)
	if err != nil {
		return FileSize{}, fmt.Errorf("%w: %q: %v", ErrInvalidLabel, label, err)
	}
	return FileSize{bytes: int64(n)}, nil
}

// Bytes returns the size in bytes.
func (fs FileSize) Bytes() int64 {
	return fs.bytes
}

// IsZero returns true if the size is zero.
func (fs FileSize) IsZero() bool {
	return fs.bytes == 0
}

// ExceedsLimit checks if this size exceeds the given limit.
func (fs FileSize) ExceedsLimit(limit FileSize) bool {
	return fs.bytes > limit.bytes
}

// String returns a human-readable string representation.
func (fs FileSize) String() string {
	bytes := fs.bytes
	if bytes < KB {
		return fmt.Sprintf("%d B", bytes)
	}
	if bytes < MB {
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	}
	if bytes < GB {
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	}
	if bytes < TB {
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	}
	return fmt.Sprintf("%.2f TB", float64(bytes)/float64(TB))
}

// FormatBytes formats a raw byte count; negative counts render as "?".
func FormatBytes(n int64) string {
	fs, err := NewFileSize(n)
	if err != nil {
		return "?"
	}
	return fs.String()
}
