package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vertextoedge/isic-fetch/internal/domain"
	"github.com/vertextoedge/isic-fetch/internal/port"
)

// ZIP file signatures (magic bytes)
var zipSignatures = [][]byte{
	{0x50, 0x4B, 0x03, 0x04}, // Standard ZIP
	{0x50, 0x4B, 0x05, 0x06}, // Empty ZIP
	{0x50, 0x4B, 0x07, 0x08}, // Spanned ZIP
}

const defaultBufferSize = 256 * 1024

// ZipOpener opens zip archives
type ZipOpener struct {
	bufferSize int
}

// Ensure ZipOpener implements port.ArchiveOpener
var _ port.ArchiveOpener = (*ZipOpener)(nil)

// NewZipOpener creates a zip opener with the default copy buffer
func NewZipOpener() *ZipOpener {
	return &ZipOpener{bufferSize: defaultBufferSize}
}

// OpenArchive verifies the zip signature and opens the central directory
func (o *ZipOpener) OpenArchive(path string) (port.Archive, error) {
	isZip, err := hasZipSignature(path)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ZIP signature: %w", err)
	}
	if !isZip {
		return nil, domain.ErrNotZipArchive
	}

	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}

	entries := make([]port.ArchiveEntry, len(rc.File))
	for i, f := range rc.File {
		entries[i] = port.ArchiveEntry{
			Name:  f.Name,
			IsDir: f.FileInfo().IsDir(),
			Size:  int64(f.UncompressedSize64),
		}
	}

	return &zipArchive{
		rc:      rc,
		entries: entries,
		buf:     make([]byte, o.bufferSize),
	}, nil
}

type zipArchive struct {
	rc      *zip.ReadCloser
	entries []port.ArchiveEntry
	buf     []byte
}

func (a *zipArchive) Entries() []port.ArchiveEntry {
	out := make([]port.ArchiveEntry, len(a.entries))
	copy(out, a.entries)
	return out
}

func (a *zipArchive) ExtractEntry(index int, dest string) error {
	if index < 0 || index >= len(a.rc.File) {
		return fmt.Errorf("entry index %d out of range", index)
	}
	f := a.rc.File[index]

	if f.FileInfo().IsDir() {
		return os.MkdirAll(dest, 0755)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create parent dir: %w", err)
	}

	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open entry: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.CopyBuffer(out, src, a.buf); err != nil {
		out.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}

func (a *zipArchive) Close() error {
	return a.rc.Close()
}

// hasZipSignature checks if the file has a valid ZIP magic byte signature
func hasZipSignature(filePath string) (bool, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return false, err
	}
	defer file.Close()

	header := make([]byte, 4)
	n, err := io.ReadFull(file, header)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if n < 4 {
		return false, nil
	}

	for _, sig := range zipSignatures {
		if bytes.Equal(header, sig) {
			return true, nil
		}
	}

	return false, nil
}
