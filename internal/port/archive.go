package port

// ArchiveEntry describes one entry of an archive's central directory
type ArchiveEntry struct {
	Name  string
	IsDir bool
	Size  int64
}

// Archive is an opened archive whose entries can be extracted one at a time
type Archive interface {
	// Entries returns all entries in central-directory order
	Entries() []ArchiveEntry

	// ExtractEntry writes the entry at index to dest.
	// Directory entries create dest as a directory.
	ExtractEntry(index int, dest string) error

	// Close releases the underlying file
	Close() error
}

// ArchiveOpener opens archives from the local filesystem
type ArchiveOpener interface {
	OpenArchive(path string) (Archive, error)
}
