package domain

// FetchResult represents the outcome of ensuring one resource exists locally
type FetchResult struct {
	// Path is the local destination of the resource
	Path string

	// Bytes is the size on disk (actual size when skipped, bytes written otherwise)
	Bytes int64

	// Skipped is true when the file was already present and no request was made
	Skipped bool
}

// ExtractResult represents the outcome of an archive extraction
type ExtractResult struct {
	// Entries is the number of archive entries processed
	Entries int

	// Skipped is true when the target already held enough content files
	Skipped bool

	// ExistingCount is the content file count found when extraction was skipped
	ExistingCount int

	// ArchiveDeleted is true when the source archive was removed afterwards
	ArchiveDeleted bool
}
