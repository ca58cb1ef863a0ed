package port

import "github.com/vertextoedge/isic-fetch/internal/domain"

// ProgressUnit tells a progress tracker how to render its counter
type ProgressUnit int

const (
	UnitBytes ProgressUnit = iota
	UnitEntries
)

// Tracker follows one unit of work (a transfer or an extraction)
type Tracker interface {
	// Add advances the counter by n units
	Add(n int64)

	// Done marks the work finished
	Done()
}

// Observer receives progress and status notifications from the services.
// Implementations render them for a person or discard them in tests.
type Observer interface {
	FetchSkipped(res domain.ResourceDescriptor, size int64)
	FetchStarted(res domain.ResourceDescriptor)
	FetchFinished(res domain.ResourceDescriptor, size int64)

	ExtractSkipped(targetDir string, existing int)
	ExtractStarted(archivePath string, entries int)
	ExtractFinished(archivePath string, entries int)
	ArchiveDeleted(archivePath string)

	// Track starts a progress tracker; total is -1 when unknown
	Track(name string, total int64, unit ProgressUnit) Tracker
}
