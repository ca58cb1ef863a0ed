package fetcher

import (
	"sync"

	"github.com/vertextoedge/isic-fetch/internal/domain"
	"github.com/vertextoedge/isic-fetch/internal/port"
)

// recordingObserver implements port.Observer and remembers what it saw
type recordingObserver struct {
	mu       sync.Mutex
	skipped  []string
	started  []string
	finished []string
	totals   []int64
	added    int64
	onAdd    func()
}

func (o *recordingObserver) FetchSkipped(res domain.ResourceDescriptor, size int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.skipped = append(o.skipped, res.ID)
}

func (o *recordingObserver) FetchStarted(res domain.ResourceDescriptor) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started = append(o.started, res.ID)
}

func (o *recordingObserver) FetchFinished(res domain.ResourceDescriptor, size int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished = append(o.finished, res.ID)
}

func (o *recordingObserver) ExtractSkipped(targetDir string, existing int)   {}
func (o *recordingObserver) ExtractStarted(archivePath string, entries int)  {}
func (o *recordingObserver) ExtractFinished(archivePath string, entries int) {}
func (o *recordingObserver) ArchiveDeleted(archivePath string)               {}

func (o *recordingObserver) Track(name string, total int64, unit port.ProgressUnit) port.Tracker {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.totals = append(o.totals, total)
	return &recordingTracker{o: o}
}

type recordingTracker struct {
	o *recordingObserver
}

func (t *recordingTracker) Add(n int64) {
	t.o.mu.Lock()
	t.o.added += n
	onAdd := t.o.onAdd
	t.o.mu.Unlock()
	if onAdd != nil {
		onAdd()
	}
}

func (t *recordingTracker) Done() {}

// mockSpaceManager implements port.SpaceManager for testing
type mockSpaceManager struct {
	result   *port.SpaceCheckResult
	err      error
	required int64
	calls    int
}

func (m *mockSpaceManager) CheckSpace(dir string, requiredBytes int64) (*port.SpaceCheckResult, error) {
	m.calls++
	m.required = requiredBytes
	return m.result, m.err
}
