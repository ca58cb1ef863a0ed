package fetcher

import (
	"fmt"

	"github.com/vertextoedge/isic-fetch/internal/port"
)

// SpaceManager checks free disk space before a download starts
type SpaceManager struct {
	fs port.FileSystem
}

// NewSpaceManager creates a new SpaceManager
func NewSpaceManager(fs port.FileSystem) *SpaceManager {
	return &SpaceManager{fs: fs}
}

// CheckSpace checks if the filesystem holding dir has room for requiredBytes
func (sm *SpaceManager) CheckSpace(dir string, requiredBytes int64) (*port.SpaceCheckResult, error) {
	if requiredBytes < 0 {
		return nil, fmt.Errorf("required bytes cannot be negative: %d", requiredBytes)
	}

	usage, err := sm.fs.GetDiskUsage(dir)
	if err != nil {
		return nil, err
	}

	return &port.SpaceCheckResult{
		HasSpace:      uint64(requiredBytes) <= usage.Free,
		RequiredBytes: requiredBytes,
		FreeBytes:     usage.Free,
		DiskUsedPct:   usage.UsedPct,
	}, nil
}

// HasSpace returns true if there's enough space for the given size
func (sm *SpaceManager) HasSpace(dir string, requiredBytes int64) (bool, error) {
	result, err := sm.CheckSpace(dir, requiredBytes)
	if err != nil {
		return false, err
	}
	return result.HasSpace, nil
}

// Ensure SpaceManager implements port.SpaceManager
var _ port.SpaceManager = (*SpaceManager)(nil)
