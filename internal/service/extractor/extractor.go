package extractor

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/vertextoedge/isic-fetch/internal/domain"
	"github.com/vertextoedge/isic-fetch/internal/port"
)

// Extractor unpacks the image archive and removes it once every entry is out
type Extractor struct {
	fs            port.FileSystem
	opener        port.ArchiveOpener
	observer      port.Observer
	logger        *zap.Logger
	contentExt    string
	skipThreshold int
}

// New creates a new Extractor.
// Extraction is skipped when targetDir already holds more than skipThreshold
// files ending in contentExt.
func New(
	fs port.FileSystem,
	opener port.ArchiveOpener,
	observer port.Observer,
	logger *zap.Logger,
	contentExt string,
	skipThreshold int,
) *Extractor {
	return &Extractor{
		fs:            fs,
		opener:        opener,
		observer:      observer,
		logger:        logger,
		contentExt:    contentExt,
		skipThreshold: skipThreshold,
	}
}

// Extract unpacks archivePath into targetDir, then deletes the archive.
// On failure the archive is kept and whatever was written stays on disk.
func (e *Extractor) Extract(ctx context.Context, archivePath, targetDir string) (*domain.ExtractResult, error) {
	if e.fs.DirExists(targetDir) {
		existing, err := e.fs.CountFiles(targetDir, e.contentExt)
		if err != nil {
			e.logger.Warn("failed to count extracted files",
				zap.String("dir", targetDir),
				zap.Error(err))
		} else if existing > e.skipThreshold {
			e.logger.Info("images already extracted, skipping",
				zap.String("dir", targetDir),
				zap.Int("files", existing))
			e.observer.ExtractSkipped(targetDir, existing)
			return &domain.ExtractResult{Skipped: true, ExistingCount: existing}, nil
		}
	}

	if err := e.fs.EnsureDir(targetDir); err != nil {
		return nil, domain.NewExtractionError(archivePath, "", err)
	}

	archive, err := e.opener.OpenArchive(archivePath)
	if err != nil {
		return nil, domain.NewExtractionError(archivePath, "", err)
	}

	entries := archive.Entries()
	e.logger.Info("extracting archive",
		zap.String("archive", archivePath),
		zap.String("target", targetDir),
		zap.Int("entries", len(entries)))
	e.observer.ExtractStarted(archivePath, len(entries))

	tracker := e.observer.Track(filepath.Base(archivePath), int64(len(entries)), port.UnitEntries)
	extracted, err := e.extractAll(ctx, archive, archivePath, targetDir, tracker)
	tracker.Done()

	closeErr := archive.Close()
	if err != nil {
		return nil, err
	}
	if closeErr != nil {
		return nil, domain.NewExtractionError(archivePath, "", fmt.Errorf("failed to close archive: %w", closeErr))
	}
	e.observer.ExtractFinished(archivePath, extracted)

	result := &domain.ExtractResult{Entries: extracted}
	if err := e.fs.DeleteFile(archivePath); err != nil {
		e.logger.Warn("failed to delete archive after extraction",
			zap.String("archive", archivePath),
			zap.Error(err))
		return result, nil
	}
	result.ArchiveDeleted = true

	e.logger.Info("archive extracted and deleted",
		zap.String("archive", archivePath),
		zap.Int("entries", extracted))
	e.observer.ArchiveDeleted(archivePath)

	return result, nil
}

func (e *Extractor) extractAll(
	ctx context.Context,
	archive port.Archive,
	archivePath, targetDir string,
	tracker port.Tracker,
) (int, error) {
	extracted := 0
	for i, entry := range archive.Entries() {
		if err := ctx.Err(); err != nil {
			return extracted, domain.NewExtractionError(archivePath, "", err)
		}

		dest, ok, err := entryPath(targetDir, entry.Name)
		if err != nil {
			return extracted, domain.NewExtractionError(archivePath, entry.Name, err)
		}
		if ok {
			if err := archive.ExtractEntry(i, dest); err != nil {
				return extracted, domain.NewExtractionError(archivePath, entry.Name, err)
			}
			extracted++
		}
		tracker.Add(1)
	}
	return extracted, nil
}

// entryPath maps a zip entry name to its location under targetDir.
// A leading component equal to the base name of targetDir is dropped, so an
// archive nesting everything under that folder does not produce a doubled
// directory. ok is false for entries that name targetDir itself.
func entryPath(targetDir, name string) (dest string, ok bool, err error) {
	name = strings.ReplaceAll(name, "\\", "/")
	if path.IsAbs(name) || filepath.VolumeName(name) != "" {
		return "", false, fmt.Errorf("%w: %s", domain.ErrUnsafeEntryPath, name)
	}

	rel := path.Clean(name)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false, fmt.Errorf("%w: %s", domain.ErrUnsafeEntryPath, name)
	}

	base := filepath.Base(targetDir)
	if rel == base {
		return "", false, nil
	}
	rel = strings.TrimPrefix(rel, base+"/")
	if rel == "." {
		return "", false, nil
	}

	dest = filepath.Join(targetDir, filepath.FromSlash(rel))
	within, err := filepath.Rel(targetDir, dest)
	if err != nil || within == ".." || strings.HasPrefix(within, ".."+string(filepath.Separator)) {
		return "", false, fmt.Errorf("%w: %s", domain.ErrUnsafeEntryPath, name)
	}
	return dest, true, nil
}

// Ensure Extractor implements port.Extractor
var _ port.Extractor = (*Extractor)(nil)
