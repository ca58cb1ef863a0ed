package port

import (
	"context"

	"github.com/vertextoedge/isic-fetch/internal/domain"
)

// Fetcher ensures a manifest resource exists locally
type Fetcher interface {
	Fetch(ctx context.Context, res domain.ResourceDescriptor) (*domain.FetchResult, error)
}

// Extractor unpacks an archive into a target directory
type Extractor interface {
	Extract(ctx context.Context, archivePath, targetDir string) (*domain.ExtractResult, error)
}

// Verifier reports whether the local dataset is ready
type Verifier interface {
	Verify() *domain.ReadinessReport
}
