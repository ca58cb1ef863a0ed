package fetcher

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/vertextoedge/isic-fetch/internal/domain"
	"github.com/vertextoedge/isic-fetch/internal/domain/vo"
	"github.com/vertextoedge/isic-fetch/internal/port"
)

// DefaultChunkSize is the read buffer used when none is configured
const DefaultChunkSize = 8192

// NewHTTPClient creates the client used for dataset downloads.
// Connecting and waiting for response headers are bounded; the body
// transfer of a multi-gigabyte archive is not.
func NewHTTPClient(connectTimeout, responseHeaderTimeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   connectTimeout,
		ResponseHeaderTimeout: responseHeaderTimeout,
		MaxIdleConns:          4,
		IdleConnTimeout:       90 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   0, // No total timeout for large downloads
	}
}

// Fetcher makes sure a manifest resource exists at its destination
type Fetcher struct {
	client    *http.Client
	fs        port.FileSystem
	space     port.SpaceManager
	observer  port.Observer
	logger    *zap.Logger
	chunkSize int
}

// New creates a new Fetcher. space may be nil to disable the pre-flight check.
func New(
	client *http.Client,
	fs port.FileSystem,
	space port.SpaceManager,
	observer port.Observer,
	logger *zap.Logger,
	chunkSize int,
) *Fetcher {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Fetcher{
		client:    client,
		fs:        fs,
		space:     space,
		observer:  observer,
		logger:    logger,
		chunkSize: chunkSize,
	}
}

// Fetch downloads res.URL to res.Dest unless the destination already exists.
// On any failure the partially written file is removed before returning.
func (f *Fetcher) Fetch(ctx context.Context, res domain.ResourceDescriptor) (*domain.FetchResult, error) {
	if f.fs.FileExists(res.Dest) {
		size, err := f.fs.GetFileSize(res.Dest)
		if err != nil {
			f.logger.Debug("failed to stat existing file",
				zap.String("path", res.Dest),
				zap.Error(err))
		}
		f.logger.Info("resource already present, skipping download",
			zap.String("resource", res.ID),
			zap.String("path", res.Dest),
			zap.Int64("size", size))
		f.observer.FetchSkipped(res, size)
		return &domain.FetchResult{Path: res.Dest, Bytes: size, Skipped: true}, nil
	}

	f.checkSpace(res)

	f.logger.Info("downloading resource",
		zap.String("resource", res.ID),
		zap.String("url", res.URL),
		zap.String("expected_size", res.ExpectedSize))
	f.observer.FetchStarted(res)

	written, err := f.download(ctx, res)
	if err != nil {
		if delErr := f.fs.DeleteFile(res.Dest); delErr != nil {
			f.logger.Warn("failed to remove partial download",
				zap.String("path", res.Dest),
				zap.Error(delErr))
		}
		f.logger.Debug("download failed",
			zap.String("resource", res.ID),
			zap.Int64("bytes_written", written),
			zap.Error(err))
		return nil, domain.NewTransferError(res, err)
	}

	f.logger.Info("resource downloaded",
		zap.String("resource", res.ID),
		zap.String("path", res.Dest),
		zap.Int64("size", written))
	f.observer.FetchFinished(res, written)

	return &domain.FetchResult{Path: res.Dest, Bytes: written}, nil
}

// download streams the response body to res.Dest and returns the bytes written
func (f *Fetcher) download(ctx context.Context, res domain.ResourceDescriptor) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, res.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("%w: %s", domain.ErrUnexpectedStatus, resp.Status)
	}

	out, err := f.fs.CreateFile(res.Dest)
	if err != nil {
		return 0, err
	}

	tracker := f.observer.Track(res.Name(), resp.ContentLength, port.UnitBytes)
	written, err := f.copyChunks(ctx, out, resp.Body, tracker)
	tracker.Done()

	if closeErr := out.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close file: %w", closeErr)
	}
	return written, err
}

// copyChunks copies src to dst one chunk at a time, checking ctx between chunks
func (f *Fetcher) copyChunks(ctx context.Context, dst io.Writer, src io.Reader, tracker port.Tracker) (int64, error) {
	buf := make([]byte, f.chunkSize)
	var written int64

	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return written, fmt.Errorf("write failed: %w", err)
			}
			written += int64(n)
			tracker.Add(int64(n))
		}

		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return written, ctxErr
			}
			return written, fmt.Errorf("read failed: %w", readErr)
		}
	}
}

// checkSpace warns when the destination filesystem looks too small.
// It never blocks the download.
func (f *Fetcher) checkSpace(res domain.ResourceDescriptor) {
	if f.space == nil || res.ExpectedSize == "" {
		return
	}

	size, err := vo.ParseFileSize(res.ExpectedSize)
	if err != nil {
		f.logger.Debug("cannot parse expected size",
			zap.String("resource", res.ID),
			zap.String("expected_size", res.ExpectedSize),
			zap.Error(err))
		return
	}

	result, err := f.space.CheckSpace(filepath.Dir(res.Dest), size.Bytes())
	if err != nil {
		f.logger.Debug("space check failed",
			zap.String("resource", res.ID),
			zap.Error(err))
		return
	}

	if !result.HasSpace {
		f.logger.Warn("free disk space may be insufficient",
			zap.String("resource", res.ID),
			zap.String("required", size.String()),
			zap.String("free", vo.FormatBytes(int64(result.FreeBytes))),
			zap.Float64("disk_used_pct", result.DiskUsedPct))
	}
}

// Ensure Fetcher implements port.Fetcher
var _ port.Fetcher = (*Fetcher)(nil)
