package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/vertextoedge/isic-fetch/internal/domain"
	"github.com/vertextoedge/isic-fetch/internal/port"
)

func newTestConsole(progress bool, refresh time.Duration) (*Console, *bytes.Buffer) {
	color.NoColor = true
	var buf bytes.Buffer
	return New(&buf, progress, refresh), &buf
}

func TestConsole_Report(t *testing.T) {
	tests := []struct {
		name     string
		report   *domain.ReadinessReport
		contains []string
		absent   []string
	}{
		{
			name: "ready",
			report: &domain.ReadinessReport{
				FileCount: 25331, ExpectedCount: 25331, Ready: true,
				GroundTruthPresent: true, MetadataPresent: true,
				ImageDir:        "/data/ISIC_2019_Training_Input",
				GroundTruthPath: "/data/ISIC_2019_Training_GroundTruth.csv",
				MetadataPath:    "/data/ISIC_2019_Training_Metadata.csv",
			},
			contains: []string{
				"25,331 / 25,331 expected",
				"ready to use",
				"/data/ISIC_2019_Training_Input",
				"MEL", "Melanoma", "SCC", "Squamous cell carcinoma",
			},
			absent: []string{"incomplete"},
		},
		{
			name: "incomplete",
			report: &domain.ReadinessReport{
				FileCount: 3, ExpectedCount: 25331,
				GroundTruthPresent: true, MetadataPresent: false,
				GroundTruthPath: "/data/gt.csv",
				MetadataPath:    "/data/meta.csv",
			},
			contains: []string{"3 / 25,331 expected", "✗ meta.csv", "✓ gt.csv", "Dataset incomplete - re-run"},
			absent:   []string{"Lesion classes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, buf := newTestConsole(false, 0)
			c.Report(tt.report)
			out := buf.String()

			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			for _, unwanted := range tt.absent {
				if strings.Contains(out, unwanted) {
					t.Errorf("output should not contain %q:\n%s", unwanted, out)
				}
			}
		})
	}
}

func TestConsole_StatusLines(t *testing.T) {
	c, buf := newTestConsole(false, 0)
	res := domain.ResourceDescriptor{ID: domain.ResourceImages, Dest: "/data/ISIC_2019_Training_Input.zip", ExpectedSize: "9.1 GB"}

	c.Banner("ISIC Archive (AWS S3 public)")
	c.FetchSkipped(res, 2048)
	c.FetchStarted(res)
	c.ExtractSkipped("/data/images", 25331)
	c.ArchiveDeleted(res.Dest)

	out := buf.String()
	for _, want := range []string{
		"License: CC-BY-NC 4.0",
		"Source : ISIC Archive (AWS S3 public)",
		"ISIC_2019_Training_Input.zip already present (2.00 KB)",
		"Downloading ISIC_2019_Training_Input.zip (~9.1 GB)",
		"Images already extracted: 25,331 files in /data/images",
		"Deleted ISIC_2019_Training_Input.zip",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConsole_InterruptedAndFatal(t *testing.T) {
	tests := []struct {
		name string
		emit func(c *Console)
		want []string
	}{
		{
			name: "interrupted",
			emit: func(c *Console) { c.Interrupted() },
			want: []string{"interrupted by user", "Re-run isic-fetch"},
		},
		{
			name: "transfer failure",
			emit: func(c *Console) {
				c.Fatal(domain.NewTransferError(domain.ResourceDescriptor{ID: "metadata"}, errors.New("no route to host")))
			},
			want: []string{"Fatal error: transfer failed for metadata: no route to host", "Check your internet connection"},
		},
		{
			name: "extraction failure",
			emit: func(c *Console) {
				c.Fatal(domain.NewExtractionError("input.zip", "", errors.New("disk full")))
			},
			want: []string{"Fatal error: extraction failed", "The archive was kept"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, buf := newTestConsole(false, 0)
			tt.emit(c)
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestConsole_Track(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		c, buf := newTestConsole(false, 0)
		tr := c.Track("input.zip", 100, port.UnitBytes)
		tr.Add(50)
		tr.Done()
		if buf.Len() != 0 {
			t.Errorf("disabled progress should print nothing, got %q", buf.String())
		}
	})

	t.Run("throttled", func(t *testing.T) {
		c, buf := newTestConsole(true, time.Hour)
		tr := c.Track("input.zip", 4096, port.UnitBytes)
		for i := 0; i < 4; i++ {
			tr.Add(1024)
		}
		if got := strings.Count(buf.String(), "\r"); got != 1 {
			t.Errorf("redraws before Done = %d, want 1", got)
		}

		tr.Done()
		tr.Done()
		out := buf.String()
		if got := strings.Count(out, "\r"); got != 2 {
			t.Errorf("redraws after Done = %d, want 2", got)
		}
		if !strings.Contains(out, "100.0% 4.00 KB / 4.00 KB") {
			t.Errorf("final line missing completion:\n%q", out)
		}
		if !strings.HasSuffix(out, "\n") {
			t.Error("Done should end the progress line")
		}
	})

	t.Run("entries with unknown total", func(t *testing.T) {
		c, buf := newTestConsole(true, time.Hour)
		tr := c.Track("input.zip", -1, port.UnitEntries)
		tr.Add(12345)
		tr.Done()
		if !strings.Contains(buf.String(), "input.zip 12,345") {
			t.Errorf("unexpected output %q", buf.String())
		}
	})
}

func TestConsole_PrintRuns(t *testing.T) {
	c, buf := newTestConsole(false, 0)
	c.PrintRuns(nil)
	if !strings.Contains(buf.String(), "No runs recorded") {
		t.Errorf("unexpected output %q", buf.String())
	}

	buf.Reset()
	started := time.Now().Add(-2 * time.Hour)
	finished := started.Add(90 * time.Second)
	c.PrintRuns([]*domain.Run{
		{ID: 2, StartedAt: started, Outcome: domain.RunOutcomeInterrupted, Error: "interrupted: context canceled"},
		{ID: 1, StartedAt: started, FinishedAt: &finished, Outcome: domain.RunOutcomeReady, FileCount: 25331, Ready: true},
	})

	out := buf.String()
	for _, want := range []string{"OUTCOME", "interrupted", "ready", "25,331", "1m30s", "2 hours ago"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConsole_PrintPhases(t *testing.T) {
	c, buf := newTestConsole(false, 0)
	c.PrintPhases(nil)
	if !strings.Contains(buf.String(), "No phases recorded") {
		t.Errorf("unexpected output %q", buf.String())
	}

	buf.Reset()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.PrintPhases([]*domain.PhaseEvent{
		{Phase: domain.PhaseFetchMetadata, ResourceID: domain.ResourceGroundTruth, Status: domain.PhaseStatusSkipped, Bytes: 1048576, CreatedAt: at},
		{Phase: domain.PhaseVerify, Status: domain.PhaseStatusDone, Bytes: 3, Detail: "ready: false", CreatedAt: at},
	})

	out := buf.String()
	for _, want := range []string{"fetch_metadata", "ground_truth", "skipped", "1,048,576", "2026-03-01 12:00:00", "ready: false"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNop(t *testing.T) {
	obs := Nop()
	obs.FetchStarted(domain.ResourceDescriptor{})
	tr := obs.Track("x", 1, port.UnitBytes)
	tr.Add(1)
	tr.Done()
}
