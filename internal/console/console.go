package console

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/vertextoedge/isic-fetch/internal/domain"
	"github.com/vertextoedge/isic-fetch/internal/domain/vo"
	"github.com/vertextoedge/isic-fetch/internal/port"
)

const ruleWidth = 80

// Console prints human-readable status text for an interactive run
type Console struct {
	out      io.Writer
	progress bool
	interval time.Duration

	ok   *color.Color
	warn *color.Color
	fail *color.Color
	head *color.Color
}

// Ensure Console implements port.Observer
var _ port.Observer = (*Console)(nil)

// New creates a console writing to out.
// Progress bars are drawn at most once per refresh interval.
func New(out io.Writer, progress bool, refresh time.Duration) *Console {
	if refresh <= 0 {
		refresh = 200 * time.Millisecond
	}
	return &Console{
		out:      out,
		progress: progress,
		interval: refresh,
		ok:       color.New(color.FgGreen),
		warn:     color.New(color.FgYellow),
		fail:     color.New(color.FgRed, color.Bold),
		head:     color.New(color.FgCyan, color.Bold),
	}
}

// Banner prints the dataset header shown before any work starts
func (c *Console) Banner(source string) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintln(c.out, rule)
	c.head.Fprintln(c.out, "  ISIC 2019 DOWNLOAD - Skin lesion classification")
	fmt.Fprintf(c.out, "  Source : %s\n", source)
	fmt.Fprintln(c.out, "  License: CC-BY-NC 4.0")
	fmt.Fprintln(c.out, rule)
}

func (c *Console) FetchSkipped(res domain.ResourceDescriptor, size int64) {
	c.ok.Fprint(c.out, "✓ ")
	fmt.Fprintf(c.out, "%s already present (%s)\n", res.Name(), vo.FormatBytes(size))
}

func (c *Console) FetchStarted(res domain.ResourceDescriptor) {
	fmt.Fprintln(c.out)
	c.head.Fprint(c.out, "↓ ")
	if res.ExpectedSize != "" {
		fmt.Fprintf(c.out, "Downloading %s (~%s)...\n", res.Name(), res.ExpectedSize)
		return
	}
	fmt.Fprintf(c.out, "Downloading %s...\n", res.Name())
}

func (c *Console) FetchFinished(res domain.ResourceDescriptor, size int64) {
	c.ok.Fprint(c.out, "✓ ")
	fmt.Fprintf(c.out, "%s downloaded (%s)\n", res.Name(), vo.FormatBytes(size))
}

func (c *Console) ExtractSkipped(targetDir string, existing int) {
	c.ok.Fprint(c.out, "✓ ")
	fmt.Fprintf(c.out, "Images already extracted: %s files in %s\n", humanize.Comma(int64(existing)), targetDir)
}

func (c *Console) ExtractStarted(archivePath string, entries int) {
	fmt.Fprintln(c.out)
	c.head.Fprint(c.out, "▸ ")
	fmt.Fprintf(c.out, "Extracting %s (%s entries)...\n", filepath.Base(archivePath), humanize.Comma(int64(entries)))
}

func (c *Console) ExtractFinished(archivePath string, entries int) {
	c.ok.Fprint(c.out, "✓ ")
	fmt.Fprintf(c.out, "Extracted %s entries\n", humanize.Comma(int64(entries)))
}

func (c *Console) ArchiveDeleted(archivePath string) {
	c.ok.Fprint(c.out, "✓ ")
	fmt.Fprintf(c.out, "Deleted %s to reclaim disk space\n", filepath.Base(archivePath))
}

// Track returns a progress bar, or a silent tracker when progress is disabled
func (c *Console) Track(name string, total int64, unit port.ProgressUnit) port.Tracker {
	if !c.progress {
		return nopTracker{}
	}
	return newBar(c.out, name, total, unit, c.interval)
}

// Report prints the readiness summary
func (c *Console) Report(r *domain.ReadinessReport) {
	fmt.Fprintln(c.out)
	c.head.Fprintln(c.out, "Verifying dataset...")
	fmt.Fprintf(c.out, "   Images        : %s / %s expected\n",
		humanize.Comma(int64(r.FileCount)), humanize.Comma(int64(r.ExpectedCount)))
	fmt.Fprintf(c.out, "   Ground Truth  : %s %s\n", c.mark(r.GroundTruthPresent), filepath.Base(r.GroundTruthPath))
	fmt.Fprintf(c.out, "   Metadata      : %s %s\n", c.mark(r.MetadataPresent), filepath.Base(r.MetadataPath))
	fmt.Fprintln(c.out)

	if !r.Ready {
		c.warn.Fprintln(c.out, "⚠ Dataset incomplete - re-run isic-fetch")
		return
	}

	c.ok.Fprintln(c.out, "ISIC 2019 dataset ready to use!")
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "Dataset structure:")
	fmt.Fprintf(c.out, "   - Images   : %s\n", r.ImageDir)
	fmt.Fprintf(c.out, "   - Labels   : %s\n", r.GroundTruthPath)
	fmt.Fprintf(c.out, "   - Metadata : %s\n", r.MetadataPath)
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "Lesion classes:")
	for _, lc := range domain.LesionClasses {
		fmt.Fprintf(c.out, "   %-5s %s\n", lc.Code, lc.Name)
	}
}

// Interrupted prints the resume hint after a user cancellation
func (c *Console) Interrupted() {
	fmt.Fprintln(c.out)
	c.warn.Fprintln(c.out, "⚠ Download interrupted by user")
	fmt.Fprintln(c.out, "   Re-run isic-fetch to continue where it stopped")
}

// Fatal prints a failure with guidance on what to do next
func (c *Console) Fatal(err error) {
	fmt.Fprintln(c.out)
	c.fail.Fprint(c.out, "✗ Fatal error: ")
	fmt.Fprintln(c.out, err)

	switch {
	case domain.IsExtractionError(err):
		fmt.Fprintln(c.out, "   The archive was kept; check free disk space and re-run")
	default:
		fmt.Fprintln(c.out, "   Check your internet connection and try again")
	}
}

// PrintRuns prints recorded runs as a table, newest first
func (c *Console) PrintRuns(runs []*domain.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(c.out, "No runs recorded yet")
		return
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tDURATION\tOUTCOME\tFILES\tREADY\tERROR")
	for _, run := range runs {
		duration := "-"
		if run.FinishedAt != nil {
			duration = run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%t\t%s\n",
			run.ID,
			humanize.Time(run.StartedAt),
			duration,
			run.Outcome,
			humanize.Comma(int64(run.FileCount)),
			run.Ready,
			run.Error,
		)
	}
	tw.Flush()
}

// PrintPhases prints the phase events of one run in the order they happened
func (c *Console) PrintPhases(phases []*domain.PhaseEvent) {
	if len(phases) == 0 {
		fmt.Fprintln(c.out, "No phases recorded for this run")
		return
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PHASE\tRESOURCE\tSTATUS\tCOUNT\tAT\tDETAIL")
	for _, p := range phases {
		resource := p.ResourceID
		if resource == "" {
			resource = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Phase,
			resource,
			p.Status,
			humanize.Comma(p.Bytes),
			p.CreatedAt.Format(time.DateTime),
			p.Detail,
		)
	}
	tw.Flush()
}

func (c *Console) mark(ok bool) string {
	if ok {
		return c.ok.Sprint("✓")
	}
	return c.fail.Sprint("✗")
}
