package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/vertextoedge/isic-fetch/internal/domain"
	"github.com/vertextoedge/isic-fetch/internal/domain/vo"
	"github.com/vertextoedge/isic-fetch/internal/port"
	"github.com/vertextoedge/isic-fetch/internal/util/ratelimiter"
)

const barWidth = 30

// bar is a single-line progress bar redrawn in place with a carriage return
type bar struct {
	out     io.Writer
	name    string
	total   int64
	unit    port.ProgressUnit
	current int64
	started time.Time
	limiter *ratelimiter.Limiter
	done    bool
}

func newBar(out io.Writer, name string, total int64, unit port.ProgressUnit, interval time.Duration) *bar {
	return &bar{
		out:     out,
		name:    name,
		total:   total,
		unit:    unit,
		started: time.Now(),
		limiter: ratelimiter.New(interval),
	}
}

func (b *bar) Add(n int64) {
	b.current += n
	if ok, _ := b.limiter.Allow(); ok {
		b.render()
	}
}

func (b *bar) Done() {
	if b.done {
		return
	}
	b.done = true
	b.render()
	fmt.Fprintln(b.out)
}

func (b *bar) render() {
	fmt.Fprintf(b.out, "\r   %s %s", b.name, b.line())
}

// line formats everything after the name
func (b *bar) line() string {
	counter := b.format(b.current)
	if b.total <= 0 {
		return fmt.Sprintf("%s %s", counter, b.rate())
	}

	pct := float64(b.current) / float64(b.total)
	if pct > 1 {
		pct = 1
	}
	filled := int(pct * barWidth)
	return fmt.Sprintf("[%s%s] %5.1f%% %s / %s %s",
		strings.Repeat("#", filled),
		strings.Repeat(" ", barWidth-filled),
		pct*100,
		counter,
		b.format(b.total),
		b.rate(),
	)
}

func (b *bar) format(n int64) string {
	if b.unit == port.UnitEntries {
		return humanize.Comma(n)
	}
	return vo.FormatBytes(n)
}

func (b *bar) rate() string {
	elapsed := time.Since(b.started).Seconds()
	if elapsed <= 0 || b.unit != port.UnitBytes {
		return ""
	}
	return vo.FormatBytes(int64(float64(b.current)/elapsed)) + "/s"
}

type nopTracker struct{}

func (nopTracker) Add(int64) {}
func (nopTracker) Done()     {}

type nopObserver struct{}

// Nop returns an observer that discards every notification
func Nop() port.Observer {
	return nopObserver{}
}

func (nopObserver) FetchSkipped(domain.ResourceDescriptor, int64)  {}
func (nopObserver) FetchStarted(domain.ResourceDescriptor)         {}
func (nopObserver) FetchFinished(domain.ResourceDescriptor, int64) {}
func (nopObserver) ExtractSkipped(string, int)                     {}
func (nopObserver) ExtractStarted(string, int)                     {}
func (nopObserver) ExtractFinished(string, int)                    {}
func (nopObserver) ArchiveDeleted(string)                          {}

func (nopObserver) Track(string, int64, port.ProgressUnit) port.Tracker {
	return nopTracker{}
}
