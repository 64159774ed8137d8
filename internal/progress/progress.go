package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// Reporter receives per-item progress from a long loop.
type Reporter interface {
	Increment()
	Finish()
}

// Factory starts a Reporter for a loop over total items.
type Factory func(total int, message string) Reporter

type nop struct{}

func (nop) Increment() {}
func (nop) Finish()    {}

// Nop is a Factory whose reporters draw nothing.
func Nop(int, string) Reporter { return nop{} }

// Terminal returns a Factory drawing to w when w is a terminal, and Nop otherwise.
func Terminal(w io.Writer) Factory {
	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return Nop
	}
	return func(total int, message string) Reporter {
		return NewProgress(w, total, message)
	}
}

const redrawEvery = 100 * time.Millisecond

var spinner = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ProgressTracker redraws a one-line spinner as items complete. It draws from
// the caller's goroutine and at most once per redraw interval.
type ProgressTracker struct {
	w         io.Writer
	total     int
	current   int
	message   string
	frame     int
	startTime time.Time
	lastDraw  time.Time
	now       func() time.Time
}

func NewProgress(w io.Writer, total int, message string) *ProgressTracker {
	p := &ProgressTracker{
		w:       w,
		total:   total,
		message: message,
		now:     time.Now,
	}
	p.startTime = p.now()
	return p
}

func (p *ProgressTracker) Increment() {
	p.current++
	if now := p.now(); now.Sub(p.lastDraw) >= redrawEvery {
		p.lastDraw = now
		p.draw()
	}
}

func (p *ProgressTracker) draw() {
	frame := spinner[p.frame%len(spinner)]
	p.frame++
	if p.total > 0 {
		percent := float64(p.current) / float64(p.total) * 100
		fmt.Fprintf(p.w, "\r%s %s [%d/%d] %.0f%%  ", frame, p.message, p.current, p.total, percent)
		return
	}
	fmt.Fprintf(p.w, "\r%s %s [%d files]  ", frame, p.message, p.current)
}

func (p *ProgressTracker) Finish() {
	elapsed := p.now().Sub(p.startTime)
	fmt.Fprintf(p.w, "\r✓ %s (%d files, %s)          \n",
		p.message, p.current, elapsed.Round(time.Millisecond))
}
