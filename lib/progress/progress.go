// Package progress renders a completed/total indicator for a batch whose
// jobs signal once each when they finish.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const DefaultWidth = 40

// Bar is the state of the indicator. it is a value: Advance returns the
// next state rather than mutating the receiver.
type Bar struct {
	Completed int
	Total     int
	Width     int
}

func NewBar(total int) Bar {
	return Bar{Total: total, Width: DefaultWidth}
}

func (b Bar) Advance() Bar {
	if b.Completed < b.Total {
		b.Completed++
	}
	return b
}

func (b Bar) Done() bool {
	return b.Completed >= b.Total
}

func (b Bar) Fraction() float64 {
	if b.Total == 0 {
		return 1
	}
	return float64(b.Completed) / float64(b.Total)
}

var countStyle = lipgloss.NewStyle().Bold(true)

// View renders the bar followed by the completed/total count.
func (b Bar) View() string {
	model := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(b.Width),
		progress.WithoutPercentage(),
	)
	count := fmt.Sprintf("%d/%d", b.Completed, b.Total)
	return fmt.Sprintf("%s %s (%3.0f%%)", model.ViewAs(b.Fraction()), countStyle.Render(count), b.Fraction()*100)
}

// Reporter consumes completion signals and redraws the bar after each.
// on a terminal the bar is redrawn in place, otherwise one line is written
// per update.
type Reporter struct {
	mu  sync.Mutex
	out io.Writer
	tty bool
	bar Bar
}

func NewReporter(out io.Writer, total int) *Reporter {
	tty := false
	if f, ok := out.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}
	return &Reporter{out: out, tty: tty, bar: NewBar(total)}
}

func (r *Reporter) draw() {
	if r.tty {
		fmt.Fprintf(r.out, "\r\x1b[2K%s", r.bar.View())
		return
	}
	fmt.Fprintf(r.out, "progress %d/%d\n", r.bar.Completed, r.bar.Total)
}

// Run blocks until one signal per job has been received, then returns the
// final state. a closed channel also ends the run early.
func (r *Reporter) Run(signals <-chan struct{}) Bar {
	r.mu.Lock()
	if r.bar.Done() {
		defer r.mu.Unlock()
		return r.bar
	}
	if r.tty {
		r.draw()
	}
	r.mu.Unlock()

	for range signals {
		r.mu.Lock()
		r.bar = r.bar.Advance()
		r.draw()
		done := r.bar.Done()
		r.mu.Unlock()
		if done {
			break
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tty {
		fmt.Fprintln(r.out)
	}
	return r.bar
}

type lineWriter struct {
	r *Reporter
}

// Writer returns an io.Writer for diagnostics that share the reporter's
// output. on a terminal the bar is cleared before each write and redrawn
// after it so the two never end up on the same line.
func (r *Reporter) Writer() io.Writer {
	return lineWriter{r: r}
}

func (w lineWriter) Write(p []byte) (int, error) {
	w.r.mu.Lock()
	defer w.r.mu.Unlock()

	if !w.r.tty {
		return w.r.out.Write(p)
	}
	fmt.Fprint(w.r.out, "\r\x1b[2K")
	n, err := w.r.out.Write(p)
	if err != nil {
		return n, err
	}
	if !w.r.bar.Done() {
		fmt.Fprint(w.r.out, w.r.bar.View())
	}
	return n, nil
}
