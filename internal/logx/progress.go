package logx

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
)

// DownloadBar draws a single-line download progress bar. It redraws in place
// and needs a terminal.
type DownloadBar struct {
	w      io.Writer
	bar    progress.Model
	total  int64
	done   int64
	active bool
}

// NewDownloadBar returns a bar writing to w.
func NewDownloadBar(w io.Writer) *DownloadBar {
	return &DownloadBar{
		w:   w,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

// Start resets the bar for a download of total bytes. total may be zero when
// the size is unknown.
func (b *DownloadBar) Start(total int64) {
	b.total = total
	b.done = 0
	b.active = true
	b.draw()
}

// Add records n more bytes.
func (b *DownloadBar) Add(n int64) {
	if !b.active {
		return
	}
	b.done += n
	b.draw()
}

// Finish completes the line.
func (b *DownloadBar) Finish() {
	if !b.active {
		return
	}
	if b.total > 0 {
		b.done = b.total
	}
	b.draw()
	fmt.Fprintln(b.w)
	b.active = false
}

// Percent is the completed fraction, or 0 when the size is unknown.
func (b *DownloadBar) Percent() float64 {
	if b.total <= 0 {
		return 0
	}
	p := float64(b.done) / float64(b.total)
	if p > 1 {
		return 1
	}
	return p
}

func (b *DownloadBar) draw() {
	fmt.Fprintf(b.w, "\r%s %s", b.bar.ViewAs(b.Percent()), humanBytes(b.done))
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
