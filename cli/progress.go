package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

const (
	prefixWidth = 20
)

// ByteProgresser tracks bytes written through it.
type ByteProgresser interface {
	io.Writer
	Done()
}

type BarProgresser struct {
	bar *progressbar.ProgressBar
}

type NoopProgresser struct {
}

// NewByteProgress returns a progress bar rendered to w. A total of -1 means
// the size is unknown and a spinner is shown instead.
func NewByteProgress(w io.Writer, total int64, text string, visible bool) ByteProgresser {
	if !visible {
		return NoopProgresser{}
	}
	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(rightPad(text)),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(10),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
	return &BarProgresser{bar: bar}
}

// IsTerminal reports whether w is a terminal, anything without a file
// descriptor is not.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func rightPad(s string) string {
	if len(s) > prefixWidth {
		s = s[:prefixWidth]
	}
	return fmt.Sprintf("%-*s ", prefixWidth, s)
}

func (p *BarProgresser) Write(b []byte) (int, error) {
	return p.bar.Write(b)
}

// Done marks the progress as done.
func (p *BarProgresser) Done() {
	p.bar.Finish()
}

func (p NoopProgresser) Write(b []byte) (int, error) { return len(b), nil }
func (p NoopProgresser) Done()                       {}
