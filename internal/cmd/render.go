package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/guestdrop/service/internal/batch"
)

// statusRenderer prints one line per file status change and the batch
// summary once the loop is done.
type statusRenderer struct {
	out  io.Writer
	last []batch.Status
	done bool

	pending   lipgloss.Style
	uploading lipgloss.Style
	success   lipgloss.Style
	failure   lipgloss.Style
	summary   lipgloss.Style
}

func newStatusRenderer(out io.Writer) *statusRenderer {
	// Color support is detected on out, not on the process stdout.
	lr := lipgloss.NewRenderer(out)
	return &statusRenderer{
		out:       out,
		pending:   lr.NewStyle().Foreground(lipgloss.Color("8")),
		uploading: lr.NewStyle().Foreground(lipgloss.Color("11")),
		success:   lr.NewStyle().Foreground(lipgloss.Color("10")),
		failure:   lr.NewStyle().Foreground(lipgloss.Color("9")),
		summary:   lr.NewStyle().Bold(true),
	}
}

func (r *statusRenderer) Render(s *batch.State) {
	if r.last == nil {
		r.last = make([]batch.Status, len(s.Statuses))
		for i := range r.last {
			r.last[i] = batch.StatusPending
		}
	}

	for i, fs := range s.Statuses {
		if fs.Status == r.last[i] {
			continue
		}
		r.last[i] = fs.Status
		fmt.Fprintln(r.out, r.statusLine(i+1, len(s.Statuses), fs))
	}

	if s.Uploading || r.done {
		return
	}
	r.done = true

	if s.CodeError != "" {
		fmt.Fprintln(r.out, r.failure.Render(s.CodeError))
	}
	style := r.success
	if s.HasErrors() || s.Canceled {
		style = r.failure
	}
	fmt.Fprintln(r.out, r.summary.Inherit(style).Render(s.Summary()))
}

func (r *statusRenderer) statusLine(n, total int, fs batch.FileUploadStatus) string {
	prefix := fmt.Sprintf("[%d/%d] %s", n, total, fs.Name)
	switch fs.Status {
	case batch.StatusUploading:
		return r.uploading.Render(prefix + " uploading...")
	case batch.StatusSuccess:
		return r.success.Render(prefix + " done")
	case batch.StatusError:
		return r.failure.Render(prefix + " failed: " + fs.Error)
	default:
		return r.pending.Render(prefix + " pending")
	}
}
