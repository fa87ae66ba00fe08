package output

import (
	"fmt"
	"io"

	"github.com/cheggaaa/pb/v3"

	"portprobe/port"
)

const progressTemplate = `{{counters . }} {{bar . }} {{percent . }} {{etime . }} {{string . "open"}}`

// Progress shows a live bar of probed ports. A disabled Progress does
// nothing, so callers need not check.
type Progress struct {
	bar  *pb.ProgressBar
	open int
}

// NewProgress starts a bar for total probes on w when enabled is true.
func NewProgress(w io.Writer, total int, enabled bool) *Progress {
	if !enabled {
		return &Progress{}
	}
	bar := pb.New(total).
		SetTemplateString(progressTemplate).
		SetWriter(w).
		Set("open", "open: 0")
	bar.Start()
	return &Progress{bar: bar}
}

// Observe advances the bar by one outcome. It is meant to be used as
// scanner.Config.OnOutcome, which runs on a single goroutine.
func (p *Progress) Observe(o port.Outcome) {
	if p.bar == nil {
		return
	}
	if o.Open {
		p.open++
		p.bar.Set("open", fmt.Sprintf("open: %d", p.open))
	}
	p.bar.Increment()
}

// Finish stops the bar.
func (p *Progress) Finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}
