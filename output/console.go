package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"portprobe/scanner"
)

// Summary is the pre-scan banner.
type Summary struct {
	Target   string
	Address  string // resolved address, shown when it differs from Target
	Ports    int
	Workers  int
	Proxies  []string
	Estimate time.Duration
}

// Printer renders scan banners and results. With color disabled it writes
// plain text.
type Printer struct {
	w     io.Writer
	color bool

	target lipgloss.Style
	note   lipgloss.Style
	good   lipgloss.Style
	bad    lipgloss.Style
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:      w,
		color:  color,
		target: r.NewStyle().Foreground(lipgloss.Color("6")),
		note:   r.NewStyle().Foreground(lipgloss.Color("3")),
		good:   r.NewStyle().Foreground(lipgloss.Color("2")),
		bad:    r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

func (p *Printer) paint(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

// Summary prints the target, the proxies in use and the estimated duration.
func (p *Printer) Summary(s Summary) {
	target := s.Target
	if s.Address != "" && s.Address != s.Target {
		target = fmt.Sprintf("%s (%s)", s.Target, s.Address)
	}
	fmt.Fprintf(p.w, "Scanning %s for open ports...\n", p.paint(p.target, target))
	fmt.Fprintf(p.w, "Ports: %d, workers: %d\n", s.Ports, s.Workers)
	if len(s.Proxies) > 0 {
		fmt.Fprintf(p.w, "Using proxies: %s\n", p.paint(p.note, strings.Join(s.Proxies, ", ")))
	}
	est := fmt.Sprintf("%.2f minutes", s.Estimate.Minutes())
	fmt.Fprintf(p.w, "Estimated time to complete: %s (conservative estimate based on parallel scanning)\n", p.paint(p.note, est))
}

// Warn prints a highlighted warning line.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.w, p.paint(p.bad, "warning: "+fmt.Sprintf(format, args...)))
}

// Result prints the open ports and timing of a finished or interrupted scan.
func (p *Printer) Result(res scanner.Result) {
	if !res.Completed {
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w, p.paint(p.bad, "Scan interrupted by user."))
	}

	switch {
	case len(res.Open) > 0 && res.Completed:
		fmt.Fprintln(p.w, p.paint(p.good, "Open ports:"))
	case len(res.Open) > 0:
		fmt.Fprintln(p.w, p.paint(p.good, "Open ports found so far:"))
	case res.Completed:
		fmt.Fprintln(p.w, p.paint(p.bad, "No open ports found."))
	default:
		fmt.Fprintln(p.w, p.paint(p.bad, "No open ports found so far."))
	}
	for _, port := range res.Open {
		fmt.Fprintln(p.w, p.paint(p.good, fmt.Sprintf("Port %d: Open", port)))
	}

	secs := res.Elapsed.Seconds()
	if res.Completed {
		fmt.Fprintf(p.w, "Scan completed in %.2f seconds\n", secs)
		return
	}
	fmt.Fprintf(p.w, "Partial scan duration: %.2f seconds (%d/%d ports probed)\n", secs, res.Probed, res.Total)
}
