// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/cv-agent/internal/generation"
	"github.com/jonathan/cv-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJobInfo outputs a human-readable summary of the extracted job.
func (p *Printer) PrintJobInfo(job types.JobInfo) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:   %s\n", job.Company))
	sb.WriteString(fmt.Sprintf("Position:  %s\n", job.Title))
	if job.Location != "" {
		sb.WriteString(fmt.Sprintf("Location:  %s\n", job.Location))
	}
	sb.WriteString(fmt.Sprintf("URL:       %s\n", job.URL))
	if job.IsPlaceholder() {
		sb.WriteString("\nExtraction degraded to placeholders")
		if job.Err != "" {
			sb.WriteString(fmt.Sprintf(": %s", job.Err))
		}
		sb.WriteString("\n")
	}
	p.printBox("EXTRACTED JOB", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintContextBundle outputs what retrieval selected for the job.
func (p *Printer) PrintContextBundle(bundle *types.ContextBundle) {
	if bundle == nil {
		return
	}

	var sb strings.Builder
	if bundle.Fallback {
		sb.WriteString("Mode: direct fact store scan (no index)\n\n")
	} else {
		sb.WriteString("Mode: similarity search\n\n")
	}

	groups := []struct {
		label string
		items []types.ContextItem
	}{
		{"Experience", bundle.Experience},
		{"Skills", bundle.Skills},
		{"Projects", bundle.Projects},
		{"Education", bundle.Education},
		{"Code samples", bundle.CodeSamples},
	}
	for _, g := range groups {
		if len(g.items) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s: %d item(s)\n", g.label, len(g.items)))
		count := min(len(g.items), maxItemsToShow)
		for i := 0; i < count; i++ {
			text := g.items[i].Text()
			if len(text) > 45 {
				text = text[:42] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", text))
		}
	}

	p.printBox("RETRIEVED CONTEXT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCVSummary outputs the shape of the generated CV.
func (p *Printer) PrintCVSummary(cv *types.CVDocument) {
	if cv == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:      %s\n", cv.Name))
	if cv.Headline != "" {
		sb.WriteString(fmt.Sprintf("Headline:  %s\n", cv.Headline))
	}
	sb.WriteString(fmt.Sprintf("\nExperience entries: %d\n", len(cv.Sections.Experience)))
	sb.WriteString(fmt.Sprintf("Education entries:  %d\n", len(cv.Sections.Education)))
	sb.WriteString(fmt.Sprintf("Projects:           %d\n", len(cv.Sections.Projects)))
	sb.WriteString(fmt.Sprintf("Skill categories:   %d\n", len(cv.Sections.Skills)))

	count := min(len(cv.Sections.Skills), maxItemsToShow)
	for i := 0; i < count; i++ {
		s := cv.Sections.Skills[i]
		details := s.Details
		if len(details) > 35 {
			details = details[:32] + "..."
		}
		sb.WriteString(fmt.Sprintf("  • %s: %s\n", s.Label, details))
	}

	p.printBox("GENERATED CV", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintHonestyFindings outputs what the honesty check dropped or flagged.
func (p *Printer) PrintHonestyFindings(findings []generation.Finding) {
	if len(findings) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d finding(s):\n\n", len(findings)))

	count := min(len(findings), maxItemsToShow)
	for i := 0; i < count; i++ {
		f := findings[i]
		entry := f.Entry
		if len(entry) > 40 {
			entry = entry[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("• [%s] %s\n", f.Action, entry))
		sb.WriteString(fmt.Sprintf("  %s\n", f.Reason))
	}
	if len(findings) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(findings)-maxItemsToShow))
	}

	p.printBox("HONESTY CHECK", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintOutputLocation outputs where the bundle was written.
func (p *Printer) PrintOutputLocation(dir string) {
	p.printBox("APPLICATION BUNDLE", fmt.Sprintf("Written to:\n%s", dir))
}
