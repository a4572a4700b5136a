// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-assistant/internal/export"
	"github.com/jonathan/resume-assistant/internal/store"
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

// PrintResume outputs a human-readable summary of a stored resume record.
func (p *Printer) PrintResume(resume *store.Resume) {
	if resume == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("ID:       %d\n", resume.ID))
	sb.WriteString(fmt.Sprintf("Name:     %s\n", resume.CandidateName))
	sb.WriteString(fmt.Sprintf("Status:   %s\n", resume.Status))
	if resume.Email != "" {
		sb.WriteString(fmt.Sprintf("Email:    %s\n", resume.Email))
	}
	if resume.Phone != "" {
		sb.WriteString(fmt.Sprintf("Phone:    %s\n", resume.Phone))
	}

	if len(resume.Skills) > 0 {
		sb.WriteString("\nSkills:\n")
		count := min(len(resume.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", resume.Skills[i]))
		}
		if len(resume.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(resume.Skills)-maxItemsToShow))
		}
	}

	if resume.ResumeFileURL != "" {
		sb.WriteString(fmt.Sprintf("\nFile:     %s\n", resume.ResumeFileURL))
	}

	p.printBox("RESUME RECORD", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDocument outputs the structured document produced by the export
// transform stage.
func (p *Printer) PrintDocument(doc *export.Document) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", doc.Basics.Name))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", doc.Basics.Email))
	sb.WriteString(fmt.Sprintf("Phone:    %s\n", doc.Basics.Phone))
	sb.WriteString("\n")

	if len(doc.Work) > 0 {
		sb.WriteString("Work:\n")
		count := min(len(doc.Work), maxItemsToShow)
		for i := 0; i < count; i++ {
			entry := doc.Work[i]
			sb.WriteString(fmt.Sprintf("  • %s, %s", entry.Position, entry.Company))
			if entry.StartDate != "" || entry.EndDate != "" {
				sb.WriteString(fmt.Sprintf(" (%s–%s)", entry.StartDate, entry.EndDate))
			}
			sb.WriteString("\n")
		}
		if len(doc.Work) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(doc.Work)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(doc.Education) > 0 {
		sb.WriteString("Education:\n")
		count := min(len(doc.Education), 3)
		for i := 0; i < count; i++ {
			entry := doc.Education[i]
			sb.WriteString(fmt.Sprintf("  • %s, %s\n", entry.Area, entry.Institution))
		}
		if len(doc.Education) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(doc.Education)-3))
		}
		sb.WriteString("\n")
	}

	if len(doc.Skills) > 0 {
		skills := strings.Join(doc.Skills, ", ")
		if len(skills) > 45 {
			skills = skills[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("Skills:   %s\n", skills))
	}

	p.printBox("STRUCTURED DOCUMENT", strings.TrimSuffix(sb.String(), "\n"))
}
