package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/cv-agent/internal/generation"
	"github.com/jonathan/cv-agent/internal/types"
)

func TestPrintJobInfo(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobInfo(types.JobInfo{
		URL:     "https://example.com/job",
		Title:   "Backend Engineer",
		Company: "Acme",
	})

	out := buf.String()
	assert.Contains(t, out, "EXTRACTED JOB")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Backend Engineer")
	assert.Contains(t, out, "┌")
	assert.Contains(t, out, "└")
}

func TestPrintJobInfo_Placeholder(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobInfo(types.JobInfo{
		Title:   types.UnknownTitle,
		Company: types.UnknownCompany,
		Err:     "HTTP status 404",
	})

	assert.Contains(t, buf.String(), "Extraction degraded to placeholders")
}

func TestPrintContextBundle(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	bundle := &types.ContextBundle{Fallback: true}
	bundle.Add(types.KindExperience, types.ContextItem{Content: "Shipped Go services at scale in production."})

	p.PrintContextBundle(bundle)

	out := buf.String()
	assert.Contains(t, out, "RETRIEVED CONTEXT")
	assert.Contains(t, out, "direct fact store scan")
	assert.Contains(t, out, "Experience: 1 item(s)")
}

func TestPrintCVSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCVSummary(&types.CVDocument{
		Name:     "Ada Lovelace",
		Headline: "Engineer",
		Sections: types.CVSections{
			Skills: []types.CVSkill{{Label: "Languages", Details: "Go"}},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "GENERATED CV")
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "Languages: Go")
}

func TestPrintHonestyFindings(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintHonestyFindings([]generation.Finding{
		{Document: "cv", Entry: "Staff Engineer at Google", Action: "drop", Reason: "no matching experience in fact store"},
	})

	out := buf.String()
	assert.Contains(t, out, "HONESTY CHECK")
	assert.Contains(t, out, "[drop]")
	assert.Contains(t, out, "no matching experience")
}

func TestPrintHonestyFindings_EmptyPrintsNothing(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintHonestyFindings(nil)
	assert.Empty(t, buf.String())
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintOutputLocation(strings.Repeat("x", 120))

	for _, line := range strings.Split(buf.String(), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
}
