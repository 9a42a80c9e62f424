// Package output assembles the final application bundle on disk: the two
// PDFs and a plain-text summary in a per-job directory.
package output

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/cv-agent/internal/types"
)

// Bundle file names inside each application directory.
const (
	CVFileName      = "CV.pdf"
	LetterFileName  = "cover_letter.pdf"
	SummaryFileName = "summary.txt"
)

// maxComponentLen bounds a sanitized path component.
const maxComponentLen = 100

// Assembler writes application bundles under the output root.
type Assembler struct {
	root   string
	logger *slog.Logger
	now    func() time.Time
}

// NewAssembler creates an Assembler rooted at dir.
func NewAssembler(root string, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{root: root, logger: logger, now: time.Now}
}

// Result describes what was written where.
type Result struct {
	Dir         string
	CVPath      string
	LetterPath  string
	SummaryPath string
}

// Assemble writes the bundle for one job. The directory name is
// date_company_title; an existing directory gets a numeric suffix rather
// than being overwritten. A nil PDF is skipped, so degraded runs still
// produce a directory with whatever artifacts exist.
func (a *Assembler) Assemble(job types.JobInfo, cvPDF, letterPDF []byte) (*Result, error) {
	name := fmt.Sprintf("%s_%s_%s",
		a.now().Format("2006-01-02"),
		Sanitize(job.Company),
		Sanitize(job.Title),
	)

	dir, err := EnsureUniqueDir(filepath.Join(a.root, name))
	if err != nil {
		return nil, err
	}

	result := &Result{
		Dir:         dir,
		SummaryPath: filepath.Join(dir, SummaryFileName),
	}

	if cvPDF != nil {
		result.CVPath = filepath.Join(dir, CVFileName)
		if err := os.WriteFile(result.CVPath, cvPDF, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write CV: %w", err)
		}
	}
	if letterPDF != nil {
		result.LetterPath = filepath.Join(dir, LetterFileName)
		if err := os.WriteFile(result.LetterPath, letterPDF, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write cover letter: %w", err)
		}
	}
	summary := Summary(job, a.now())
	if err := os.WriteFile(result.SummaryPath, []byte(summary), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write summary: %w", err)
	}

	a.logger.Info("wrote application bundle", "dir", dir)
	return result, nil
}

// EnsureUniqueDir creates path, or path_2, path_3, ... when it already
// exists, and returns the directory actually created. Mkdir doubles as the
// existence check so concurrent runs cannot claim the same directory.
func EnsureUniqueDir(path string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output root: %w", err)
	}

	candidate := path
	for i := 2; ; i++ {
		err := os.Mkdir(candidate, 0o755)
		if err == nil {
			return candidate, nil
		}
		if !os.IsExist(err) {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
		candidate = fmt.Sprintf("%s_%d", path, i)
	}
}

// Sanitize makes a string safe as a single path component. Forbidden and
// control characters become underscores, runs collapse, and overlong names
// are truncated with an ellipsis.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r < 0x20, strings.ContainsRune(`<>:"|?*\/`, r):
			b.WriteRune('_')
		case r == ' ':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	out = strings.Trim(out, "_")
	if out == "" {
		return "unknown"
	}

	if len(out) > maxComponentLen {
		cut := maxComponentLen - 3
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = out[:cut] + "..."
	}
	return out
}

// Summary renders the human-readable run summary stored alongside the PDFs.
func Summary(job types.JobInfo, generatedAt time.Time) string {
	var sb strings.Builder
	sb.WriteString("Job Application Summary\n")
	sb.WriteString("========================\n\n")
	sb.WriteString("Job URL: " + job.URL + "\n")
	sb.WriteString("Company: " + job.Company + "\n")
	sb.WriteString("Position: " + job.Title + "\n")
	if job.Location != "" {
		sb.WriteString("Location: " + job.Location + "\n")
	}
	sb.WriteString("\nJob Description:\n")
	sb.WriteString(job.Description + "\n")
	sb.WriteString("\nGenerated on: " + generatedAt.Format(time.RFC3339) + "\n")
	return sb.String()
}
