package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonathan/cv-agent/internal/llm"
	"github.com/jonathan/cv-agent/internal/prompts"
	"github.com/jonathan/cv-agent/internal/types"
)

const (
	letterDescriptionLimit = 1500
	letterMaxExperiences   = 2
	letterMaxSkills        = 5
	letterDateFormat       = "January 02, 2006"
)

// LetterGenerator builds the cover letter for one job. The structural shell
// (header, date, recipient, salutation, closing) is always deterministic;
// only the body paragraphs come from the model.
type LetterGenerator struct {
	client llm.Client
	logger *slog.Logger
	now    func() time.Time
}

// NewLetterGenerator creates a LetterGenerator. A nil client selects the
// deterministic body.
func NewLetterGenerator(client llm.Client, logger *slog.Logger) *LetterGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &LetterGenerator{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Generate assembles the cover letter. The tailored CV is a required input;
// its headline and skill ordering keep the letter consistent with the CV.
func (g *LetterGenerator) Generate(ctx context.Context, info *types.PersonalInfo, cv *types.CVDocument, job types.JobInfo, bundle *types.ContextBundle) (*types.CoverLetter, error) {
	if info == nil {
		return nil, &GenerationError{Stage: "cover_letter", Cause: ErrMissingPersonalInfo}
	}
	if cv == nil {
		return nil, &GenerationError{Stage: "cover_letter", Cause: ErrMissingCV}
	}

	body := g.generateBody(ctx, info, cv, job, bundle)

	var sb strings.Builder
	sb.WriteString(info.Name)
	sb.WriteString("\n\n")
	sb.WriteString(contactBlock(info))
	sb.WriteString("\n\n")
	sb.WriteString(g.now().Format(letterDateFormat))
	sb.WriteString("\n\n")
	sb.WriteString("Hiring Manager\n")
	sb.WriteString(job.Company)
	if job.Location != "" {
		sb.WriteString("\n")
		sb.WriteString(job.Location)
	}
	sb.WriteString("\n\n")
	sb.WriteString("Dear Hiring Manager,\n\n")
	sb.WriteString(strings.TrimSpace(body))
	sb.WriteString("\n\nSincerely,\n")
	sb.WriteString(info.Name)
	sb.WriteString("\n")

	return &types.CoverLetter{Text: sb.String()}, nil
}

func contactBlock(info *types.PersonalInfo) string {
	var parts []string
	for _, p := range []string{info.Email, info.Phone, info.Location.String()} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n")
}

// generateBody produces the letter body, falling back to the deterministic
// template when the model is unavailable or fails.
func (g *LetterGenerator) generateBody(ctx context.Context, info *types.PersonalInfo, cv *types.CVDocument, job types.JobInfo, bundle *types.ContextBundle) string {
	if g.client == nil {
		return deterministicBody(info, job)
	}

	prompt := prompts.Format(prompts.MustGet("generation.json", "cover_letter_body"), map[string]string{
		"JobTitle":       job.Title,
		"Company":        job.Company,
		"JobDescription": truncate(job.Description, letterDescriptionLimit),
		"CandidateData":  letterCandidate(info),
		"CVHighlights":   cvHighlights(cv),
		"Context":        renderBundle(bundle),
	})

	body, err := g.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		g.logger.Warn("cover letter body generation failed, using deterministic body", "error", err)
		return deterministicBody(info, job)
	}
	body = stripSalutation(body)
	if strings.TrimSpace(body) == "" {
		g.logger.Warn("cover letter body generation returned nothing, using deterministic body")
		return deterministicBody(info, job)
	}
	return body
}

// stripSalutation removes a leading greeting line the model may add despite
// instruction. The deterministic shell supplies its own salutation.
func stripSalutation(body string) string {
	trimmed := strings.TrimSpace(body)
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "dear ") || strings.HasPrefix(lower, "to whom it may concern") {
		if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
			return strings.TrimSpace(trimmed[idx+1:])
		}
		return ""
	}
	return trimmed
}

// cvHighlights summarizes the tailored CV for the letter prompt.
func cvHighlights(cv *types.CVDocument) string {
	var sb strings.Builder
	if cv.Headline != "" {
		sb.WriteString("Headline: ")
		sb.WriteString(cv.Headline)
		sb.WriteString("\n")
	}
	for _, skill := range cv.Sections.Skills {
		sb.WriteString(skill.Label)
		sb.WriteString(": ")
		sb.WriteString(skill.Details)
		sb.WriteString("\n")
	}
	if sb.Len() == 0 {
		return "(none)"
	}
	return sb.String()
}

// letterCandidate renders the trimmed candidate facts as prompt text.
func letterCandidate(info *types.PersonalInfo) string {
	var sb strings.Builder
	sb.WriteString("Name: ")
	sb.WriteString(info.Name)
	sb.WriteString("\n")
	if info.Summary != "" {
		sb.WriteString("Summary: ")
		sb.WriteString(info.Summary)
		sb.WriteString("\n")
	}

	skills := info.Skills
	if len(skills) > letterMaxSkills {
		skills = skills[:letterMaxSkills]
	}
	if len(skills) > 0 {
		sb.WriteString("Key skills: ")
		sb.WriteString(strings.Join(skills, ", "))
		sb.WriteString("\n")
	}

	experiences := info.Experiences
	if len(experiences) > letterMaxExperiences {
		experiences = experiences[:letterMaxExperiences]
	}
	for _, exp := range experiences {
		sb.WriteString(fmt.Sprintf("Experience: %s at %s (%s to %s): %s\n",
			exp.Position, exp.Company, exp.StartDate, orDefault(exp.EndDate, "present"), exp.Description))
	}
	return sb.String()
}

// deterministicBody writes a conservative three-paragraph body using only
// verified facts.
func deterministicBody(info *types.PersonalInfo, job types.JobInfo) string {
	position := job.Title
	if job.IsPlaceholder() {
		position = "the open position"
	}

	var paragraphs []string

	opening := fmt.Sprintf("I am writing to express my interest in %s at %s.", position, orDefault(job.Company, "your company"))
	if info.Summary != "" {
		opening += " " + info.Summary
	}
	paragraphs = append(paragraphs, opening)

	var middle string
	if len(info.Experiences) > 0 {
		exp := info.Experiences[0]
		middle = fmt.Sprintf("In my role as %s at %s, I have built experience directly relevant to this position.", exp.Position, exp.Company)
	}
	skills := info.Skills
	if len(skills) > letterMaxSkills {
		skills = skills[:letterMaxSkills]
	}
	if len(skills) > 0 {
		if middle != "" {
			middle += " "
		}
		middle += fmt.Sprintf("My core skills include %s.", strings.Join(skills, ", "))
	}
	if middle != "" {
		paragraphs = append(paragraphs, middle)
	}

	paragraphs = append(paragraphs, "I would welcome the opportunity to discuss how my background fits your needs. Thank you for your time and consideration.")

	return strings.Join(paragraphs, "\n\n")
}
