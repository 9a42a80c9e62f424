package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/cv-agent/internal/llm"
	"github.com/jonathan/cv-agent/internal/prompts"
	"github.com/jonathan/cv-agent/internal/types"
)

// Prompt truncation bounds. Small models drift on long prompts, so the
// inputs are capped before templating.
const (
	cvDescriptionLimit = 2000
	cvMaxSkills        = 10
	cvMaxExperiences   = 3
	cvMaxProjects      = 2
)

// unknownDate fills required date fields the fact store leaves empty.
const unknownDate = "n/a"

// CVGenerator builds the customized CV document for one job.
type CVGenerator struct {
	client   llm.Client
	validate *validator.Validate
	logger   *slog.Logger
}

// NewCVGenerator creates a CVGenerator. A nil client selects the
// deterministic path: the CV is assembled from facts without rewording.
func NewCVGenerator(client llm.Client, logger *slog.Logger) *CVGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &CVGenerator{
		client:   client,
		validate: validator.New(),
		logger:   logger,
	}
}

// cvCustomization is the JSON shape the model returns for CV tailoring.
type cvCustomization struct {
	Headline             string              `json:"headline"`
	Summary              string              `json:"summary"`
	ExperienceHighlights map[string][]string `json:"experience_highlights"`
	SkillOrder           []string            `json:"skill_order"`
}

// Generate builds the CV for the job. The document structure always comes
// from verified facts; the model only reorders and rewords within it.
func (g *CVGenerator) Generate(ctx context.Context, info *types.PersonalInfo, tmpl *types.CVTemplate, job types.JobInfo, bundle *types.ContextBundle) (*types.CVDocument, error) {
	cv := baseCV(info, tmpl)

	if g.client != nil {
		if custom, err := g.customize(ctx, info, job, bundle); err != nil {
			g.logger.Warn("CV customization failed, using deterministic content", "error", err)
			applyDeterministicTailoring(cv, job)
		} else {
			applyCustomization(cv, custom)
		}
	} else {
		applyDeterministicTailoring(cv, job)
	}

	if err := g.validateCV(cv); err != nil {
		return nil, err
	}
	return cv, nil
}

// baseCV assembles the uncustomized document from the fact store and the
// optional pre-filled template body.
func baseCV(info *types.PersonalInfo, tmpl *types.CVTemplate) *types.CVDocument {
	if tmpl != nil && tmpl.CV != nil {
		cv := *tmpl.CV
		if cv.Name == "" {
			cv.Name = info.Name
		}
		return &cv
	}

	cv := &types.CVDocument{
		Name:     info.Name,
		Email:    info.Email,
		Phone:    info.Phone,
		Website:  info.Website,
		Location: info.Location.String(),
		Summary:  info.Summary,
	}
	if info.LinkedIn != "" {
		cv.SocialNetworks = append(cv.SocialNetworks, types.SocialNetwork{
			Network:  "LinkedIn",
			Username: info.LinkedIn,
		})
	}

	for _, exp := range info.Experiences {
		entry := types.CVExperience{
			Company:   exp.Company,
			Position:  exp.Position,
			StartDate: orDefault(exp.StartDate, unknownDate),
			EndDate:   orDefault(exp.EndDate, "present"),
			Summary:   exp.Description,
		}
		if len(exp.Technologies) > 0 {
			entry.Highlights = []string{"Technologies: " + strings.Join(exp.Technologies, ", ")}
		}
		cv.Sections.Experience = append(cv.Sections.Experience, entry)
	}

	for _, edu := range info.Education {
		year := unknownDate
		if edu.GraduationYear > 0 {
			year = strconv.Itoa(edu.GraduationYear)
		}
		cv.Sections.Education = append(cv.Sections.Education, types.CVEducation{
			Institution: edu.Institution,
			Degree:      edu.Degree,
			Area:        edu.Field,
			StartDate:   year,
			EndDate:     year,
		})
	}

	for _, proj := range info.Projects {
		entry := types.CVProject{
			Name:    proj.Name,
			Summary: proj.Description,
		}
		if len(proj.Technologies) > 0 {
			entry.Highlights = []string{"Technologies: " + strings.Join(proj.Technologies, ", ")}
		}
		if proj.URL != "" {
			entry.Highlights = append(entry.Highlights, proj.URL)
		}
		cv.Sections.Projects = append(cv.Sections.Projects, entry)
	}

	cv.Sections.Skills = BucketSkills(info.Skills)
	return cv
}

// customize asks the model for job-specific tailoring.
func (g *CVGenerator) customize(ctx context.Context, info *types.PersonalInfo, job types.JobInfo, bundle *types.ContextBundle) (*cvCustomization, error) {
	candidate, err := json.Marshal(promptCandidate(info))
	if err != nil {
		return nil, fmt.Errorf("failed to encode candidate data: %w", err)
	}

	prompt := prompts.Format(prompts.MustGet("generation.json", "customize_cv"), map[string]string{
		"JobTitle":       job.Title,
		"Company":        job.Company,
		"JobDescription": truncate(job.Description, cvDescriptionLimit),
		"CandidateData":  string(candidate),
		"Context":        renderBundle(bundle),
	})

	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, &GenerationError{Stage: "cv", Cause: err}
	}

	var custom cvCustomization
	if err := json.Unmarshal([]byte(raw), &custom); err != nil {
		return nil, &GenerationError{Stage: "cv", Cause: fmt.Errorf("unparseable customization response: %w", err)}
	}
	return &custom, nil
}

// promptCandidate trims the personal info to the prompt budget.
func promptCandidate(info *types.PersonalInfo) *types.PersonalInfo {
	trimmed := *info
	if len(trimmed.Skills) > cvMaxSkills {
		trimmed.Skills = trimmed.Skills[:cvMaxSkills]
	}
	if len(trimmed.Experiences) > cvMaxExperiences {
		trimmed.Experiences = trimmed.Experiences[:cvMaxExperiences]
	}
	if len(trimmed.Projects) > cvMaxProjects {
		trimmed.Projects = trimmed.Projects[:cvMaxProjects]
	}
	return &trimmed
}

// applyCustomization merges model tailoring into the document without ever
// adding entries the facts do not contain.
func applyCustomization(cv *types.CVDocument, custom *cvCustomization) {
	if custom.Headline != "" {
		cv.Headline = custom.Headline
	}
	if custom.Summary != "" {
		cv.Summary = custom.Summary
	}

	for i := range cv.Sections.Experience {
		exp := &cv.Sections.Experience[i]
		key := exp.Company + "|" + exp.Position
		if highlights, ok := custom.ExperienceHighlights[key]; ok && len(highlights) > 0 {
			exp.Highlights = highlights
		}
	}

	if len(custom.SkillOrder) > 0 {
		reorderSkills(cv, custom.SkillOrder)
	}
}

// reorderSkills moves skill categories mentioning preferred skills first.
// Only ordering changes; no skill is added or removed.
func reorderSkills(cv *types.CVDocument, preferred []string) {
	rank := func(s types.CVSkill) int {
		lowered := strings.ToLower(s.Details)
		for i, p := range preferred {
			if strings.Contains(lowered, strings.ToLower(p)) {
				return i
			}
		}
		return len(preferred)
	}
	sort.SliceStable(cv.Sections.Skills, func(i, j int) bool {
		return rank(cv.Sections.Skills[i]) < rank(cv.Sections.Skills[j])
	})
}

// applyDeterministicTailoring sets a headline from the job and floats skill
// categories the job description mentions to the front.
func applyDeterministicTailoring(cv *types.CVDocument, job types.JobInfo) {
	if cv.Headline == "" && job.Title != "" && !job.IsPlaceholder() {
		cv.Headline = job.Title
	}

	lowered := strings.ToLower(job.Description)
	sort.SliceStable(cv.Sections.Skills, func(i, j int) bool {
		return skillMatchCount(cv.Sections.Skills[i], lowered) > skillMatchCount(cv.Sections.Skills[j], lowered)
	})
}

func skillMatchCount(s types.CVSkill, loweredDescription string) int {
	count := 0
	for _, skill := range strings.Split(s.Details, ",") {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill != "" && strings.Contains(loweredDescription, skill) {
			count++
		}
	}
	return count
}

// validateCV enforces the document invariants before rendering.
func (g *CVGenerator) validateCV(cv *types.CVDocument) error {
	var problems []string

	if err := g.validate.Struct(cv); err != nil {
		problems = append(problems, collectValidatorProblems(err)...)
	}

	for i, sn := range cv.SocialNetworks {
		if (sn.Network == "") != (sn.Username == "") {
			problems = append(problems, fmt.Sprintf("social_networks[%d] must set network and username together", i))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Document: "cv", Problems: problems}
	}
	return nil
}

// renderBundle flattens the context bundle into prompt text, grouped by
// category.
func renderBundle(bundle *types.ContextBundle) string {
	if bundle == nil || bundle.IsEmpty() {
		return "(no additional context)"
	}

	var sb strings.Builder
	writeGroup := func(label string, items []types.ContextItem) {
		if len(items) == 0 {
			return
		}
		sb.WriteString(label)
		sb.WriteString(":\n")
		for _, item := range items {
			sb.WriteString("- ")
			sb.WriteString(item.Text())
			sb.WriteString("\n")
		}
	}
	writeGroup("Experience", bundle.Experience)
	writeGroup("Skills", bundle.Skills)
	writeGroup("Projects", bundle.Projects)
	writeGroup("Education", bundle.Education)
	writeGroup("Code samples", bundle.CodeSamples)
	return strings.TrimSpace(sb.String())
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
