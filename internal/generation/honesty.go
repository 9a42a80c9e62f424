package generation

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonathan/cv-agent/internal/types"
)

// UnverifiedPrefix marks cover letter lines whose claims could not be
// matched to the retrieved context.
const UnverifiedPrefix = "# POTENTIALLY UNVERIFIED: "

// Policy decides what happens to content that fails verification.
type Policy string

const (
	// PolicyDrop removes unverified entries. Used for CVs, where a false
	// entry is worse than a missing one.
	PolicyDrop Policy = "drop"
	// PolicyFlag keeps unverified content but marks it for human review.
	// Used for cover letters, where prose context matters.
	PolicyFlag Policy = "flag"
)

// Finding records one honesty decision for the run report.
type Finding struct {
	Document string `json:"document"`
	Entry    string `json:"entry"`
	Action   string `json:"action"`
	Reason   string `json:"reason"`
}

// claimVerbs are the markers of lines in prose that assert experience and
// therefore need fact backing.
var claimVerbs = []string{
	"worked", "led", "built", "developed", "managed", "designed",
	"implemented", "experience", "my role", "i have", "i was", "i am a",
}

// HonestyValidator checks generated content against the context bundle and
// removes or flags anything it cannot trace back to it. Bundle items carry
// either a structured record (matched field by field) or a raw text chunk
// (matched by substring containment).
type HonestyValidator struct {
	bundle   *types.ContextBundle
	cvPolicy Policy
	logger   *slog.Logger
}

// NewHonestyValidator creates a validator over the given context bundle.
// cvPolicy governs CV entries; letters are always flagged, never rewritten.
func NewHonestyValidator(bundle *types.ContextBundle, cvPolicy Policy, logger *slog.Logger) *HonestyValidator {
	if bundle == nil {
		bundle = &types.ContextBundle{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cvPolicy == "" {
		cvPolicy = PolicyDrop
	}
	return &HonestyValidator{bundle: bundle, cvPolicy: cvPolicy, logger: logger}
}

// ValidateCV checks every CV entry against the context bundle. Under
// PolicyDrop unverified entries are removed from the returned document;
// under PolicyFlag they stay but are reported. The input document is not
// mutated.
func (v *HonestyValidator) ValidateCV(cv *types.CVDocument) (*types.CVDocument, []Finding) {
	out := *cv
	var findings []Finding

	var experience []types.CVExperience
	for _, exp := range cv.Sections.Experience {
		if v.verifyPair(types.KindExperience, "company", exp.Company, "position", exp.Position) {
			experience = append(experience, exp)
			continue
		}
		findings = append(findings, v.cvFinding(
			fmt.Sprintf("%s at %s", exp.Position, exp.Company),
			"no matching experience in context",
		))
		if v.cvPolicy == PolicyFlag {
			experience = append(experience, exp)
		}
	}
	out.Sections.Experience = experience

	var education []types.CVEducation
	for _, edu := range cv.Sections.Education {
		if v.verifyPair(types.KindEducation, "degree", edu.Degree, "institution", edu.Institution) {
			education = append(education, edu)
			continue
		}
		findings = append(findings, v.cvFinding(
			fmt.Sprintf("%s, %s", edu.Degree, edu.Institution),
			"no matching education in context",
		))
		if v.cvPolicy == PolicyFlag {
			education = append(education, edu)
		}
	}
	out.Sections.Education = education

	var projects []types.CVProject
	for _, proj := range cv.Sections.Projects {
		if v.verifyOne(types.KindProject, "name", proj.Name) {
			projects = append(projects, proj)
			continue
		}
		findings = append(findings, v.cvFinding(proj.Name, "no matching project in context"))
		if v.cvPolicy == PolicyFlag {
			projects = append(projects, proj)
		}
	}
	out.Sections.Projects = projects

	var skills []types.CVSkill
	for _, skill := range cv.Sections.Skills {
		kept, dropped := v.filterSkillDetails(skill.Details)
		for _, d := range dropped {
			findings = append(findings, v.cvFinding(d, "skill not in context"))
		}
		if v.cvPolicy == PolicyFlag {
			kept = skill.Details
		}
		if kept != "" {
			skills = append(skills, types.CVSkill{Label: skill.Label, Details: kept})
		}
	}
	out.Sections.Skills = skills

	for _, f := range findings {
		v.logger.Info("honesty check", "document", f.Document, "entry", f.Entry, "action", f.Action, "reason", f.Reason)
	}
	return &out, findings
}

// ValidateLetter flags body lines that assert experience without backing in
// the context bundle. The structural shell and already-verified lines pass
// through unchanged.
func (v *HonestyValidator) ValidateLetter(letter *types.CoverLetter) (*types.CoverLetter, []Finding) {
	var findings []Finding
	lines := strings.Split(letter.Text, "\n")
	out := make([]string, len(lines))

	for i, line := range lines {
		if v.lineNeedsFlag(line) {
			out[i] = UnverifiedPrefix + line
			findings = append(findings, Finding{
				Document: "cover_letter",
				Entry:    strings.TrimSpace(line),
				Action:   string(PolicyFlag),
				Reason:   "claim line shares no verified term with context",
			})
		} else {
			out[i] = line
		}
	}

	for _, f := range findings {
		v.logger.Info("honesty check", "document", f.Document, "entry", f.Entry, "action", f.Action)
	}
	return &types.CoverLetter{Text: strings.Join(out, "\n")}, findings
}

// lineNeedsFlag reports whether a line asserts experience yet mentions
// nothing traceable to the context bundle.
func (v *HonestyValidator) lineNeedsFlag(line string) bool {
	lowered := strings.ToLower(line)
	claims := false
	for _, verb := range claimVerbs {
		if strings.Contains(lowered, verb) {
			claims = true
			break
		}
	}
	if !claims {
		return false
	}

	for _, term := range v.verifiedTerms() {
		if strings.Contains(lowered, term) {
			return false
		}
	}
	return v.noChunkMentions(lowered)
}

// noChunkMentions reports whether none of the line's significant words
// appear in any raw text chunk of the bundle. Covers similarity-search
// bundles, whose items carry chunk text instead of structured records.
func (v *HonestyValidator) noChunkMentions(loweredLine string) bool {
	var chunks []string
	for _, items := range v.allCategories() {
		for _, item := range items {
			if item.Record == nil && item.Content != "" {
				chunks = append(chunks, strings.ToLower(item.Content))
			}
		}
	}
	if len(chunks) == 0 {
		return true
	}

	for _, word := range strings.Fields(loweredLine) {
		word = strings.Trim(word, ".,;:!?()\"'")
		if len(word) < 5 {
			continue
		}
		for _, chunk := range chunks {
			if strings.Contains(chunk, word) {
				return false
			}
		}
	}
	return true
}

// verifiedTerms collects every defining field value from the bundle's
// structured records, lowercased, skipping terms too short to be
// meaningful.
func (v *HonestyValidator) verifiedTerms() []string {
	var terms []string
	for kind, items := range v.allCategories() {
		fields := definingFields(kind)
		for _, item := range items {
			if item.Record == nil {
				continue
			}
			for _, field := range fields {
				value := strings.ToLower(strings.TrimSpace(item.Record.Field(field)))
				if len(value) >= 3 {
					terms = append(terms, value)
				}
			}
		}
	}
	return terms
}

func (v *HonestyValidator) allCategories() map[types.FactKind][]types.ContextItem {
	return map[types.FactKind][]types.ContextItem{
		types.KindPersonalInfo: v.bundle.PersonalInfo,
		types.KindExperience:   v.bundle.Experience,
		types.KindSkill:        v.bundle.Skills,
		types.KindProject:      v.bundle.Projects,
		types.KindEducation:    v.bundle.Education,
		types.KindCodeSample:   v.bundle.CodeSamples,
	}
}

func (v *HonestyValidator) categoryItems(kind types.FactKind) []types.ContextItem {
	return v.allCategories()[kind]
}

func definingFields(kind types.FactKind) []string {
	switch kind {
	case types.KindExperience:
		return []string{"company", "position"}
	case types.KindEducation:
		return []string{"degree", "institution"}
	case types.KindSkill, types.KindProject:
		return []string{"name"}
	case types.KindPersonalInfo:
		return []string{"name", "summary"}
	default:
		return nil
	}
}

// verifyPair checks a two-field claim against one bundle category.
// Structured records must match both defining fields; text chunks must
// contain both values.
func (v *HonestyValidator) verifyPair(kind types.FactKind, field1, value1, field2, value2 string) bool {
	for _, item := range v.categoryItems(kind) {
		if item.Record != nil {
			if matchesFact(value1, item.Record.Field(field1)) && matchesFact(value2, item.Record.Field(field2)) {
				return true
			}
			continue
		}
		if chunkContains(item.Content, value1) && chunkContains(item.Content, value2) {
			return true
		}
	}
	return false
}

func (v *HonestyValidator) verifyOne(kind types.FactKind, field, value string) bool {
	for _, item := range v.categoryItems(kind) {
		if item.Record != nil {
			if matchesFact(value, item.Record.Field(field)) {
				return true
			}
			continue
		}
		if chunkContains(item.Content, value) {
			return true
		}
	}
	return false
}

// filterSkillDetails keeps only comma-separated skills present in the
// bundle, returning the kept string and the dropped skill names.
func (v *HonestyValidator) filterSkillDetails(details string) (string, []string) {
	var kept, dropped []string
	for _, skill := range strings.Split(details, ",") {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		if v.verifyOne(types.KindSkill, "name", skill) {
			kept = append(kept, skill)
		} else {
			dropped = append(dropped, skill)
		}
	}
	return strings.Join(kept, ", "), dropped
}

func (v *HonestyValidator) cvFinding(entry, reason string) Finding {
	return Finding{
		Document: "cv",
		Entry:    entry,
		Action:   string(v.cvPolicy),
		Reason:   reason,
	}
}

// matchesFact reports whether claim and fact refer to the same thing:
// case-insensitive, accepting either containing the other so "Acme" matches
// "Acme Corp".
func matchesFact(claim, fact string) bool {
	c := strings.ToLower(strings.TrimSpace(claim))
	f := strings.ToLower(strings.TrimSpace(fact))
	if c == "" || f == "" {
		return false
	}
	return strings.Contains(c, f) || strings.Contains(f, c)
}

// chunkContains reports whether a raw context chunk mentions the claimed
// value.
func chunkContains(chunk, value string) bool {
	val := strings.ToLower(strings.TrimSpace(value))
	if val == "" || chunk == "" {
		return false
	}
	return strings.Contains(strings.ToLower(chunk), val)
}
