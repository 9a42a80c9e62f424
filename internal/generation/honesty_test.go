package generation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-agent/internal/facts"
	"github.com/jonathan/cv-agent/internal/types"
)

func testBundle() *types.ContextBundle {
	records := facts.ToRecords(testPersonalInfo(), "personal_info.json")
	bundle := &types.ContextBundle{}
	for i := range records {
		bundle.Add(records[i].Kind, types.ContextItem{Record: &records[i], Source: records[i].Source})
	}
	return bundle
}

func verifiedCV() *types.CVDocument {
	return &types.CVDocument{
		Name: "Ada Lovelace",
		Sections: types.CVSections{
			Experience: []types.CVExperience{
				{Company: "Babbage Ltd", Position: "Senior Engineer", StartDate: "2020", EndDate: "present"},
			},
			Education: []types.CVEducation{
				{Institution: "Somerville", Degree: "BSc Mathematics", StartDate: "2015", EndDate: "2015"},
			},
			Projects: []types.CVProject{
				{Name: "Engine Sim"},
			},
			Skills: []types.CVSkill{
				{Label: "Languages", Details: "Go"},
			},
		},
	}
}

func TestValidateCV_AllVerifiedPassesThrough(t *testing.T) {
	v := NewHonestyValidator(testBundle(), PolicyDrop, nil)

	out, findings := v.ValidateCV(verifiedCV())
	assert.Empty(t, findings)
	assert.Len(t, out.Sections.Experience, 1)
	assert.Len(t, out.Sections.Education, 1)
	assert.Len(t, out.Sections.Projects, 1)
	assert.Len(t, out.Sections.Skills, 1)
}

func TestValidateCV_DropsFabricatedExperience(t *testing.T) {
	cv := verifiedCV()
	cv.Sections.Experience = append(cv.Sections.Experience, types.CVExperience{
		Company: "Google", Position: "Staff Engineer", StartDate: "2010", EndDate: "2015",
	})

	v := NewHonestyValidator(testBundle(), PolicyDrop, nil)
	out, findings := v.ValidateCV(cv)

	require.Len(t, out.Sections.Experience, 1)
	assert.Equal(t, "Babbage Ltd", out.Sections.Experience[0].Company)
	require.Len(t, findings, 1)
	assert.Equal(t, "cv", findings[0].Document)
	assert.Equal(t, "drop", findings[0].Action)
	assert.Contains(t, findings[0].Entry, "Google")
}

func TestValidateCV_FlagPolicyKeepsEntries(t *testing.T) {
	cv := verifiedCV()
	cv.Sections.Experience = append(cv.Sections.Experience, types.CVExperience{
		Company: "Google", Position: "Staff Engineer", StartDate: "2010", EndDate: "2015",
	})

	v := NewHonestyValidator(testBundle(), PolicyFlag, nil)
	out, findings := v.ValidateCV(cv)

	assert.Len(t, out.Sections.Experience, 2)
	require.Len(t, findings, 1)
	assert.Equal(t, "flag", findings[0].Action)
}

func TestValidateCV_DropsFabricatedEducationAndProject(t *testing.T) {
	cv := verifiedCV()
	cv.Sections.Education = append(cv.Sections.Education, types.CVEducation{
		Institution: "MIT", Degree: "PhD Physics", StartDate: "2000", EndDate: "2004",
	})
	cv.Sections.Projects = append(cv.Sections.Projects, types.CVProject{Name: "Invented Thing"})

	v := NewHonestyValidator(testBundle(), PolicyDrop, nil)
	out, findings := v.ValidateCV(cv)

	assert.Len(t, out.Sections.Education, 1)
	assert.Len(t, out.Sections.Projects, 1)
	assert.Len(t, findings, 2)
}

func TestValidateCV_FiltersUnverifiedSkills(t *testing.T) {
	cv := verifiedCV()
	cv.Sections.Skills = []types.CVSkill{
		{Label: "Languages", Details: "Go, COBOL"},
	}

	v := NewHonestyValidator(testBundle(), PolicyDrop, nil)
	out, findings := v.ValidateCV(cv)

	require.Len(t, out.Sections.Skills, 1)
	assert.Equal(t, "Go", out.Sections.Skills[0].Details)
	require.Len(t, findings, 1)
	assert.Equal(t, "COBOL", findings[0].Entry)
}

func TestValidateCV_SubstringMatchingBothDirections(t *testing.T) {
	cv := verifiedCV()
	// shortened employer name still verifies against "Babbage Ltd"
	cv.Sections.Experience[0].Company = "Babbage"

	v := NewHonestyValidator(testBundle(), PolicyDrop, nil)
	out, findings := v.ValidateCV(cv)
	assert.Empty(t, findings)
	assert.Len(t, out.Sections.Experience, 1)
}

func TestValidateCV_DoesNotMutateInput(t *testing.T) {
	cv := verifiedCV()
	cv.Sections.Experience = append(cv.Sections.Experience, types.CVExperience{
		Company: "Google", Position: "Staff Engineer", StartDate: "2010", EndDate: "2015",
	})

	v := NewHonestyValidator(testBundle(), PolicyDrop, nil)
	_, _ = v.ValidateCV(cv)

	assert.Len(t, cv.Sections.Experience, 2)
}

func TestValidateLetter_FlagsUnbackedClaims(t *testing.T) {
	letter := &types.CoverLetter{Text: strings.Join([]string{
		"Dear Hiring Manager,",
		"",
		"In my role as Senior Engineer at Babbage Ltd I built compute engines.",
		"I led the search infrastructure team at Google for five years.",
		"",
		"Sincerely,",
	}, "\n")}

	v := NewHonestyValidator(testBundle(), PolicyDrop, nil)
	out, findings := v.ValidateLetter(letter)

	lines := strings.Split(out.Text, "\n")
	assert.Equal(t, "In my role as Senior Engineer at Babbage Ltd I built compute engines.", lines[2])
	assert.Equal(t, UnverifiedPrefix+"I led the search infrastructure team at Google for five years.", lines[3])

	require.Len(t, findings, 1)
	assert.Equal(t, "cover_letter", findings[0].Document)
	assert.Equal(t, "flag", findings[0].Action)
}

func TestValidateLetter_NonClaimLinesUntouched(t *testing.T) {
	letter := &types.CoverLetter{Text: "Dear Hiring Manager,\n\nThank you for your consideration.\n\nSincerely,\nAda"}

	v := NewHonestyValidator(testBundle(), PolicyDrop, nil)
	out, findings := v.ValidateLetter(letter)

	assert.Equal(t, letter.Text, out.Text)
	assert.Empty(t, findings)
}

func TestValidateCV_VerifiesAgainstTextChunks(t *testing.T) {
	bundle := &types.ContextBundle{
		Experience: []types.ContextItem{
			{Content: "At Babbage Ltd I worked as a Senior Engineer on compute engines.", Source: "career_data/babbage.md", Score: 0.91},
		},
	}
	cv := &types.CVDocument{
		Name: "Ada Lovelace",
		Sections: types.CVSections{
			Experience: []types.CVExperience{
				{Company: "Babbage Ltd", Position: "Senior Engineer", StartDate: "2020", EndDate: "present"},
				{Company: "Google", Position: "Staff Engineer", StartDate: "2010", EndDate: "2015"},
			},
		},
	}

	v := NewHonestyValidator(bundle, PolicyDrop, nil)
	out, findings := v.ValidateCV(cv)

	require.Len(t, out.Sections.Experience, 1)
	assert.Equal(t, "Babbage Ltd", out.Sections.Experience[0].Company)
	assert.Len(t, findings, 1)
}

func TestValidateLetter_ChunkBackedClaimNotFlagged(t *testing.T) {
	bundle := &types.ContextBundle{
		Experience: []types.ContextItem{
			{Content: "Built compute engines at Babbage Ltd.", Source: "career_data/babbage.md"},
		},
	}
	letter := &types.CoverLetter{Text: "I built compute engines for industrial clients."}

	v := NewHonestyValidator(bundle, PolicyDrop, nil)
	out, findings := v.ValidateLetter(letter)

	assert.Equal(t, letter.Text, out.Text)
	assert.Empty(t, findings)
}

func TestNewHonestyValidator_NilBundle(t *testing.T) {
	v := NewHonestyValidator(nil, PolicyDrop, nil)

	out, findings := v.ValidateCV(verifiedCV())
	assert.Empty(t, out.Sections.Experience)
	assert.NotEmpty(t, findings)
}

func TestMatchesFact(t *testing.T) {
	assert.True(t, matchesFact("Acme", "Acme Corp"))
	assert.True(t, matchesFact("Acme Corp", "Acme"))
	assert.True(t, matchesFact("ACME", "acme"))
	assert.False(t, matchesFact("Acme", "Globex"))
	assert.False(t, matchesFact("", "Acme"))
	assert.False(t, matchesFact("Acme", ""))
}
