package facts

import (
	"strconv"
	"strings"

	"github.com/jonathan/cv-agent/internal/types"
)

// ToRecords flattens structured personal info into fact records. Each record
// carries the fields honesty validation matches against: company and
// position for experience, degree and institution for education, name for
// skills and projects.
func ToRecords(info *types.PersonalInfo, source string) []types.FactRecord {
	if info == nil {
		return nil
	}

	records := []types.FactRecord{
		{
			Kind: types.KindPersonalInfo,
			Fields: map[string]string{
				"name":     info.Name,
				"email":    info.Email,
				"phone":    info.Phone,
				"location": info.Location.String(),
				"linkedin": info.LinkedIn,
				"website":  info.Website,
				"summary":  info.Summary,
			},
			Source: source,
		},
	}

	for _, exp := range info.Experiences {
		records = append(records, types.FactRecord{
			Kind: types.KindExperience,
			Fields: map[string]string{
				"company":      exp.Company,
				"position":     exp.Position,
				"start_date":   exp.StartDate,
				"end_date":     exp.EndDate,
				"description":  exp.Description,
				"technologies": strings.Join(exp.Technologies, ", "),
			},
			Source: source,
		})
	}

	for _, edu := range info.Education {
		fields := map[string]string{
			"institution": edu.Institution,
			"degree":      edu.Degree,
			"field":       edu.Field,
		}
		if edu.GraduationYear > 0 {
			fields["graduation_year"] = strconv.Itoa(edu.GraduationYear)
		}
		records = append(records, types.FactRecord{
			Kind:   types.KindEducation,
			Fields: fields,
			Source: source,
		})
	}

	for _, skill := range info.Skills {
		records = append(records, types.FactRecord{
			Kind:   types.KindSkill,
			Fields: map[string]string{"name": skill},
			Source: source,
		})
	}

	for _, proj := range info.Projects {
		records = append(records, types.FactRecord{
			Kind: types.KindProject,
			Fields: map[string]string{
				"name":         proj.Name,
				"description":  proj.Description,
				"technologies": strings.Join(proj.Technologies, ", "),
				"url":          proj.URL,
			},
			Source: source,
		})
	}

	return records
}
