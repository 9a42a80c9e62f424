package types

// FactKind identifies the category of a verified fact.
type FactKind string

// Fact categories. These double as the context bundle category tags.
const (
	KindPersonalInfo FactKind = "personal_info"
	KindExperience   FactKind = "experience"
	KindSkill        FactKind = "skills"
	KindProject      FactKind = "projects"
	KindEducation    FactKind = "education"
	KindCodeSample   FactKind = "code_samples"
)

// FactRecord is the atomic verified-fact unit loaded from the user's files.
// The pipeline treats it as read-only ground truth.
type FactRecord struct {
	Kind   FactKind          `json:"kind"`
	Fields map[string]string `json:"fields"`
	Source string            `json:"source"`
}

// Field returns the named field, or "" when absent.
func (r *FactRecord) Field(name string) string {
	if r == nil || r.Fields == nil {
		return ""
	}
	return r.Fields[name]
}

// PersonalInfo is the structured form of the user's personal_info file.
// It is both a fact source and the contact block for generated documents.
type PersonalInfo struct {
	Name        string           `json:"name" yaml:"name"`
	Email       string           `json:"email" yaml:"email"`
	Phone       string           `json:"phone" yaml:"phone"`
	Location    Location         `json:"location" yaml:"location"`
	LinkedIn    string           `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
	Website     string           `json:"website,omitempty" yaml:"website,omitempty"`
	Summary     string           `json:"summary,omitempty" yaml:"summary,omitempty"`
	Skills      []string         `json:"skills,omitempty" yaml:"skills,omitempty"`
	Experiences []ExperienceFact `json:"experiences,omitempty" yaml:"experiences,omitempty"`
	Education   []EducationFact  `json:"education,omitempty" yaml:"education,omitempty"`
	Projects    []ProjectFact    `json:"projects,omitempty" yaml:"projects,omitempty"`
}

// Location is a city/country pair.
type Location struct {
	City    string `json:"city" yaml:"city"`
	Country string `json:"country" yaml:"country"`
}

// String renders "City, Country" with empty parts omitted.
func (l Location) String() string {
	switch {
	case l.City != "" && l.Country != "":
		return l.City + ", " + l.Country
	case l.City != "":
		return l.City
	default:
		return l.Country
	}
}

// ExperienceFact is a verified employment entry.
type ExperienceFact struct {
	Company      string   `json:"company" yaml:"company"`
	Position     string   `json:"position" yaml:"position"`
	StartDate    string   `json:"start_date" yaml:"start_date"`
	EndDate      string   `json:"end_date" yaml:"end_date"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty" yaml:"technologies,omitempty"`
}

// EducationFact is a verified education entry.
type EducationFact struct {
	Institution    string `json:"institution" yaml:"institution"`
	Degree         string `json:"degree" yaml:"degree"`
	Field          string `json:"field,omitempty" yaml:"field,omitempty"`
	GraduationYear int    `json:"graduation_year,omitempty" yaml:"graduation_year,omitempty"`
}

// ProjectFact is a verified project entry.
type ProjectFact struct {
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty" yaml:"technologies,omitempty"`
	URL          string   `json:"url,omitempty" yaml:"url,omitempty"`
}
