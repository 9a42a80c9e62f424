package types

// CVDocument is the structured resume consumed by the renderer.
// Invariants enforced before rendering:
//   - Name is non-empty
//   - every experience and education entry has non-empty StartDate and EndDate
//   - a social network entry with one of {Network, Username} set has both set
type CVDocument struct {
	Name           string          `json:"name" yaml:"name" validate:"required"`
	Headline       string          `json:"headline,omitempty" yaml:"headline,omitempty"`
	Summary        string          `json:"summary,omitempty" yaml:"summary,omitempty"`
	Email          string          `json:"email,omitempty" yaml:"email,omitempty" validate:"omitempty,email"`
	Phone          string          `json:"phone,omitempty" yaml:"phone,omitempty"`
	Website        string          `json:"website,omitempty" yaml:"website,omitempty"`
	Location       string          `json:"location,omitempty" yaml:"location,omitempty"`
	SocialNetworks []SocialNetwork `json:"social_networks,omitempty" yaml:"social_networks,omitempty"`
	Sections       CVSections      `json:"sections" yaml:"sections"`
}

// SocialNetwork is a network/username pair; both fields must be set together.
type SocialNetwork struct {
	Network  string `json:"network" yaml:"network"`
	Username string `json:"username" yaml:"username"`
}

// CVSections holds the resume body.
type CVSections struct {
	Experience []CVExperience `json:"experience,omitempty" yaml:"experience,omitempty" validate:"dive"`
	Education  []CVEducation  `json:"education,omitempty" yaml:"education,omitempty" validate:"dive"`
	Projects   []CVProject    `json:"projects,omitempty" yaml:"projects,omitempty"`
	Skills     []CVSkill      `json:"skills,omitempty" yaml:"skills,omitempty"`
}

// CVExperience is one employment entry.
type CVExperience struct {
	Company    string   `json:"company" yaml:"company"`
	Position   string   `json:"position" yaml:"position"`
	StartDate  string   `json:"start_date" yaml:"start_date" validate:"required"`
	EndDate    string   `json:"end_date" yaml:"end_date" validate:"required"`
	Location   string   `json:"location,omitempty" yaml:"location,omitempty"`
	Summary    string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Highlights []string `json:"highlights,omitempty" yaml:"highlights,omitempty"`
}

// CVEducation is one education entry.
type CVEducation struct {
	Institution string   `json:"institution" yaml:"institution"`
	Area        string   `json:"area,omitempty" yaml:"area,omitempty"`
	Degree      string   `json:"degree" yaml:"degree"`
	StartDate   string   `json:"start_date" yaml:"start_date" validate:"required"`
	EndDate     string   `json:"end_date" yaml:"end_date" validate:"required"`
	Location    string   `json:"location,omitempty" yaml:"location,omitempty"`
	Highlights  []string `json:"highlights,omitempty" yaml:"highlights,omitempty"`
}

// CVProject is one project entry. Dates are optional for projects, but if a
// date field is present it must be non-empty.
type CVProject struct {
	Name       string   `json:"name" yaml:"name"`
	StartDate  string   `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate    string   `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	Summary    string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Highlights []string `json:"highlights,omitempty" yaml:"highlights,omitempty"`
}

// CVSkill is a labeled skill category ("Languages: Go, Python, ...").
type CVSkill struct {
	Label   string `json:"label" yaml:"label"`
	Details string `json:"details" yaml:"details"`
}

// CVTemplate is the document skeleton loaded from a template file: rendering
// settings around an optional pre-filled CV body.
type CVTemplate struct {
	CV       *CVDocument       `json:"cv,omitempty" yaml:"cv,omitempty"`
	Design   map[string]string `json:"design,omitempty" yaml:"design,omitempty"`
	Locale   map[string]string `json:"locale,omitempty" yaml:"locale,omitempty"`
	Settings map[string]string `json:"settings,omitempty" yaml:"settings,omitempty"`
}
