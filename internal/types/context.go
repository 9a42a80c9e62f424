package types

// ContextItem is one retrieved piece of context. Exactly one of Content or
// Record is set: Record for facts that survived structured parsing, Content
// for freeform text chunks. The split is resolved once at ingestion so
// downstream consumers never re-inspect shapes.
type ContextItem struct {
	Content string      `json:"content,omitempty"`
	Record  *FactRecord `json:"record,omitempty"`
	Source  string      `json:"source"`
	Score   float64     `json:"score,omitempty"`
}

// Text returns the item's content in textual form regardless of shape.
func (c *ContextItem) Text() string {
	if c.Record != nil {
		// Concatenate field values; order is not significant for matching.
		var out string
		for _, v := range c.Record.Fields {
			if out != "" {
				out += " "
			}
			out += v
		}
		return out
	}
	return c.Content
}

// ContextBundle is the categorized subset of the fact store retrieved as
// relevant to one job. It lives for a single pipeline run and every item
// must be traceable to the fact store.
type ContextBundle struct {
	PersonalInfo []ContextItem `json:"personal_info"`
	Experience   []ContextItem `json:"experience"`
	Skills       []ContextItem `json:"skills"`
	Projects     []ContextItem `json:"projects"`
	Education    []ContextItem `json:"education"`
	CodeSamples  []ContextItem `json:"code_samples"`

	// Fallback is set when the bundle was built by the degraded direct-scan
	// path instead of similarity search. Consumers should lower confidence.
	Fallback bool `json:"fallback,omitempty"`
}

// Add appends an item to the category slice matching kind. Unrecognized
// categories are dropped; the bundle never invents a bucket.
func (b *ContextBundle) Add(kind FactKind, item ContextItem) {
	switch kind {
	case KindPersonalInfo:
		b.PersonalInfo = append(b.PersonalInfo, item)
	case KindExperience:
		b.Experience = append(b.Experience, item)
	case KindSkill:
		b.Skills = append(b.Skills, item)
	case KindProject:
		b.Projects = append(b.Projects, item)
	case KindEducation:
		b.Education = append(b.Education, item)
	case KindCodeSample:
		b.CodeSamples = append(b.CodeSamples, item)
	}
}

// IsEmpty reports whether no category holds any item.
func (b *ContextBundle) IsEmpty() bool {
	return len(b.PersonalInfo) == 0 && len(b.Experience) == 0 &&
		len(b.Skills) == 0 && len(b.Projects) == 0 &&
		len(b.Education) == 0 && len(b.CodeSamples) == 0
}
