// Package retrieval selects the subset of the fact store relevant to one
// job posting and shapes it into the categorized context bundle the
// generators consume.
package retrieval

import (
	"strings"

	"github.com/jonathan/cv-agent/internal/types"
)

// descriptionExcerptLen bounds how much of the job description goes into
// the search query.
const descriptionExcerptLen = 200

// maxQuerySkills bounds how many vocabulary hits the query carries.
const maxQuerySkills = 5

// skillVocabulary is the controlled list of technology terms scanned for in
// job descriptions. Matching against a fixed vocabulary keeps the query
// stable across noisy postings.
var skillVocabulary = []string{
	"python", "javascript", "java", "c++", "c#", "go", "rust", "typescript",
	"react", "angular", "vue", "node", "django", "flask", "spring", "dotnet",
	"aws", "azure", "gcp", "docker", "kubernetes", "sql", "nosql", "mongodb",
	"machine learning", "ai", "data science", "tensorflow", "pytorch",
	"agile", "scrum", "devops", "ci/cd", "git", "linux", "cloud",
}

// ExtractSkills returns up to max vocabulary terms found in the text, in
// vocabulary order.
func ExtractSkills(text string, max int) []string {
	lowered := strings.ToLower(text)
	var found []string
	for _, skill := range skillVocabulary {
		if strings.Contains(lowered, skill) {
			found = append(found, skill)
			if len(found) == max {
				break
			}
		}
	}
	return found
}

// BuildQuery renders the similarity search query for a job. The shape is
// fixed: title, company, vocabulary skills, then a short description
// excerpt.
func BuildQuery(job types.JobInfo) string {
	var sb strings.Builder
	sb.WriteString("job title: ")
	sb.WriteString(job.Title)
	sb.WriteString(" company: ")
	sb.WriteString(job.Company)

	if skills := ExtractSkills(job.Description, maxQuerySkills); len(skills) > 0 {
		sb.WriteString(" skills: ")
		sb.WriteString(strings.Join(skills, " "))
	}

	excerpt := job.Description
	if len(excerpt) > descriptionExcerptLen {
		excerpt = excerpt[:descriptionExcerptLen]
	}
	if strings.TrimSpace(excerpt) != "" {
		sb.WriteString(" description: ")
		sb.WriteString(excerpt)
	}
	return sb.String()
}
