package generation

import (
	"strings"

	"github.com/jonathan/cv-agent/internal/types"
)

// skillBuckets maps known technologies to the labeled categories the CV
// skills section renders. First bucket match wins; unmatched skills land in
// Other.
var skillBuckets = []struct {
	label string
	terms []string
}{
	{"Languages", []string{
		"go", "golang", "python", "java", "javascript", "typescript", "c++",
		"c#", "rust", "ruby", "php", "kotlin", "swift", "scala",
	}},
	{"Frontend", []string{
		"react", "angular", "vue", "svelte", "html", "css", "next.js", "tailwind",
	}},
	{"Backend", []string{
		"node", "django", "flask", "spring", "rails", "dotnet", ".net",
		"grpc", "graphql", "rest",
	}},
	{"Databases", []string{
		"sql", "postgres", "postgresql", "mysql", "mongodb", "redis",
		"elasticsearch", "sqlite", "cassandra", "dynamodb",
	}},
	{"DevOps & Cloud", []string{
		"docker", "kubernetes", "aws", "azure", "gcp", "terraform",
		"ci/cd", "jenkins", "github actions", "linux", "ansible",
	}},
}

// BucketSkills groups a flat skill list into labeled categories, preserving
// the input order within each category. Empty categories are omitted.
func BucketSkills(skills []string) []types.CVSkill {
	grouped := make(map[string][]string)
	for _, skill := range skills {
		trimmed := strings.TrimSpace(skill)
		if trimmed == "" {
			continue
		}
		label := bucketFor(trimmed)
		grouped[label] = append(grouped[label], trimmed)
	}

	var out []types.CVSkill
	for _, bucket := range skillBuckets {
		if members, ok := grouped[bucket.label]; ok {
			out = append(out, types.CVSkill{
				Label:   bucket.label,
				Details: strings.Join(members, ", "),
			})
		}
	}
	if members, ok := grouped["Other"]; ok {
		out = append(out, types.CVSkill{
			Label:   "Other",
			Details: strings.Join(members, ", "),
		})
	}
	return out
}

func bucketFor(skill string) string {
	lowered := strings.ToLower(skill)
	for _, bucket := range skillBuckets {
		for _, term := range bucket.terms {
			if lowered == term || strings.Contains(lowered, term) {
				return bucket.label
			}
		}
	}
	return "Other"
}
