package facts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/cv-agent/internal/config"
)

const personalInfoTemplate = `{
  "name": "Your Name",
  "email": "you@example.com",
  "phone": "+1 555 000 0000",
  "location": {
    "city": "Your City",
    "country": "Your Country"
  },
  "linkedin": "https://linkedin.com/in/yourprofile",
  "website": "https://yoursite.example",
  "summary": "One or two sentences about your professional background.",
  "skills": ["Go", "PostgreSQL", "Docker"],
  "experiences": [
    {
      "company": "Example Corp",
      "position": "Software Engineer",
      "start_date": "2022-01",
      "end_date": "present",
      "description": "What you did and what it achieved.",
      "technologies": ["Go", "Kubernetes"]
    }
  ],
  "education": [
    {
      "institution": "Example University",
      "degree": "BSc Computer Science",
      "graduation_year": 2021
    }
  ],
  "projects": [
    {
      "name": "Example Project",
      "description": "What the project does.",
      "technologies": ["Go"],
      "url": "https://github.com/you/example"
    }
  ]
}
`

const cvTemplateTemplate = `# CV rendering settings. The cv block is optional; generation fills it
# from your personal info and the job posting.
design:
  theme: classic
  color: "#2c3e50"
locale:
  language: en
settings:
  page_size: A4
`

// Scaffold creates the user's fact store directory layout with starter
// files. Existing files are never overwritten.
func Scaffold(paths config.UserPaths) error {
	for _, dir := range []string{paths.UserDir, paths.CareerData, paths.CodeSamples} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	files := map[string]string{
		paths.PersonalInfo: personalInfoTemplate,
		paths.CVTemplate:   cvTemplateTemplate,
	}
	for path, content := range files {
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}
