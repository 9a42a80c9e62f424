package facts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-agent/internal/config"
	"github.com/jonathan/cv-agent/internal/types"
)

const validPersonalInfo = `{
  "name": "Ada Lovelace",
  "email": "ada@example.com",
  "phone": "+44 1234",
  "location": {"city": "London", "country": "UK"},
  "summary": "Engineer.",
  "skills": ["Go", "SQL"],
  "experiences": [
    {"company": "Babbage Ltd", "position": "Engineer", "start_date": "2020-01", "end_date": "present", "technologies": ["Go"]}
  ],
  "education": [
    {"institution": "Somerville", "degree": "BSc Mathematics", "graduation_year": 2019}
  ],
  "projects": [
    {"name": "Analytical Engine", "description": "Compute things."}
  ]
}`

func testPaths(t *testing.T) config.UserPaths {
	t.Helper()
	cfg := config.Default()
	cfg.UsersDir = t.TempDir()
	return cfg.Paths("ada")
}

func writePersonalInfo(t *testing.T, paths config.UserPaths, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(paths.UserDir, 0o755))
	require.NoError(t, os.WriteFile(paths.PersonalInfo, []byte(content), 0o644))
}

func TestLoadPersonalInfo_Valid(t *testing.T) {
	paths := testPaths(t)
	writePersonalInfo(t, paths, validPersonalInfo)

	store := NewStore(paths, nil)
	info, err := store.LoadPersonalInfo()
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", info.Name)
	assert.Equal(t, "London, UK", info.Location.String())
	require.Len(t, info.Experiences, 1)
	assert.Equal(t, "Babbage Ltd", info.Experiences[0].Company)
}

func TestLoadPersonalInfo_Missing(t *testing.T) {
	store := NewStore(testPaths(t), nil)

	_, err := store.LoadPersonalInfo()
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Message, "failed to read")
}

func TestLoadPersonalInfo_SchemaViolation(t *testing.T) {
	paths := testPaths(t)
	// name is required by the schema
	writePersonalInfo(t, paths, `{"email": "x@example.com"}`)

	store := NewStore(paths, nil)
	_, err := store.LoadPersonalInfo()
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Message, "schema validation")
}

func TestLoadCVTemplate_MissingReturnsEmpty(t *testing.T) {
	store := NewStore(testPaths(t), nil)

	tmpl, err := store.LoadCVTemplate()
	require.NoError(t, err)
	require.NotNil(t, tmpl)
	assert.Nil(t, tmpl.CV)
}

func TestLoadCVTemplate_Valid(t *testing.T) {
	paths := testPaths(t)
	require.NoError(t, os.MkdirAll(paths.UserDir, 0o755))
	yaml := "design:\n  theme: classic\ncv:\n  name: Ada Lovelace\n"
	require.NoError(t, os.WriteFile(paths.CVTemplate, []byte(yaml), 0o644))

	store := NewStore(paths, nil)
	tmpl, err := store.LoadCVTemplate()
	require.NoError(t, err)
	assert.Equal(t, "classic", tmpl.Design["theme"])
	require.NotNil(t, tmpl.CV)
	assert.Equal(t, "Ada Lovelace", tmpl.CV.Name)
}

func TestRecords_FlattensAllCategories(t *testing.T) {
	paths := testPaths(t)
	writePersonalInfo(t, paths, validPersonalInfo)

	store := NewStore(paths, nil)
	records, err := store.Records()
	require.NoError(t, err)

	kinds := map[types.FactKind]int{}
	for _, r := range records {
		kinds[r.Kind]++
		assert.Equal(t, "personal_info.json", r.Source)
	}
	assert.Equal(t, 1, kinds[types.KindPersonalInfo])
	assert.Equal(t, 1, kinds[types.KindExperience])
	assert.Equal(t, 1, kinds[types.KindEducation])
	assert.Equal(t, 2, kinds[types.KindSkill])
	assert.Equal(t, 1, kinds[types.KindProject])
}

func TestRecords_DefiningFields(t *testing.T) {
	info := &types.PersonalInfo{
		Name:  "Ada",
		Email: "ada@example.com",
		Experiences: []types.ExperienceFact{
			{Company: "Babbage Ltd", Position: "Engineer", StartDate: "2020-01"},
		},
		Education: []types.EducationFact{
			{Institution: "Somerville", Degree: "BSc"},
		},
		Skills: []string{"Go"},
	}

	records := ToRecords(info, "src")

	var exp, edu, skill *types.FactRecord
	for i := range records {
		switch records[i].Kind {
		case types.KindExperience:
			exp = &records[i]
		case types.KindEducation:
			edu = &records[i]
		case types.KindSkill:
			skill = &records[i]
		}
	}
	require.NotNil(t, exp)
	assert.Equal(t, "Babbage Ltd", exp.Field("company"))
	assert.Equal(t, "Engineer", exp.Field("position"))
	require.NotNil(t, edu)
	assert.Equal(t, "Somerville", edu.Field("institution"))
	assert.Equal(t, "BSc", edu.Field("degree"))
	require.NotNil(t, skill)
	assert.Equal(t, "Go", skill.Field("name"))
}

func TestDocuments_CollectsAllSources(t *testing.T) {
	paths := testPaths(t)
	writePersonalInfo(t, paths, validPersonalInfo)
	require.NoError(t, os.MkdirAll(paths.CareerData, 0o755))
	require.NoError(t, os.MkdirAll(paths.CodeSamples, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(paths.CareerData, "work_experience.md"), []byte("Led a team."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(paths.CareerData, "skills.txt"), []byte("Go, SQL"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(paths.CareerData, "photo.png"), []byte{0x89}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(paths.CodeSamples, "main.go"), []byte("package main"), 0o644))

	store := NewStore(paths, nil)
	docs, err := store.Documents()
	require.NoError(t, err)

	kinds := map[types.FactKind]int{}
	for _, d := range docs {
		kinds[d.Kind]++
	}
	assert.Equal(t, 1, kinds[types.KindPersonalInfo])
	assert.Equal(t, 1, kinds[types.KindExperience])
	assert.Equal(t, 1, kinds[types.KindSkill])
	assert.Equal(t, 1, kinds[types.KindCodeSample])
	// the png is skipped
	assert.Len(t, docs, 4)
}

func TestDocuments_MissingDirsAreFine(t *testing.T) {
	paths := testPaths(t)
	writePersonalInfo(t, paths, validPersonalInfo)

	store := NewStore(paths, nil)
	docs, err := store.Documents()
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestCategorizeFile(t *testing.T) {
	tests := []struct {
		name, filename, content string
		expected                types.FactKind
	}{
		{"filename experience", "work_experience.md", "", types.KindExperience},
		{"filename skills", "skills.txt", "", types.KindSkill},
		{"filename projects", "side_projects.md", "", types.KindProject},
		{"filename education", "education.md", "", types.KindEducation},
		{"content fallback", "notes.md", "I got my degree in 2019", types.KindEducation},
		{"default", "notes.md", "miscellaneous text", types.KindExperience},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CategorizeFile(tt.filename, tt.content))
		})
	}
}

func TestScaffold(t *testing.T) {
	paths := testPaths(t)

	require.NoError(t, Scaffold(paths))
	assert.DirExists(t, paths.CareerData)
	assert.DirExists(t, paths.CodeSamples)
	assert.FileExists(t, paths.PersonalInfo)
	assert.FileExists(t, paths.CVTemplate)

	// scaffolded personal info passes its own schema
	store := NewStore(paths, nil)
	info, err := store.LoadPersonalInfo()
	require.NoError(t, err)
	assert.Equal(t, "Your Name", info.Name)
}

func TestScaffold_DoesNotOverwrite(t *testing.T) {
	paths := testPaths(t)
	writePersonalInfo(t, paths, validPersonalInfo)

	require.NoError(t, Scaffold(paths))

	data, err := os.ReadFile(paths.PersonalInfo)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Ada Lovelace")
}
