// Package facts loads and serves the user's verified fact store: the
// personal info file, freeform career data, code samples, and the CV
// template. Everything generation may claim traces back to this store.
package facts

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/cv-agent/internal/config"
	"github.com/jonathan/cv-agent/internal/schemas"
	"github.com/jonathan/cv-agent/internal/types"
)

// textExtensions are the file types ingested from the career data directory.
var textExtensions = map[string]bool{
	".md":   true,
	".txt":  true,
	".json": true,
	".yaml": true,
	".yml":  true,
}

// LoadError describes a failure to load part of the fact store.
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fact store: %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("fact store: %s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Document is one ingestable unit of the fact store, categorized for
// retrieval.
type Document struct {
	Path    string
	Content string
	Kind    types.FactKind
}

// Store reads the on-disk fact store for one user.
type Store struct {
	paths  config.UserPaths
	logger *slog.Logger
}

// NewStore creates a Store over the given user layout.
func NewStore(paths config.UserPaths, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{paths: paths, logger: logger}
}

// LoadPersonalInfo reads and validates the personal info file.
func (s *Store) LoadPersonalInfo() (*types.PersonalInfo, error) {
	data, err := os.ReadFile(s.paths.PersonalInfo)
	if err != nil {
		return nil, &LoadError{Path: s.paths.PersonalInfo, Message: "failed to read personal info", Cause: err}
	}

	if err := schemas.ValidateJSONString(personalInfoSchema, string(data)); err != nil {
		return nil, &LoadError{Path: s.paths.PersonalInfo, Message: "personal info failed schema validation", Cause: err}
	}

	var info types.PersonalInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, &LoadError{Path: s.paths.PersonalInfo, Message: "failed to parse personal info", Cause: err}
	}
	return &info, nil
}

// LoadCVTemplate reads the CV template YAML. A missing file is not an
// error: generation then starts from an empty skeleton.
func (s *Store) LoadCVTemplate() (*types.CVTemplate, error) {
	data, err := os.ReadFile(s.paths.CVTemplate)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("no CV template found, using empty skeleton", "path", s.paths.CVTemplate)
			return &types.CVTemplate{}, nil
		}
		return nil, &LoadError{Path: s.paths.CVTemplate, Message: "failed to read CV template", Cause: err}
	}

	var tmpl types.CVTemplate
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, &LoadError{Path: s.paths.CVTemplate, Message: "failed to parse CV template", Cause: err}
	}
	return &tmpl, nil
}

// Records loads the personal info file and flattens it into fact records.
func (s *Store) Records() ([]types.FactRecord, error) {
	info, err := s.LoadPersonalInfo()
	if err != nil {
		return nil, err
	}
	return ToRecords(info, filepath.Base(s.paths.PersonalInfo)), nil
}

// Documents returns every ingestable unit of the fact store: the personal
// info file, each career data file, and each code sample.
func (s *Store) Documents() ([]Document, error) {
	var docs []Document

	if data, err := os.ReadFile(s.paths.PersonalInfo); err == nil {
		docs = append(docs, Document{
			Path:    s.paths.PersonalInfo,
			Content: string(data),
			Kind:    types.KindPersonalInfo,
		})
	}

	careerDocs, err := s.readDir(s.paths.CareerData, "")
	if err != nil {
		return nil, err
	}
	docs = append(docs, careerDocs...)

	sampleDocs, err := s.readDir(s.paths.CodeSamples, types.KindCodeSample)
	if err != nil {
		return nil, err
	}
	docs = append(docs, sampleDocs...)

	return docs, nil
}

// readDir ingests text files from dir. When fixedKind is empty each file is
// categorized individually.
func (s *Store) readDir(dir string, fixedKind types.FactKind) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &LoadError{Path: dir, Message: "failed to read directory", Cause: err}
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if fixedKind != types.KindCodeSample && !textExtensions[ext] {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable fact file", "path", path, "error", err)
			continue
		}
		kind := fixedKind
		if kind == "" {
			kind = CategorizeFile(entry.Name(), string(data))
		}
		docs = append(docs, Document{Path: path, Content: string(data), Kind: kind})
	}
	return docs, nil
}

// categoryKeywords map filename or content markers to fact categories.
// Filename wins over content; first match wins within each.
var categoryKeywords = []struct {
	kind  types.FactKind
	words []string
}{
	{types.KindExperience, []string{"experience", "work", "career", "employment", "job_history"}},
	{types.KindSkill, []string{"skill", "technolog", "stack", "competenc"}},
	{types.KindProject, []string{"project", "portfolio", "side_"}},
	{types.KindEducation, []string{"education", "degree", "universit", "certificat"}},
}

// CategorizeFile assigns a fact category from the filename, falling back to
// content keywords, then to experience.
func CategorizeFile(filename, content string) types.FactKind {
	name := strings.ToLower(filename)
	for _, ck := range categoryKeywords {
		for _, w := range ck.words {
			if strings.Contains(name, w) {
				return ck.kind
			}
		}
	}

	lowered := strings.ToLower(content)
	for _, ck := range categoryKeywords {
		for _, w := range ck.words {
			if strings.Contains(lowered, w) {
				return ck.kind
			}
		}
	}
	return types.KindExperience
}
